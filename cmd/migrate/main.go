package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"psychoreport/internal/config"
	"psychoreport/internal/database"
	"psychoreport/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the Oracle schema migrations embedded in the binary",
		SilenceUsage: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), cfg, func(ctx context.Context, m *database.Migrator) error {
					applied, err := m.Up(ctx)
					if err != nil {
						return err
					}
					logger.Get().Info("Migrations applied", zap.Int("count", applied))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Revert the last applied migrations (all when steps is omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 0
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				return withMigrator(cmd.Context(), cfg, func(ctx context.Context, m *database.Migrator) error {
					reverted, err := m.Down(ctx, steps)
					if err != nil {
						return err
					}
					logger.Get().Info("Migrations reverted", zap.Int("count", reverted))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), cfg, func(ctx context.Context, m *database.Migrator) error {
					statuses, err := m.Status(ctx)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
					for _, s := range statuses {
						appliedAt := "pending"
						if s.Applied && s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format(time.RFC3339)
						}
						fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Name, appliedAt)
					}
					return w.Flush()
				})
			},
		},
	)
	return root
}

func withMigrator(ctx context.Context, cfg *config.Config, fn func(context.Context, *database.Migrator) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db.DB, database.MigrationsFS, database.MigrationsDir)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(ctx, m)
}
