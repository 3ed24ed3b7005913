package handler

import (
	"psychoreport/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under router, usually the /api group.
func RegisterRoutes(router fiber.Router, reports *ReportHandler, health *HealthHandler, vm *middleware.ValidationMiddleware) {
	router.Get("/health", health.Check)

	reportGroup := router.Group("/reports")
	reportGroup.Post("/reliability", vm.ValidateReliabilityReport(), reports.GenerateReliabilityReport)
	reportGroup.Post("/ocean", vm.ValidatePersonalityReport(), reports.GeneratePersonalityReport)
	reportGroup.Post("/ocean/interpretation", vm.ValidatePersonalityReport(), reports.InterpretPersonality)
}
