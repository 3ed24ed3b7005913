package handler

import (
	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/middleware"
	"psychoreport/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the report endpoints. Requests arrive already parsed
// and validated by middleware.ValidationMiddleware.
type ReportHandler struct {
	reliability service.ReliabilityReportService
	personality service.PersonalityReportService
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(reliability service.ReliabilityReportService, personality service.PersonalityReportService) *ReportHandler {
	return &ReportHandler{
		reliability: reliability,
		personality: personality,
	}
}

// GenerateReliabilityReport godoc
// @Summary Generate a reliability report
// @Description Scores a completed exam attempt, classifies risk per category and renders the HTML report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.ReliabilityReportRequest true "Report request"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /reports/reliability [post]
func (h *ReportHandler) GenerateReliabilityReport(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.LocalReliabilityRequest).(*dto.ReliabilityReportRequest)
	if !ok {
		return domain.NewInvalidInputError("Invalid request body")
	}

	resp, err := h.reliability.Generate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GeneratePersonalityReport godoc
// @Summary Generate an OCEAN personality report
// @Description Scores the five personality dimensions of a stored result and renders the HTML report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.PersonalityReportRequest true "Report request"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /reports/ocean [post]
func (h *ReportHandler) GeneratePersonalityReport(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.LocalPersonalityRequest).(*dto.PersonalityReportRequest)
	if !ok {
		return domain.NewInvalidInputError("Invalid request body")
	}

	resp, err := h.personality.Generate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// InterpretPersonality godoc
// @Summary Interpret a personality result
// @Description Returns the AI interpretation addressed to the candidate and stores it on the result
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.PersonalityReportRequest true "Interpretation request"
// @Success 200 {object} dto.AIAnalysis
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /reports/ocean/interpretation [post]
func (h *ReportHandler) InterpretPersonality(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.LocalPersonalityRequest).(*dto.PersonalityReportRequest)
	if !ok {
		return domain.NewInvalidInputError("Invalid request body")
	}

	ai, err := h.personality.Interpret(c.UserContext(), req.PersonalityResultID, req.SelectedModel, req.ForceRegenerate)
	if err != nil {
		return err
	}
	return c.JSON(ai)
}
