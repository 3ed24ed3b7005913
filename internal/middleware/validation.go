package middleware

import (
	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
	"psychoreport/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	LocalReliabilityRequest = "validated_reliability_request"
	LocalPersonalityRequest = "validated_personality_request"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateReliabilityReport parses and validates the reliability report body
func (vm *ValidationMiddleware) ValidateReliabilityReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.ReliabilityReportRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
		if errors := vm.validator.ValidateReliabilityReportRequest(&req); len(errors) > 0 {
			return errors // handled by ErrorHandler
		}
		c.Locals(LocalReliabilityRequest, &req)
		return c.Next()
	}
}

// ValidatePersonalityReport parses and validates the OCEAN report body
func (vm *ValidationMiddleware) ValidatePersonalityReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.PersonalityReportRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
		if errors := vm.validator.ValidatePersonalityReportRequest(&req); len(errors) > 0 {
			return errors
		}
		c.Locals(LocalPersonalityRequest, &req)
		return c.Next()
	}
}
