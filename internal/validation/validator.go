package validation

import (
	"regexp"
	"strings"

	"psychoreport/internal/domain"
	"psychoreport/internal/dto"
)

const (
	maxIDLength    = 64
	maxModelLength = 100
)

var (
	validID    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	validModel = regexp.MustCompile(`^[A-Za-z0-9._:/-]+$`)
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateReliabilityReportRequest trims and validates the reliability report request
func (v *Validator) ValidateReliabilityReportRequest(req *dto.ReliabilityReportRequest) domain.ValidationErrors {
	req.ExamAttemptID = strings.TrimSpace(req.ExamAttemptID)

	var errors domain.ValidationErrors
	errors = append(errors, validateID("examAttemptId", req.ExamAttemptID)...)
	return errors
}

// ValidatePersonalityReportRequest trims and validates the OCEAN report request
func (v *Validator) ValidatePersonalityReportRequest(req *dto.PersonalityReportRequest) domain.ValidationErrors {
	req.PersonalityResultID = strings.TrimSpace(req.PersonalityResultID)
	req.SelectedModel = strings.TrimSpace(req.SelectedModel)

	var errors domain.ValidationErrors
	errors = append(errors, validateID("personalityResultId", req.PersonalityResultID)...)

	if model := req.SelectedModel; model != "" {
		if len(model) > maxModelLength {
			errors = append(errors, domain.NewOutOfRangeError("selectedModel", len(model), 1, maxModelLength))
		} else if !validModel.MatchString(model) {
			errors = append(errors, domain.NewInvalidFormatError("selectedModel", model))
		}
	}
	return errors
}

// validateID accepts ULIDs, UUIDs and other opaque alphanumeric ids.
// Callers trim id first.
func validateID(field, id string) domain.ValidationErrors {
	switch {
	case id == "":
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	case len(id) > maxIDLength:
		return domain.ValidationErrors{domain.NewOutOfRangeError(field, len(id), 1, maxIDLength)}
	case !validID.MatchString(id):
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}
