package validation

import (
	"strings"
	"testing"

	"psychoreport/internal/domain"
	"psychoreport/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReliabilityReportRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateReliabilityReportRequest(&dto.ReliabilityReportRequest{ExamAttemptID: "01HZX3K8M2QW4E5R6T7Y8U9I0P"}))
	assert.Empty(t, v.ValidateReliabilityReportRequest(&dto.ReliabilityReportRequest{ExamAttemptID: "4f9c2a1e-0b7d-4c55-9a51-3d2b8e6f7a10"}))

	errs := v.ValidateReliabilityReportRequest(&dto.ReliabilityReportRequest{ExamAttemptID: "  "})
	require.Len(t, errs, 1)
	assert.Equal(t, string(domain.CodeMissingField), errs[0].Code)

	errs = v.ValidateReliabilityReportRequest(&dto.ReliabilityReportRequest{ExamAttemptID: "abc' OR 1=1"})
	require.Len(t, errs, 1)
	assert.Equal(t, string(domain.CodeInvalidFormat), errs[0].Code)

	errs = v.ValidateReliabilityReportRequest(&dto.ReliabilityReportRequest{ExamAttemptID: strings.Repeat("a", 65)})
	require.Len(t, errs, 1)
	assert.Equal(t, string(domain.CodeOutOfRange), errs[0].Code)
}

func TestValidatePersonalityReportRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidatePersonalityReportRequest(&dto.PersonalityReportRequest{PersonalityResultID: "pr-1", SelectedModel: "llama3.1:8b"}))

	errs := v.ValidatePersonalityReportRequest(&dto.PersonalityReportRequest{SelectedModel: "bad model"})
	require.Len(t, errs, 2)
	assert.Equal(t, "personalityResultId", errs[0].Field)
	assert.Equal(t, "selectedModel", errs[1].Field)
}

func TestValidate_TrimsForwardedIDs(t *testing.T) {
	v := NewValidator()

	rel := &dto.ReliabilityReportRequest{ExamAttemptID: "  attempt-1 "}
	assert.Empty(t, v.ValidateReliabilityReportRequest(rel))
	assert.Equal(t, "attempt-1", rel.ExamAttemptID)

	per := &dto.PersonalityReportRequest{PersonalityResultID: "\tpr-1\n", SelectedModel: " llama3 "}
	assert.Empty(t, v.ValidatePersonalityReportRequest(per))
	assert.Equal(t, "pr-1", per.PersonalityResultID)
	assert.Equal(t, "llama3", per.SelectedModel)
}
