// Package scoring turns answered assessments into category, risk and
// personality scores. Everything here is pure.
package scoring

import (
	"strconv"
	"strings"

	"psychoreport/internal/domain"
)

// Reliability answer labels.
const (
	LabelNever     = "Nunca"
	LabelRarely    = "Rara vez"
	LabelSometimes = "A veces"
	LabelOften     = "Frecuentemente"
)

// MaxReliabilityScore is the highest score of a single reliability item.
const MaxReliabilityScore = 3

var reliabilityScale = map[string]int{
	LabelNever:     0,
	LabelRarely:    1,
	LabelSometimes: 2,
	LabelOften:     3,
}

// NormalizeReliability maps a reliability label to 0..3. Unknown labels
// score 0 with recognized=false so callers can tell them apart from "Nunca".
func NormalizeReliability(label string) (score int, recognized bool) {
	trimmed := strings.TrimSpace(label)
	if v, ok := reliabilityScale[trimmed]; ok {
		return v, true
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return normalizeReliabilityValue(n)
	}
	return 0, false
}

// NormalizeReliabilityAnswer scores an answer given either as label or value.
func NormalizeReliabilityAnswer(a domain.Answer) (int, bool) {
	if a.Label != "" {
		return NormalizeReliability(a.Label)
	}
	if a.Value != nil {
		return normalizeReliabilityValue(*a.Value)
	}
	return 0, false
}

func normalizeReliabilityValue(v int) (int, bool) {
	if v < 0 || v > MaxReliabilityScore {
		return 0, false
	}
	return v, true
}

// NormalizeLikert clamps a 1..5 answer and inverts it for negative items.
func NormalizeLikert(value int, orientation domain.Orientation) int {
	if value < 1 {
		value = 1
	}
	if value > 5 {
		value = 5
	}
	if orientation == domain.OrientationNegative {
		return 6 - value
	}
	return value
}
