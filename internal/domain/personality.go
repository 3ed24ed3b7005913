package domain

import (
	"encoding/json"
	"time"
)

// Dimension is one of the five OCEAN traits.
type Dimension string

const (
	DimensionOpenness          Dimension = "O"
	DimensionConscientiousness Dimension = "C"
	DimensionExtraversion      Dimension = "E"
	DimensionAgreeableness     Dimension = "A"
	DimensionNeuroticism       Dimension = "N"
)

// Dimensions lists the traits in report order.
var Dimensions = []Dimension{
	DimensionOpenness,
	DimensionConscientiousness,
	DimensionExtraversion,
	DimensionAgreeableness,
	DimensionNeuroticism,
}

var dimensionLabels = map[Dimension]string{
	DimensionOpenness:          "Apertura",
	DimensionConscientiousness: "Responsabilidad",
	DimensionExtraversion:      "Extraversión",
	DimensionAgreeableness:     "Amabilidad",
	DimensionNeuroticism:       "Neuroticismo",
}

// Label returns the Spanish display name.
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// PersonalityItem is an answered Likert item of the personality snapshot.
type PersonalityItem struct {
	QuestionID  string      `json:"questionId"`
	Dimension   Dimension   `json:"dimension"`
	Orientation Orientation `json:"orientation"`
	Value       int         `json:"value"`
}

// DimensionScores holds 0..100 scores keyed by trait letter.
type DimensionScores map[Dimension]float64

// DimensionResult is a scored trait ready for display.
type DimensionResult struct {
	Dimension Dimension `json:"dimension"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	Level     string    `json:"level"`
}

// MotivationScore is an optional motivation sub-score.
type MotivationScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// PersonalityResult is a stored OCEAN test result. Either Items or Scores
// is populated.
type PersonalityResult struct {
	ID               string
	UserID           string
	TestID           string
	TestTitle        string
	Candidate        Candidate
	Items            []PersonalityItem
	Scores           DimensionScores
	Motivation       []MotivationScore
	AIInterpretation json.RawMessage
	CreatedAt        time.Time
}
