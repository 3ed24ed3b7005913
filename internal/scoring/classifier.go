package scoring

import (
	"math"

	"psychoreport/internal/domain"
)

// ClassifyRisk compares a total score against the question count so the
// result does not depend on the answer scale.
func ClassifyRisk(totalScore float64, totalQuestions int, t Thresholds) domain.RiskLevel {
	t = t.orDefault()
	if totalQuestions <= 0 {
		return domain.RiskLow
	}
	n := float64(totalQuestions)
	switch {
	case totalScore >= n*t.High:
		return domain.RiskHigh
	case totalScore >= n*t.Medium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// SimulationAlert flags a suspicious deviation from the population norm.
func SimulationAlert(difference float64, t Thresholds) bool {
	t = t.orDefault()
	return math.Abs(difference) > t.Simulation
}

// Overall sums every category and classifies the result with the same tiers.
func Overall(categories []domain.CategoryResult, t Thresholds) domain.OverallResult {
	var total float64
	var n int
	for _, c := range categories {
		total += c.TotalScore
		n += c.TotalQuestions
	}
	res := domain.OverallResult{
		TotalScore:     total,
		TotalQuestions: n,
		RiskLevel:      ClassifyRisk(total, n, t),
	}
	if n > 0 {
		res.Percentage = round(total/float64(n*MaxReliabilityScore)*100, 1)
	}
	return res
}

// RiskClass maps a level to the CSS class used by report templates.
func RiskClass(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "risk-high"
	case domain.RiskMedium:
		return "risk-medium"
	default:
		return "risk-low"
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
