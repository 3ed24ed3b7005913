package scoring

import "psychoreport/internal/domain"

// ScoreDimensions averages the normalized Likert answers per trait and maps
// the 1..5 average onto 0..100. Traits without items score 0.
func ScoreDimensions(items []domain.PersonalityItem) domain.DimensionScores {
	sums := make(map[domain.Dimension]int)
	counts := make(map[domain.Dimension]int)
	for _, it := range items {
		sums[it.Dimension] += NormalizeLikert(it.Value, it.Orientation)
		counts[it.Dimension]++
	}

	scores := make(domain.DimensionScores, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		if counts[d] == 0 {
			scores[d] = 0
			continue
		}
		avg := float64(sums[d]) / float64(counts[d])
		scores[d] = LikertToPercent(avg)
	}
	return scores
}

// LikertToPercent converts a 1..5 average to 0..100 with one decimal.
func LikertToPercent(avg float64) float64 {
	return round((avg-1)/4*100, 1)
}

// DimensionLevel buckets a 0..100 score.
func DimensionLevel(score float64) string {
	switch {
	case score < 40:
		return "Bajo"
	case score < 60:
		return "Medio"
	default:
		return "Alto"
	}
}

// DimensionResults returns the five traits in report order.
func DimensionResults(scores domain.DimensionScores) []domain.DimensionResult {
	out := make([]domain.DimensionResult, 0, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		s := scores[d]
		out = append(out, domain.DimensionResult{
			Dimension: d,
			Label:     d.Label(),
			Score:     s,
			Level:     DimensionLevel(s),
		})
	}
	return out
}

// ResolveScores prefers the stored items and falls back to precomputed scores.
func ResolveScores(r *domain.PersonalityResult) domain.DimensionScores {
	if r == nil {
		return domain.DimensionScores{}
	}
	if len(r.Items) > 0 {
		return ScoreDimensions(r.Items)
	}
	scores := make(domain.DimensionScores, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		scores[d] = r.Scores[d]
	}
	return scores
}
