package scoring

import "psychoreport/internal/domain"

// UnrecognizedAnswer records an answer that fell back to score 0.
type UnrecognizedAnswer struct {
	QuestionID string
	Label      string
}

// Aggregation is the result of scoring one reliability attempt.
type Aggregation struct {
	Categories   []domain.CategoryResult
	Overall      domain.OverallResult
	Answered     int
	Unrecognized []UnrecognizedAnswer
}

type bucket struct {
	total   float64
	count   int
	normSum float64
}

// Aggregate groups answered questions by category. Answers are matched by
// question ID, unanswered questions are skipped, and categories keep the
// order of their first question. Inputs are not modified.
func Aggregate(questions []domain.Question, answers []domain.Answer, t Thresholds) Aggregation {
	t = t.orDefault()

	byQuestion := make(map[string]domain.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var order []string
	buckets := make(map[string]*bucket)
	var agg Aggregation

	for _, q := range questions {
		a, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		score, recognized := NormalizeReliabilityAnswer(a)
		if !recognized {
			agg.Unrecognized = append(agg.Unrecognized, UnrecognizedAnswer{QuestionID: q.ID, Label: a.Label})
		}

		name := q.Category()
		b, exists := buckets[name]
		if !exists {
			b = &bucket{}
			buckets[name] = b
			order = append(order, name)
		}
		b.total += float64(score)
		b.count++
		b.normSum += q.NormOrDefault(t.DefaultPopulationAverage)
		agg.Answered++
	}

	agg.Categories = make([]domain.CategoryResult, 0, len(order))
	for _, name := range order {
		b := buckets[name]
		avg := b.total / float64(b.count)
		norm := b.normSum / float64(b.count)
		diff := avg - norm
		agg.Categories = append(agg.Categories, domain.CategoryResult{
			Category:          name,
			TotalQuestions:    b.count,
			TotalScore:        b.total,
			Average:           avg,
			PopulationAverage: norm,
			Difference:        diff,
			RiskLevel:         ClassifyRisk(b.total, b.count, t),
			SimulationAlert:   SimulationAlert(diff, t),
		})
	}
	agg.Overall = Overall(agg.Categories, t)
	return agg
}
