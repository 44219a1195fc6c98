package flow

// Recommendation is the tri-state outcome of consistency checking.
type Recommendation string

const (
	RecommendPass  Recommendation = "pass"
	RecommendFlag  Recommendation = "flag"
	RecommendBlock Recommendation = "block"
)

// Consistency cutoffs on the 0-100 inconsistency scale. The flag cutoff
// matches the questionnaire rules shipped with the portal; both values are
// centralized here pending confirmation from product stakeholders.
const (
	FlagCutoff  = 50.0
	BlockCutoff = 75.0
)

// PairFinding records one evaluated validation pair.
type PairFinding struct {
	QuestionID string  `json:"question_id"`
	PairedWith string  `json:"paired_with"`
	Delta      float64 `json:"delta"` // absolute normalized difference, 0-1
}

// ConsistencyReport is the fraud/consistency signal derived from redundant
// question pairs. TrustScore is the inverse of the inconsistency score so the
// caller can render it directly as a badge.
type ConsistencyReport struct {
	InconsistencyScore float64        `json:"inconsistency_score"` // 0-100
	TrustScore         float64        `json:"trust_score"`         // 0-100
	Findings           []PairFinding  `json:"findings,omitempty"`
	Recommendation     Recommendation `json:"recommendation"`
}

// ComputeConsistency compares every declared validation pair whose both
// members are answered and scores the mean absolute difference of their
// normalized answers on a 0-100 scale. It runs after every answer, not just
// at completion, so the caller can react immediately.
func ComputeConsistency(catalog *Catalog, responses map[string]interface{}) ConsistencyReport {
	report := ConsistencyReport{TrustScore: 100, Recommendation: RecommendPass}

	total := 0.0
	for _, d := range catalog.Domains {
		for i := range d.Questions {
			q := &d.Questions[i]
			if q.PairedWith == "" {
				continue
			}
			pair := catalog.QuestionByID(q.PairedWith)
			if pair == nil {
				continue
			}
			a, okA := responses[q.ID]
			b, okB := responses[pair.ID]
			if !okA || !okB {
				continue
			}
			delta := answerSeverity(q, a) - answerSeverity(pair, b)
			if delta < 0 {
				delta = -delta
			}
			report.Findings = append(report.Findings, PairFinding{
				QuestionID: q.ID,
				PairedWith: pair.ID,
				Delta:      delta,
			})
			total += delta
		}
	}

	if len(report.Findings) == 0 {
		return report
	}

	report.InconsistencyScore = total / float64(len(report.Findings)) * 100
	report.TrustScore = 100 - report.InconsistencyScore
	switch {
	case report.InconsistencyScore >= BlockCutoff:
		report.Recommendation = RecommendBlock
	case report.InconsistencyScore >= FlagCutoff:
		report.Recommendation = RecommendFlag
	}
	return report
}
