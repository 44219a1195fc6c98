package flow

import "sort"

// Risk category names used by the built-in catalog. Catalogs may introduce
// their own categories; a category without a configured threshold never
// raises an aggregate flag.
const (
	CategoryMentalHealth   = "mental_health"
	CategoryAnxiety        = "anxiety"
	CategoryCardiovascular = "cardiovascular"
	CategoryLifestyle      = "lifestyle"
)

// Aggregate thresholds: a category total at or above its threshold raises the
// matching flag. Values were lifted from the product's questionnaire rules and
// still need confirmation from clinical stakeholders.
var riskThresholds = map[string]float64{
	CategoryMentalHealth:   2.5,
	CategoryAnxiety:        2.0,
	CategoryCardiovascular: 2.0,
	CategoryLifestyle:      3.0,
}

// FlagForCategory returns the qualitative flag name a category raises.
func FlagForCategory(category string) string {
	return category + "_risk"
}

// RiskScore holds per-category sub-scores and the qualitative flags they
// raised. It is always derived from a response map, never stored or mutated
// incrementally.
type RiskScore struct {
	Categories map[string]float64 `json:"categories"`
	Flags      []string           `json:"flags"`
}

// HasFlag reports whether the given qualitative flag is set.
func (r RiskScore) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ComputeRisk recomputes the full risk score from scratch. For each answered
// question with a risk weight, weight x normalized severity is accumulated
// into the question's category bucket. A critical question answered with any
// positive severity raises its flag immediately, independent of aggregates
// (the single-item rule used by instruments like PHQ-9 item 9).
func ComputeRisk(catalog *Catalog, responses map[string]interface{}) RiskScore {
	score := RiskScore{Categories: make(map[string]float64)}
	flags := make(map[string]bool)

	for _, d := range catalog.Domains {
		for i := range d.Questions {
			q := &d.Questions[i]
			answer, ok := responses[q.ID]
			if !ok {
				continue
			}
			sev := answerSeverity(q, answer)
			if q.Critical && sev > 0 {
				flags[q.CriticalFlag] = true
			}
			if q.RiskWeight == 0 || q.RiskCategory == "" {
				continue
			}
			score.Categories[q.RiskCategory] += q.RiskWeight * sev
		}
	}

	for category, total := range score.Categories {
		threshold, ok := riskThresholds[category]
		if ok && total >= threshold {
			flags[FlagForCategory(category)] = true
		}
	}

	score.Flags = make([]string, 0, len(flags))
	for f := range flags {
		score.Flags = append(score.Flags, f)
	}
	sort.Strings(score.Flags)
	return score
}

// answerSeverity normalizes an answer to [0, 1]. Booleans contribute full
// weight when true. Scale and single-select answers map to their ordinal
// position over the option count minus one. Multi-select takes the worst
// selected option. Numbers normalize over the question's declared bounds.
// Free text never contributes to scoring.
func answerSeverity(q *Question, answer interface{}) float64 {
	switch q.Type {
	case TypeBoolean:
		if b, ok := answer.(bool); ok && b {
			return 1
		}
		return 0
	case TypeSingle, TypeScale:
		s, ok := answer.(string)
		if !ok {
			return 0
		}
		return optionOrdinal(q.Options, s)
	case TypeMulti:
		selected, ok := answer.([]string)
		if !ok {
			return 0
		}
		worst := 0.0
		for _, s := range selected {
			if v := optionOrdinal(q.Options, s); v > worst {
				worst = v
			}
		}
		return worst
	case TypeNumber:
		n, ok := answer.(float64)
		if !ok || q.Max <= q.Min {
			return 0
		}
		v := (n - q.Min) / (q.Max - q.Min)
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	default:
		return 0
	}
}

func optionOrdinal(options []string, selected string) float64 {
	if len(options) < 2 {
		return 0
	}
	for i, opt := range options {
		if opt == selected {
			return float64(i) / float64(len(options)-1)
		}
	}
	return 0
}
