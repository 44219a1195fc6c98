package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"wellpath-backend-V2.0/internal/flow"
)

// LoadFile reads a catalog definition from a JSON file and validates it.
// Deployments override the built-in catalog by pointing the config at a file.
func LoadFile(path string) (*flow.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var cat flow.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &cat, nil
}

// Default returns the built-in onboarding health catalog: demographics, a
// PHQ-9 style mood instrument, GAD-7 style anxiety items and a lifestyle
// section with redundant consistency pairs.
func Default() *flow.Catalog {
	frequency := []string{"Not at all", "Several days", "More than half the days", "Nearly every day"}
	often := []string{"never", "sometimes", "often", "always"}

	return &flow.Catalog{
		Name: "onboarding-health-v1",
		Domains: []flow.Domain{
			{
				ID:    "demographics",
				Title: "About You",
				Questions: []flow.Question{
					{ID: "age", Prompt: "What is your age?", Type: flow.TypeNumber, Required: true, Min: 16, Max: 120},
					{ID: "conditions", Prompt: "Have you been diagnosed with any of the following?",
						Type:    flow.TypeMulti,
						Options: []string{"diabetes", "hypertension", "heart_disease", "asthma", "none"}},
					{ID: "conditions_details", Prompt: "Tell us more about your diagnosis and treatment.",
						Type:      flow.TypeText,
						DependsOn: &flow.Condition{QuestionID: "conditions", Values: []string{"diabetes", "hypertension", "heart_disease", "asthma"}}},
					{ID: "medications", Prompt: "Do you take any prescription medication?", Type: flow.TypeBoolean},
					{ID: "medications_list", Prompt: "Which medications do you take?",
						Type:      flow.TypeText,
						DependsOn: &flow.Condition{QuestionID: "medications", Values: []string{"true"}}},
				},
			},
			{
				ID:    "mental_health",
				Title: "Mood",
				Questions: []flow.Question{
					{ID: "phq9_1", Prompt: "Little interest or pleasure in doing things?",
						Type: flow.TypeScale, Options: frequency, Instrument: "PHQ-9",
						RiskWeight: 1, RiskCategory: flow.CategoryMentalHealth},
					{ID: "phq9_2", Prompt: "Feeling down, depressed, or hopeless?",
						Type: flow.TypeScale, Options: frequency, Instrument: "PHQ-9",
						RiskWeight: 1, RiskCategory: flow.CategoryMentalHealth},
					{ID: "phq9_9", Prompt: "Thoughts that you would be better off dead, or of hurting yourself?",
						Type: flow.TypeScale, Options: frequency, Instrument: "PHQ-9",
						RiskWeight: 3, RiskCategory: flow.CategoryMentalHealth,
						Critical: true, CriticalFlag: "suicide_risk"},
					{ID: "gad7_1", Prompt: "Feeling nervous, anxious, or on edge?",
						Type: flow.TypeScale, Options: frequency, Instrument: "GAD-7",
						RiskWeight: 1, RiskCategory: flow.CategoryAnxiety},
					{ID: "gad7_2", Prompt: "Not being able to stop or control worrying?",
						Type: flow.TypeScale, Options: frequency, Instrument: "GAD-7",
						RiskWeight: 1, RiskCategory: flow.CategoryAnxiety},
				},
			},
			{
				ID:    "cardiovascular",
				Title: "Heart Health",
				Questions: []flow.Question{
					{ID: "chest_pain", Prompt: "Do you experience chest pain during physical activity?",
						Type: flow.TypeBoolean, RiskWeight: 2, RiskCategory: flow.CategoryCardiovascular},
					{ID: "chest_pain_freq", Prompt: "How often does the chest pain occur?",
						Type: flow.TypeScale, Options: often,
						RiskWeight: 1.5, RiskCategory: flow.CategoryCardiovascular,
						DependsOn: &flow.Condition{QuestionID: "chest_pain", Values: []string{"true"}}},
					{ID: "smoker", Prompt: "Do you currently smoke?",
						Type: flow.TypeBoolean, RiskWeight: 1, RiskCategory: flow.CategoryCardiovascular},
					{ID: "family_history", Prompt: "Has a close relative had heart disease before age 60?",
						Type: flow.TypeBoolean, RiskWeight: 1, RiskCategory: flow.CategoryCardiovascular},
				},
			},
			{
				ID:    "lifestyle",
				Title: "Lifestyle",
				Questions: []flow.Question{
					{ID: "exercise_freq", Prompt: "How often do you exercise for 30 minutes or more?",
						Type: flow.TypeScale, Options: often},
					{ID: "sleep_trouble", Prompt: "How often do you have trouble sleeping?",
						Type: flow.TypeScale, Options: often,
						RiskWeight: 1, RiskCategory: flow.CategoryLifestyle},
					// Redundant re-asks of earlier items; large gaps between
					// the paired answers feed the inconsistency score.
					{ID: "sleep_trouble_check", Prompt: "How often is your sleep disturbed during the night?",
						Type: flow.TypeScale, Options: often,
						PairedWith: "sleep_trouble"},
					{ID: "activity_check", Prompt: "How often are you physically active for half an hour or more?",
						Type: flow.TypeScale, Options: often,
						PairedWith: "exercise_freq"},
					{ID: "notes", Prompt: "Anything else we should know about your health?",
						Type: flow.TypeText},
				},
			},
		},
	}
}
