package flow

import (
	"fmt"
	"strconv"
)

// AnswerType defines the shape of the value a question accepts.
type AnswerType string

const (
	TypeBoolean     AnswerType = "boolean"
	TypeSingle      AnswerType = "single_select"
	TypeMulti       AnswerType = "multi_select"
	TypeNumber      AnswerType = "number"
	TypeText        AnswerType = "text"
	TypeScale       AnswerType = "scale"
)

// AnyValue is the wildcard marker for visibility conditions: the question is
// shown as soon as the dependee has any non-empty answer.
const AnyValue = "*"

// Condition gates a question on a previously answered one.
type Condition struct {
	QuestionID string   `json:"question_id"`
	Values     []string `json:"values"` // accepted values, or [AnyValue]
}

// Question is a single catalog entry. Risk weight, instrument tag and the
// consistency pair are optional; a zero RiskWeight means the answer never
// contributes to scoring.
type Question struct {
	ID           string     `json:"id"`
	Prompt       string     `json:"prompt"`
	Type         AnswerType `json:"type"`
	Options      []string   `json:"options,omitempty"` // single_select, multi_select, scale
	Required     bool       `json:"required"`
	Instrument   string     `json:"instrument,omitempty"` // e.g. "PHQ-9"
	RiskWeight   float64    `json:"risk_weight,omitempty"`
	RiskCategory string     `json:"risk_category,omitempty"`
	Critical     bool       `json:"critical,omitempty"`      // single positive answer raises CriticalFlag
	CriticalFlag string     `json:"critical_flag,omitempty"` // e.g. "suicide_risk"
	DependsOn    *Condition `json:"depends_on,omitempty"`
	PairedWith   string     `json:"paired_with,omitempty"` // consistency validation pair
	Min          float64    `json:"min,omitempty"`         // number only
	Max          float64    `json:"max,omitempty"`         // number only
}

// Domain is an ordered group of questions with a display title.
type Domain struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Catalog is the static question configuration an Engine is built with.
type Catalog struct {
	Name    string   `json:"name"`
	Domains []Domain `json:"domains"`
}

// Validate checks structural consistency of the catalog: unique question IDs,
// resolvable depends-on and paired-with references, and options present where
// the answer type needs them.
func (c *Catalog) Validate() error {
	ids := make(map[string]bool)
	for _, d := range c.Domains {
		if d.ID == "" {
			return fmt.Errorf("catalog %q: domain with empty id", c.Name)
		}
		for _, q := range d.Questions {
			if q.ID == "" {
				return fmt.Errorf("domain %q: question with empty id", d.ID)
			}
			if ids[q.ID] {
				return fmt.Errorf("duplicate question id %q", q.ID)
			}
			ids[q.ID] = true
			switch q.Type {
			case TypeBoolean, TypeNumber, TypeText:
			case TypeSingle, TypeMulti, TypeScale:
				if len(q.Options) < 2 {
					return fmt.Errorf("question %q: type %s needs at least two options", q.ID, q.Type)
				}
			default:
				return fmt.Errorf("question %q: unknown answer type %q", q.ID, q.Type)
			}
			if q.Critical && q.CriticalFlag == "" {
				return fmt.Errorf("question %q: critical without critical_flag", q.ID)
			}
		}
	}
	for _, d := range c.Domains {
		for _, q := range d.Questions {
			if q.DependsOn != nil {
				if !ids[q.DependsOn.QuestionID] {
					return fmt.Errorf("question %q: depends_on unknown question %q", q.ID, q.DependsOn.QuestionID)
				}
				if len(q.DependsOn.Values) == 0 {
					return fmt.Errorf("question %q: depends_on with empty value set", q.ID)
				}
			}
			if q.PairedWith != "" && !ids[q.PairedWith] {
				return fmt.Errorf("question %q: paired_with unknown question %q", q.ID, q.PairedWith)
			}
		}
	}
	return nil
}

// QuestionByID looks a question up anywhere in the catalog.
func (c *Catalog) QuestionByID(id string) *Question {
	for di := range c.Domains {
		for qi := range c.Domains[di].Questions {
			if c.Domains[di].Questions[qi].ID == id {
				return &c.Domains[di].Questions[qi]
			}
		}
	}
	return nil
}

// Visible evaluates the question's depends-on condition against the current
// response map. Questions without a condition are always visible.
func (q *Question) Visible(responses map[string]interface{}) bool {
	if q.DependsOn == nil {
		return true
	}
	answer, ok := responses[q.DependsOn.QuestionID]
	if !ok {
		return false
	}
	if len(q.DependsOn.Values) == 1 && q.DependsOn.Values[0] == AnyValue {
		return !isEmptyAnswer(answer)
	}
	switch v := answer.(type) {
	case []string:
		// Multi-select dependee: visible on non-empty intersection.
		for _, sel := range v {
			for _, want := range q.DependsOn.Values {
				if sel == want {
					return true
				}
			}
		}
		return false
	default:
		s := answerAsString(answer)
		for _, want := range q.DependsOn.Values {
			if s == want {
				return true
			}
		}
		return false
	}
}

func isEmptyAnswer(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	default:
		// booleans and numbers count as answered whatever their value
		return false
	}
}

func answerAsString(v interface{}) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
