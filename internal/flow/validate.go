package flow

import "strings"

// validateAnswer checks the value against the question's declared answer type
// and returns it in canonical form (numbers as float64, selections as their
// exact option strings). A mismatch yields a *ValidationError and leaves the
// caller free to re-prompt.
func validateAnswer(q *Question, value interface{}) (interface{}, *ValidationError) {
	switch q.Type {
	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "expected a boolean"}
		}
		return b, nil

	case TypeSingle, TypeScale:
		s, ok := value.(string)
		if !ok {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "expected a single option"}
		}
		if !containsOption(q.Options, s) {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "value is not one of the declared options"}
		}
		return s, nil

	case TypeMulti:
		selected, ok := toStringSlice(value)
		if !ok {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "expected a list of options"}
		}
		if q.Required && len(selected) == 0 {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "at least one option is required"}
		}
		for _, s := range selected {
			if !containsOption(q.Options, s) {
				return nil, &ValidationError{QuestionID: q.ID, Reason: "value " + s + " is not one of the declared options"}
			}
		}
		return selected, nil

	case TypeNumber:
		n, ok := toFloat(value)
		if !ok {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "expected a number"}
		}
		return n, nil

	case TypeText:
		s, ok := value.(string)
		if !ok {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "expected text"}
		}
		if q.Required && strings.TrimSpace(s) == "" {
			return nil, &ValidationError{QuestionID: q.ID, Reason: "an answer is required"}
		}
		return s, nil
	}
	return nil, &ValidationError{QuestionID: q.ID, Reason: "unknown answer type"}
}

func containsOption(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}

// toStringSlice accepts both []string and the []interface{} that JSON
// decoding produces.
func toStringSlice(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
