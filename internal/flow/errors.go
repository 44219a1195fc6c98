package flow

import "fmt"

// ValidationError reports an answer whose shape does not match the question's
// declared type, or an empty answer to a required question. The engine state
// is untouched; the caller re-prompts the same question.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answer for question %q: %s", e.QuestionID, e.Reason)
}

// OutOfSequenceError is the panic value raised when an answer is submitted
// for a question that is not currently pending. Accepting it silently would
// corrupt the question-to-answer correspondence, so this is treated as a
// programming error rather than a recoverable one.
type OutOfSequenceError struct {
	Submitted string
	Pending   string
}

func (e *OutOfSequenceError) Error() string {
	if e.Pending == "" {
		return fmt.Sprintf("submitted answer for %q but no question is pending", e.Submitted)
	}
	return fmt.Sprintf("submitted answer for %q while %q is pending", e.Submitted, e.Pending)
}
