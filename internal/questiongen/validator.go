package questiongen

import (
	"fmt"
	"strings"
)

// Validator checks a generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural", "options".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard validator chain.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
		&AnswerValidator{},
	}
}

// Validate runs the chain in order and returns the first failure.
func Validate(q *Question, chain []Validator) *ValidationError {
	for _, v := range chain {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}

// StructuralValidator checks that the question text is present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question text is empty"}
	}
	if len(q.Text) > 1000 {
		return &ValidationError{Validator: v.Name(), Message: "question text exceeds 1000 characters"}
	}
	if len(q.Explanation) > 2000 {
		return &ValidationError{Validator: v.Name(), Message: "explanation exceeds 2000 characters"}
	}
	return nil
}

// OptionsValidator checks there are exactly four distinct, non-empty
// options and none of them collides with the skip sentinel.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	if len(q.Options) != OptionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)),
		}
	}
	seen := make(map[string]bool, OptionCount)
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is empty", i+1),
			}
		}
		if o == SkipSentinel {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d uses reserved text %q", i+1, SkipSentinel),
			}
		}
		if seen[o] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate option %q", o),
			}
		}
		seen[o] = true
	}
	return nil
}

// AnswerValidator checks that the correct answer is byte-identical to one
// of the options.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *Question) *ValidationError {
	if q.CorrectIndex() < 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct answer %q is not one of the options", q.CorrectAnswer),
		}
	}
	return nil
}
