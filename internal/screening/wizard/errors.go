package wizard

import (
	"fmt"
	"strings"

	dErrors "lexscreen/pkg/domain-errors"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
)

// ValidationError names the required fields of a step that are still unknown.
// The caller re-prompts the same step.
type ValidationError struct {
	Step   models.StepID
	Fields []intake.FieldKey
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: required fields unanswered: %s", e.Step, strings.Join(e.InvalidFields(), ", "))
}

func (e *ValidationError) Unwrap() error {
	return dErrors.New(dErrors.CodeValidation, e.Error())
}

// IncompleteSubmissionError is returned when submit is attempted before the
// last applicable step, or when an earlier applicable step still has
// unanswered required fields (Pending and Fields name them).
type IncompleteSubmissionError struct {
	Step    models.StepID
	Final   models.StepID
	Pending models.StepID
	Fields  []intake.FieldKey
}

func (e *IncompleteSubmissionError) Error() string {
	if e.Pending != "" {
		return fmt.Sprintf("cannot submit: step %s has unanswered required fields: %s",
			e.Pending, strings.Join(fieldNames(e.Fields), ", "))
	}
	return fmt.Sprintf("cannot submit from step %s: final step is %s", e.Step, e.Final)
}

// InvalidFields lists the earlier step's unanswered fields, if any.
func (e *IncompleteSubmissionError) InvalidFields() []string {
	return fieldNames(e.Fields)
}

func (e *IncompleteSubmissionError) Unwrap() error {
	return dErrors.New(dErrors.CodeInvalidState, e.Error())
}

// InvalidFields lists the unanswered field keys for transports.
func (e *ValidationError) InvalidFields() []string {
	return fieldNames(e.Fields)
}

func fieldNames(keys []intake.FieldKey) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, f := range keys {
		out[i] = string(f)
	}
	return out
}
