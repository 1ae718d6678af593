package models

import (
	"time"

	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"

	"lexscreen/internal/screening/intake"
)

// StepID names a wizard step within a variant's flow.
type StepID string

// Progress is one in-flight wizard run.
//
// Invariants:
//   - Facts only grow: answers are merged, never deleted
//   - Step is always an applicable step of the variant's flow for Facts
//   - StartedAt is immutable after construction
//   - once Completed, Submission is set and the progress accepts no answers
type Progress struct {
	ID         id.ScreeningID `json:"id"`
	Variant    intake.Variant `json:"variant"`
	Step       StepID         `json:"step"`
	Facts      intake.Facts   `json:"facts"`
	StartedAt  time.Time      `json:"started_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Completed  bool           `json:"completed"`
	Submission *Submission    `json:"submission,omitempty"`
}

// NewProgress starts a run at the flow's first step.
func NewProgress(screeningID id.ScreeningID, v intake.Variant, first StepID, now time.Time) (*Progress, error) {
	if screeningID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "screening id is required")
	}
	if first == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "first step is required")
	}
	return &Progress{
		ID:        screeningID,
		Variant:   v,
		Step:      first,
		Facts:     intake.New(v),
		StartedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanAnswer reports whether the run still accepts navigation.
func (p *Progress) CanAnswer() error {
	if p.Completed {
		return dErrors.New(dErrors.CodeInvalidState, "screening already submitted")
	}
	return nil
}
