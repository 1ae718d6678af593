// Package wizard drives a screening through its variant's steps.
//
// Navigation is a pure transition: each call takes a Progress value and
// returns the next one, leaving the input untouched on failure. Answers are
// merged into the accumulated facts and never removed, so moving back and
// forth loses nothing. Fields of steps that stop applying keep their stored
// answers but are masked out of the facts handed to the classifier.
package wizard

import (
	"time"

	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
)

// Classifier evaluates effective facts.
type Classifier interface {
	Classify(intake.Facts) rules.Classification
}

// Wizard is stateless apart from its classifier and clock.
type Wizard struct {
	classifier Classifier
	now        func() time.Time
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

func New(classifier Classifier, opts ...Option) *Wizard {
	w := &Wizard{classifier: classifier, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func flowOf(p models.Progress) (*Flow, error) {
	fl, ok := FlowFor(p.Variant)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported screening variant")
	}
	return fl, nil
}

// Start opens a run at the first step of the variant's flow.
func (w *Wizard) Start(screeningID id.ScreeningID, v intake.Variant) (*models.Progress, error) {
	fl, ok := FlowFor(v)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported screening variant")
	}
	return models.NewProgress(screeningID, v, fl.Steps[0].ID, w.now())
}

// Position describes where a run stands.
type Position struct {
	Step    Step `json:"step"`
	Index   int  `json:"index"`
	Total   int  `json:"total"`
	IsFinal bool `json:"is_final"`
}

// Current resolves the run's step against the facts collected so far.
func (w *Wizard) Current(p models.Progress) (Position, error) {
	fl, err := flowOf(p)
	if err != nil {
		return Position{}, err
	}
	steps := fl.ApplicableSteps(p.Facts)
	idx := fl.position(p.Facts, p.Step)
	return Position{Step: steps[idx], Index: idx, Total: len(steps), IsFinal: idx == len(steps)-1}, nil
}

// IsFinalStep reports whether the run is on the last applicable step.
func (w *Wizard) IsFinalStep(p models.Progress) bool {
	pos, err := w.Current(p)
	return err == nil && pos.IsFinal
}

// merge folds answers for the current step into the facts. Answers for
// fields another step collects are rejected.
func merge(p models.Progress, step Step, answers map[intake.FieldKey]intake.Answer) (intake.Facts, error) {
	for key := range answers {
		if !step.collects(key) {
			return intake.Facts{}, dErrors.New(dErrors.CodeValidation,
				"field "+string(key)+" is not collected on step "+string(step.ID))
		}
	}
	return p.Facts.Merge(answers)
}

// Next merges answers, validates the current step and advances. On the final
// step it validates without moving.
func (w *Wizard) Next(p models.Progress, answers map[intake.FieldKey]intake.Answer) (models.Progress, error) {
	if err := p.CanAnswer(); err != nil {
		return p, err
	}
	pos, err := w.Current(p)
	if err != nil {
		return p, err
	}
	facts, err := merge(p, pos.Step, answers)
	if err != nil {
		return p, err
	}
	if missing := pos.Step.missing(facts); len(missing) > 0 {
		return p, &ValidationError{Step: pos.Step.ID, Fields: missing}
	}

	next := p
	next.Facts = facts
	next.UpdatedAt = w.now()
	fl, _ := flowOf(p)
	steps := fl.ApplicableSteps(facts)
	idx := fl.position(facts, pos.Step.ID)
	if idx+1 < len(steps) {
		idx++
	}
	next.Step = steps[idx].ID
	return next, nil
}

// Back merges any answers on the current step without validating them and
// moves to the previous applicable step. The first step stays put.
func (w *Wizard) Back(p models.Progress, answers map[intake.FieldKey]intake.Answer) (models.Progress, error) {
	if err := p.CanAnswer(); err != nil {
		return p, err
	}
	pos, err := w.Current(p)
	if err != nil {
		return p, err
	}
	facts, err := merge(p, pos.Step, answers)
	if err != nil {
		return p, err
	}

	prev := p
	prev.Facts = facts
	prev.UpdatedAt = w.now()
	fl, _ := flowOf(p)
	steps := fl.ApplicableSteps(facts)
	idx := fl.position(facts, pos.Step.ID)
	if idx > 0 {
		idx--
	}
	prev.Step = steps[idx].ID
	return prev, nil
}

// Submit validates the final step, classifies the effective facts once and
// marks the run completed.
func (w *Wizard) Submit(p models.Progress, answers map[intake.FieldKey]intake.Answer) (models.Progress, error) {
	if err := p.CanAnswer(); err != nil {
		return p, err
	}
	pos, err := w.Current(p)
	if err != nil {
		return p, err
	}
	if !pos.IsFinal {
		fl, _ := flowOf(p)
		steps := fl.ApplicableSteps(p.Facts)
		return p, &IncompleteSubmissionError{Step: pos.Step.ID, Final: steps[len(steps)-1].ID}
	}
	facts, err := merge(p, pos.Step, answers)
	if err != nil {
		return p, err
	}

	// answers on the final step can make a later step applicable
	fl, _ := flowOf(p)
	steps := fl.ApplicableSteps(facts)
	last := steps[len(steps)-1].ID
	if last != pos.Step.ID {
		return p, &IncompleteSubmissionError{Step: pos.Step.ID, Final: last}
	}
	for _, s := range steps {
		missing := s.missing(facts)
		if len(missing) == 0 {
			continue
		}
		if s.ID == pos.Step.ID {
			return p, &ValidationError{Step: s.ID, Fields: missing}
		}
		return p, &IncompleteSubmissionError{Step: pos.Step.ID, Final: last, Pending: s.ID, Fields: missing}
	}

	now := w.now()
	sub, err := w.Submission(p, facts, now)
	if err != nil {
		return p, err
	}
	done := p
	done.Facts = facts
	done.UpdatedAt = now
	done.Completed = true
	done.Submission = sub
	return done, nil
}

// Submission classifies the effective facts of a run. Answers on steps that
// do not apply are dropped and unknown fields of applicable steps are listed,
// so the result is never marked verified while anything is missing.
func (w *Wizard) Submission(p models.Progress, facts intake.Facts, completedAt time.Time) (*models.Submission, error) {
	fl, err := flowOf(p)
	if err != nil {
		return nil, err
	}
	effective := fl.Effective(facts)
	return &models.Submission{
		ScreeningID:    p.ID,
		Variant:        p.Variant,
		Facts:          effective,
		Classification: w.classifier.Classify(effective),
		Unanswered:     fl.Unanswered(facts),
		StartedAt:      p.StartedAt,
		CompletedAt:    completedAt,
	}, nil
}

// Classify evaluates the effective facts of an arbitrary fact set, as the
// wizard would on submission.
func (w *Wizard) Classify(f intake.Facts) (rules.Classification, error) {
	fl, ok := FlowFor(f.Variant())
	if !ok {
		return rules.Classification{}, dErrors.New(dErrors.CodeInvalidInput, "unsupported screening variant")
	}
	return w.classifier.Classify(fl.Effective(f)), nil
}
