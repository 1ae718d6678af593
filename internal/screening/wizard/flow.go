package wizard

import (
	"slices"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
)

// Step is one page of a flow. Fields lists everything the step collects;
// Required is the subset that must be answered before moving on.
type Step struct {
	ID       models.StepID     `json:"id"`
	Fields   []intake.FieldKey `json:"fields"`
	Required []intake.FieldKey `json:"required"`
	// When gates a conditional step on facts from earlier steps. Nil means
	// the step always applies.
	When func(intake.Facts) bool `json:"-"`
}

func (s Step) applies(f intake.Facts) bool { return s.When == nil || s.When(f) }

func (s Step) collects(key intake.FieldKey) bool { return slices.Contains(s.Fields, key) }

// missing returns required fields still unknown.
func (s Step) missing(f intake.Facts) []intake.FieldKey {
	var out []intake.FieldKey
	for _, key := range s.Required {
		if !f.Answered(key) {
			out = append(out, key)
		}
	}
	return out
}

// Flow is the ordered step list of one variant.
type Flow struct {
	Variant intake.Variant
	Steps   []Step
}

// ApplicableSteps returns the steps that apply to f, in order. The first step
// always applies.
func (fl *Flow) ApplicableSteps(f intake.Facts) []Step {
	out := make([]Step, 0, len(fl.Steps))
	for _, s := range fl.Steps {
		if s.applies(f) {
			out = append(out, s)
		}
	}
	return out
}

// Step returns the step with the given id.
func (fl *Flow) Step(stepID models.StepID) (Step, bool) {
	for _, s := range fl.Steps {
		if s.ID == stepID {
			return s, true
		}
	}
	return Step{}, false
}

// position returns the index of stepID among the applicable steps. A step
// that no longer applies resolves to the closest applicable step before it.
func (fl *Flow) position(f intake.Facts, stepID models.StepID) int {
	pos := 0
	idx := -1
	for _, s := range fl.Steps {
		ok := s.applies(f)
		if ok {
			idx++
			pos = idx
		}
		if s.ID == stepID {
			return pos
		}
	}
	return 0
}

// Effective masks answers that belong to steps not applicable under f.
func (fl *Flow) Effective(f intake.Facts) intake.Facts {
	var keys []intake.FieldKey
	for _, s := range fl.ApplicableSteps(f) {
		keys = append(keys, s.Fields...)
	}
	return f.Only(keys)
}

// Unanswered lists fields of applicable steps that are still unknown.
func (fl *Flow) Unanswered(f intake.Facts) []intake.FieldKey {
	out := []intake.FieldKey{}
	for _, s := range fl.ApplicableSteps(f) {
		for _, key := range s.Fields {
			if !f.Answered(key) {
				out = append(out, key)
			}
		}
	}
	return out
}

// FlowFor returns the flow of a variant.
func FlowFor(v intake.Variant) (*Flow, bool) {
	fl, ok := flows[v]
	return fl, ok
}

// Flows returns every flow in variant order.
func Flows() []*Flow {
	out := make([]*Flow, 0, len(flows))
	for _, v := range intake.Variants() {
		out = append(out, flows[v])
	}
	return out
}
