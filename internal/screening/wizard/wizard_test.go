package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
)

type answers = map[intake.FieldKey]intake.Answer

type countingClassifier struct {
	inner *rules.Classifier
	calls int
	last  intake.Facts
}

func (c *countingClassifier) Classify(f intake.Facts) rules.Classification {
	c.calls++
	c.last = f
	return c.inner.Classify(f)
}

type WizardSuite struct {
	suite.Suite
	classifier *countingClassifier
	wizard     *Wizard
	now        time.Time
}

func TestWizardSuite(t *testing.T) {
	suite.Run(t, new(WizardSuite))
}

func (s *WizardSuite) SetupTest() {
	s.now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	s.classifier = &countingClassifier{inner: rules.MustNew()}
	s.wizard = New(s.classifier, WithClock(func() time.Time { return s.now }))
}

func (s *WizardSuite) start(v intake.Variant) models.Progress {
	p, err := s.wizard.Start(id.NewScreeningID(), v)
	s.Require().NoError(err)
	return *p
}

func (s *WizardSuite) next(p models.Progress, a answers) models.Progress {
	out, err := s.wizard.Next(p, a)
	s.Require().NoError(err)
	return out
}

// walkWaiver answers every waiver step with a short, clean history.
func (s *WizardSuite) walkWaiverToHardship() models.Progress {
	p := s.start(intake.VariantWaiver)
	p = s.next(p, answers{"location.inside_us": intake.Bool(true), "location.entry_type": intake.Pick(intake.EntryInspected)})
	p = s.next(p, answers{
		"family.citizen_spouse": intake.Bool(true),
		"family.lpr_spouse":     intake.Bool(false),
		"family.citizen_parent": intake.Bool(false),
		"family.lpr_parent":     intake.Bool(false),
	})
	p = s.next(p, answers{
		"history.overstayed":        intake.Bool(true),
		"history.unlawful_presence": intake.Pick(intake.PresenceUnder180Days),
		"history.prior_removal":     intake.Bool(false),
	})
	s.Equal(StepFraud, p.Step, "departure and removal details are skipped")
	p = s.next(p, answers{
		"fraud.false_statements":        intake.Bool(false),
		"fraud.false_citizenship_claim": intake.Bool(false),
		"fraud.document_fraud":          intake.Bool(false),
	})
	p = s.next(p, answers{"criminal.convictions": intake.Bool(false)})
	s.Equal(StepHardship, p.Step)
	return p
}

func (s *WizardSuite) TestStart() {
	p := s.start(intake.VariantPetition)
	s.Equal(StepPetitioner, p.Step)
	s.Equal(s.now, p.StartedAt)
	s.False(p.Completed)
	s.Equal(0, p.Facts.Len())

	_, err := s.wizard.Start(id.NewScreeningID(), "asylum")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *WizardSuite) TestNext() {
	s.Run("missing required fields fail without advancing", func() {
		p := s.start(intake.VariantWaiver)
		out, err := s.wizard.Next(p, answers{"location.inside_us": intake.Bool(true)})
		var verr *ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Equal(StepLocation, verr.Step)
		s.Equal([]intake.FieldKey{"location.entry_type"}, verr.Fields)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(StepLocation, out.Step)
		s.Equal(0, out.Facts.Len(), "input progress is untouched")
	})

	s.Run("answers for another step are rejected", func() {
		p := s.start(intake.VariantWaiver)
		_, err := s.wizard.Next(p, answers{"fraud.document_fraud": intake.Bool(true)})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("conditional steps follow the answers", func() {
		p := s.start(intake.VariantWaiver)
		p = s.next(p, answers{"location.inside_us": intake.Bool(false), "location.entry_type": intake.Pick(intake.EntryInspected)})
		p = s.next(p, answers{
			"family.citizen_spouse": intake.Bool(false),
			"family.lpr_spouse":     intake.Bool(false),
			"family.citizen_parent": intake.Bool(true),
			"family.lpr_parent":     intake.Bool(false),
		})
		p = s.next(p, answers{
			"history.overstayed":        intake.Bool(true),
			"history.unlawful_presence": intake.Pick(intake.PresenceOneYearOrMore),
			"history.prior_removal":     intake.Bool(true),
		})
		s.Equal(StepDeparture, p.Step)
		p = s.next(p, answers{"departure.departed": intake.Bool(true), "departure.years_since": intake.Number(2)})
		s.Equal(StepRemovalDetails, p.Step)
		p = s.next(p, answers{"removal.reentered_without_admission": intake.Bool(false)})
		s.Equal(StepFraud, p.Step)
	})
}

func (s *WizardSuite) TestBackKeepsAnswers() {
	p := s.walkWaiverToHardship()
	back, err := s.wizard.Back(p, answers{"hardship.factors": intake.Tags(intake.HardshipMedical)})
	s.Require().NoError(err)
	s.Equal(StepCriminal, back.Step)
	s.True(back.Facts.Answered("hardship.factors"), "unvalidated answers are kept on back")

	forward := s.next(back, nil)
	s.Equal(StepHardship, forward.Step)
	s.True(forward.Facts.Answered("criminal.convictions"))
	s.True(forward.Facts.Answered("hardship.factors"))

	first := s.start(intake.VariantWork)
	stay, err := s.wizard.Back(first, nil)
	s.Require().NoError(err)
	s.Equal(StepEmployment, stay.Step)
}

func (s *WizardSuite) TestChangedAnswerSkipsStepButKeepsFacts() {
	p := s.walkWaiverToHardship()
	// back to criminal, answer yes, details step appears
	back, err := s.wizard.Back(p, nil)
	s.Require().NoError(err)
	p = s.next(back, answers{"criminal.convictions": intake.Bool(true)})
	s.Equal(StepCriminalDetails, p.Step)
	p = s.next(p, answers{"criminal.offenses": intake.Tags(intake.OffenseDUI)})
	s.Equal(StepHardship, p.Step)

	// flip to no: details are skipped but stored
	for p.Step != StepCriminal {
		p, err = s.wizard.Back(p, nil)
		s.Require().NoError(err)
	}
	p = s.next(p, answers{"criminal.convictions": intake.Bool(false)})
	s.Equal(StepHardship, p.Step)
	s.True(p.Facts.Answered("criminal.offenses"))

	p = s.next(p, answers{"hardship.factors": intake.Tags()})
	s.Require().True(s.wizard.IsFinalStep(p))
	done, err := s.wizard.Submit(p, nil)
	s.Require().NoError(err)
	s.False(done.Submission.Facts.Answered("criminal.offenses"), "skipped step is masked")
	s.False(s.classifier.last.Answered("criminal.offenses"))
}

func (s *WizardSuite) TestSubmit() {
	s.Run("before the final step", func() {
		p := s.start(intake.VariantWaiver)
		s.False(s.wizard.IsFinalStep(p))
		_, err := s.wizard.Submit(p, nil)
		var incomplete *IncompleteSubmissionError
		s.Require().ErrorAs(err, &incomplete)
		s.Equal(StepLocation, incomplete.Step)
		s.Equal(StepFinancial, incomplete.Final)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.Zero(s.classifier.calls)
	})

	s.Run("earlier step still unanswered", func() {
		p := s.start(intake.VariantWaiver)
		p.Step = StepFinancial
		s.Require().True(s.wizard.IsFinalStep(p))
		calls := s.classifier.calls

		_, err := s.wizard.Submit(p, answers{"financial.household_size": intake.Number(2)})
		var incomplete *IncompleteSubmissionError
		s.Require().ErrorAs(err, &incomplete)
		var verr *ValidationError
		s.False(errors.As(err, &verr), "only the final step's own fields are a validation error")
		s.Equal(StepLocation, incomplete.Pending)
		s.Equal([]intake.FieldKey{"location.inside_us", "location.entry_type"}, incomplete.Fields)
		s.Equal([]string{"location.inside_us", "location.entry_type"}, incomplete.InvalidFields())
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.Equal(calls, s.classifier.calls)
	})

	s.Run("classifies once and completes", func() {
		p := s.walkWaiverToHardship()
		p = s.next(p, answers{"hardship.factors": intake.Tags(intake.HardshipMedical, intake.HardshipFinancial)})
		s.Equal(StepFinancial, p.Step)
		s.True(s.wizard.IsFinalStep(p))

		calls := s.classifier.calls
		done, err := s.wizard.Submit(p, answers{"financial.household_size": intake.Number(2)})
		s.Require().NoError(err)
		s.Equal(calls+1, s.classifier.calls)
		s.True(done.Completed)
		s.Require().NotNil(done.Submission)
		sub := done.Submission
		s.Equal(p.ID, sub.ScreeningID)
		s.Equal(rules.ProbabilityHigh, sub.Classification.Probability)
		s.ElementsMatch([]intake.FieldKey{
			"location.country", "family.citizen_child", "hardship.narrative",
			"financial.household_income", "financial.joint_sponsor",
		}, sub.Unanswered)
		s.False(sub.Verified())

		_, err = s.wizard.Next(done, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		_, err = s.wizard.Submit(done, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func TestSubmitValidatesFinalStep(t *testing.T) {
	w := New(rules.MustNew())
	p, err := w.Start(id.NewScreeningID(), intake.VariantWork)
	require.NoError(t, err)

	steps := []answers{
		{"employment.job_offer": intake.Bool(true), "employment.employer_type": intake.Pick(intake.EmployerUSCompany)},
		{"education.degree": intake.Pick(intake.DegreeBachelors), "education.years_experience": intake.Number(3)},
		{"nationality.citizenship": intake.Pick(intake.CitizenOther)},
		{"achievements.claimed": intake.Bool(false)},
		{
			"status.current":            intake.Pick(intake.StatusNone),
			"history.overstayed":        intake.Bool(false),
			"history.unlawful_presence": intake.Pick(intake.PresenceNone),
			"history.prior_removal":     intake.Bool(false),
		},
		{
			"fraud.false_statements":        intake.Bool(false),
			"fraud.false_citizenship_claim": intake.Bool(false),
			"fraud.document_fraud":          intake.Bool(false),
		},
	}
	cur := *p
	for _, a := range steps {
		cur, err = w.Next(cur, a)
		require.NoError(t, err)
	}
	require.Equal(t, StepCriminal, cur.Step)
	require.True(t, w.IsFinalStep(cur))

	_, err = w.Submit(cur, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []intake.FieldKey{"criminal.convictions"}, verr.Fields)

	_, err = w.Submit(cur, answers{"criminal.convictions": intake.Bool(true)})
	var incomplete *IncompleteSubmissionError
	require.True(t, errors.As(err, &incomplete), "a yes opens the details step")
	assert.Equal(t, StepCriminalDetails, incomplete.Final)

	done, err := w.Submit(cur, answers{"criminal.convictions": intake.Bool(false)})
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, intake.VariantWork, done.Submission.Classification.Variant)
}

func TestCurrentRecoversFromInapplicableStep(t *testing.T) {
	w := New(rules.MustNew())
	p, err := w.Start(id.NewScreeningID(), intake.VariantWaiver)
	require.NoError(t, err)
	p.Step = StepDeparture

	pos, err := w.Current(*p)
	require.NoError(t, err)
	assert.Equal(t, StepHistory, pos.Step.ID)
	assert.Equal(t, 2, pos.Index)
}

func TestClassifyMasksInapplicableFields(t *testing.T) {
	w := New(rules.MustNew())
	f, err := intake.New(intake.VariantWaiver).Merge(answers{
		"criminal.convictions": intake.Bool(false),
		"criminal.offenses":    intake.Tags(intake.OffenseAggravatedFelony),
	})
	require.NoError(t, err)

	got, err := w.Classify(f)
	require.NoError(t, err)
	assert.False(t, got.HasFlag(rules.FlagAggravatedFelony))
}
