package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/internal/screening/intake"
)

type answers = map[intake.FieldKey]intake.Answer

func factsOf(t *testing.T, v intake.Variant, a answers) intake.Facts {
	t.Helper()
	f, err := intake.New(v).Merge(a)
	require.NoError(t, err)
	return f
}

func TestClassifyEmptyFactsIsNeutral(t *testing.T) {
	c := MustNew()
	for _, v := range intake.Variants() {
		got := c.Classify(intake.New(v))
		assert.Empty(t, got.FiredRules, v)
		assert.Empty(t, got.Flags, v)
		assert.Empty(t, got.Remedies, v)
		assert.Equal(t, RiskLow, got.Risk, v)
		assert.Equal(t, ProbabilityHigh, got.Probability, v)
		assert.Equal(t, v, got.Variant)
		assert.NotEmpty(t, got.RuleVersion)
	}
}

func TestClassifyWaiverScenarios(t *testing.T) {
	c := MustNew()

	t.Run("overstay with departure after a year", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWaiver, answers{
			"history.overstayed":        intake.Bool(true),
			"history.unlawful_presence": intake.Pick(intake.PresenceOneYearOrMore),
			"departure.departed":        intake.Bool(true),
			"history.prior_removal":     intake.Bool(false),
			"fraud.false_statements":    intake.Bool(false),
			"criminal.convictions":      intake.Bool(false),
		}))
		assert.Contains(t, []RiskLevel{RiskLow, RiskModerate}, got.Risk)
		assert.Contains(t, []Probability{ProbabilityHigh, ProbabilityModerate}, got.Probability)
		assert.True(t, got.HasFlag(FlagTenYearBar))
		for _, f := range got.Flags {
			info, ok := Flag(f)
			require.True(t, ok)
			assert.NotEqual(t, CategoryCriminal, info.Category)
			assert.NotEqual(t, CategoryFraud, info.Category)
		}
	})

	t.Run("criminal and fraud with everything else unknown", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWaiver, answers{
			"criminal.convictions":   intake.Bool(true),
			"fraud.false_statements": intake.Bool(true),
		}))
		assert.Equal(t, ProbabilityAttorneyReview, got.Probability)
		assert.True(t, got.HasFlag(FlagCriminalConviction))
		assert.True(t, got.HasFlag(FlagMisrepresentation))
		assert.True(t, got.HasRemedy(RemedyFraudWaiver))
	})

	t.Run("provisional waiver for an applicant still inside", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWaiver, answers{
			"location.inside_us":        intake.Bool(true),
			"history.unlawful_presence": intake.Pick(intake.PresenceOneYearOrMore),
			"departure.departed":        intake.Bool(false),
			"family.citizen_spouse":     intake.Bool(true),
		}))
		assert.Equal(t, []RemedyCode{RemedyProvisionalWaiver}, got.Remedies)
		assert.Equal(t, []FlagCode{FlagPresenceAccrued}, got.Flags)
		assert.Equal(t, []GuidanceCode{GuidanceDoNotDepart, GuidanceHardshipEvidence}, got.Guidance)
		assert.Equal(t, RiskLow, got.Risk)
	})

	t.Run("multi-ground inadmissibility", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWaiver, answers{
			"history.unlawful_presence":             intake.Pick(intake.PresenceOneYearOrMore),
			"departure.departed":                    intake.Bool(true),
			"departure.reentered_without_admission": intake.Bool(true),
			"history.prior_removal":                 intake.Bool(true),
			"family.citizen_spouse":                 intake.Bool(false),
			"family.lpr_spouse":                     intake.Bool(false),
			"family.citizen_parent":                 intake.Bool(false),
			"family.lpr_parent":                     intake.Bool(false),
		}))
		assert.Equal(t, []FlagCode{FlagPermanentBar, FlagPriorRemoval, FlagTenYearBar, FlagNoQualifyingRelative}, got.Flags)
		assert.Equal(t, RiskHigh, got.Risk)
		assert.Equal(t, ProbabilityAttorneyReview, got.Probability)
		assert.Equal(t, 5+2+2+3, got.RiskScore)
	})

	t.Run("unknown family does not count as no relative", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWaiver, answers{
			"history.unlawful_presence": intake.Pick(intake.Presence180DaysTo1Yr),
			"departure.departed":        intake.Bool(true),
			"family.citizen_spouse":     intake.Bool(false),
		}))
		assert.False(t, got.HasFlag(FlagNoQualifyingRelative))
		assert.Equal(t, []FlagCode{FlagThreeYearBar}, got.Flags)
	})

	t.Run("joint sponsor turns a shortfall into a remedy", func(t *testing.T) {
		base := answers{
			"financial.household_income": intake.Number(20000),
			"financial.household_size":   intake.Number(3),
		}
		base["financial.joint_sponsor"] = intake.Bool(false)
		short := c.Classify(factsOf(t, intake.VariantWaiver, base))
		assert.True(t, short.HasFlag(FlagAffidavitShortfall))

		base["financial.joint_sponsor"] = intake.Bool(true)
		joint := c.Classify(factsOf(t, intake.VariantWaiver, base))
		assert.False(t, joint.HasFlag(FlagAffidavitShortfall))
		assert.True(t, joint.HasRemedy(RemedyJointSponsor))
	})
}

func TestCriminalRules(t *testing.T) {
	c := MustNew()
	got := c.Classify(factsOf(t, intake.VariantWork, answers{
		"criminal.convictions":         intake.Bool(true),
		"criminal.offenses":            intake.Tags(intake.OffenseControlledSubstance, intake.OffenseMoralTurpitude),
		"criminal.marijuana_under_30g": intake.Bool(true),
		"criminal.sentence_months":     intake.Number(6),
	}))
	assert.Equal(t, []FlagCode{FlagControlledSubstance, FlagMoralTurpitude, FlagCriminalConviction}, got.Flags)
	assert.Equal(t, []RemedyCode{RemedyCriminalWaiver}, got.Remedies)
	assert.Equal(t, []string{
		"criminal.controlled_substance", "criminal.petty_marijuana",
		"criminal.moral_turpitude", "criminal.conviction",
	}, got.FiredRules)
	assert.Equal(t, ProbabilityAttorneyReview, got.Probability)
}

func TestPovertyFloor(t *testing.T) {
	assert.InDelta(t, 19562.5, PovertyFloor(1), 0.001)
	assert.InDelta(t, 33312.5, PovertyFloor(3), 0.001)
	assert.InDelta(t, 19562.5, PovertyFloor(0), 0.001)

	capped := PovertyFloor(intake.MaxHouseholdSize)
	assert.Equal(t, capped, PovertyFloor(math.MaxInt))
	assert.Positive(t, PovertyFloor(math.MaxInt))
}

func TestClassifyPetition(t *testing.T) {
	c := MustNew()

	t.Run("citizen spouse inside after inspection adjusts", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantPetition, answers{
			"petitioner.status":        intake.Pick(intake.PetitionerCitizen),
			"petitioner.age":           intake.Number(34),
			"beneficiary.relationship": intake.Pick(intake.RelationSpouse),
			"location.inside_us":       intake.Bool(true),
			"location.entry_type":      intake.Pick(intake.EntryInspected),
			"history.overstayed":       intake.Bool(true),
			"marriage.under_two_years": intake.Bool(true),
			"marriage.living_together": intake.Bool(true),
		}))
		assert.Equal(t, []RemedyCode{RemedyFamilyPetition, RemedyAdjustment, RemedyRemoveConditions}, got.Remedies)
		assert.Contains(t, got.Guidance, GuidanceOverstayForgiven)
		assert.Empty(t, got.Flags)
		assert.Equal(t, ProbabilityHigh, got.Probability)
	})

	t.Run("lpr cannot petition a sibling", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantPetition, answers{
			"petitioner.status":        intake.Pick(intake.PetitionerLPR),
			"beneficiary.relationship": intake.Pick(intake.RelationSibling),
		}))
		assert.Equal(t, []FlagCode{FlagIneligibleRelationship}, got.Flags)
		assert.Empty(t, got.Remedies)
		assert.Equal(t, RiskModerate, got.Risk)
	})

	t.Run("young citizen parent petition waits for age", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantPetition, answers{
			"petitioner.status":        intake.Pick(intake.PetitionerCitizen),
			"petitioner.age":           intake.Number(19),
			"beneficiary.relationship": intake.Pick(intake.RelationParent),
		}))
		assert.True(t, got.HasFlag(FlagIneligibleRelationship))
		assert.False(t, got.HasRemedy(RemedyFamilyPetition))
	})

	t.Run("marriage fraud finding forces review", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantPetition, answers{
			"marriage.prior_fraud_finding": intake.Bool(true),
		}))
		assert.Equal(t, ProbabilityAttorneyReview, got.Probability)
		assert.Equal(t, RiskHigh, got.Risk)
	})

	t.Run("entry without inspection needs consular processing", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantPetition, answers{
			"petitioner.status":         intake.Pick(intake.PetitionerCitizen),
			"beneficiary.relationship":  intake.Pick(intake.RelationChildUnder21),
			"location.inside_us":        intake.Bool(true),
			"location.entry_type":       intake.Pick(intake.EntryWithoutInspection),
			"history.section_245i":      intake.Bool(false),
			"history.unlawful_presence": intake.Pick(intake.PresenceOneYearOrMore),
		}))
		assert.Equal(t, []RemedyCode{RemedyFamilyPetition, RemedyConsular, RemedyProvisionalWaiver}, got.Remedies)
		assert.False(t, got.HasRemedy(RemedyAdjustment))
	})
}

func TestClassifyWork(t *testing.T) {
	c := MustNew()

	t.Run("specialty occupation subject to the cap", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWork, answers{
			"employment.job_offer":       intake.Bool(true),
			"employment.employer_type":   intake.Pick(intake.EmployerUSCompany),
			"employment.requires_degree": intake.Bool(true),
			"education.degree":           intake.Pick(intake.DegreeMasters),
			"education.field_related":    intake.Bool(true),
			"status.current":             intake.Pick(intake.StatusStudentOPT),
		}))
		assert.Equal(t, []RemedyCode{RemedyH1B, RemedyNIW, RemedyPERM}, got.Remedies)
		assert.Equal(t, []FlagCode{FlagCapLottery}, got.Flags)
		assert.Equal(t, RiskLow, got.Risk)
	})

	t.Run("cap exempt employer skips the lottery", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWork, answers{
			"employment.job_offer":       intake.Bool(true),
			"employment.employer_type":   intake.Pick(intake.EmployerCapExempt),
			"employment.requires_degree": intake.Bool(true),
			"education.degree":           intake.Pick(intake.DegreeBachelors),
			"education.field_related":    intake.Bool(true),
		}))
		assert.True(t, got.HasRemedy(RemedyH1BCapExempt))
		assert.False(t, got.HasFlag(FlagCapLottery))
	})

	t.Run("multinational manager", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWork, answers{
			"employment.employer_type":            intake.Pick(intake.EmployerMultinational),
			"multinational.years_with_affiliate":  intake.Number(2),
			"multinational.managerial":            intake.Bool(true),
			"multinational.specialized_knowledge": intake.Bool(false),
		}))
		assert.Equal(t, []RemedyCode{RemedyL1A}, got.Remedies)
	})

	t.Run("extraordinary ability", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWork, answers{
			"achievements.claimed":  intake.Bool(true),
			"achievements.criteria": intake.Tags(intake.AchievementAwards, intake.AchievementMedia, intake.AchievementJudging),
		}))
		assert.Equal(t, []RemedyCode{RemedyO1, RemedyEB1A}, got.Remedies)
		assert.Equal(t, []GuidanceCode{GuidanceExtraordinaryEvidence}, got.Guidance)
	})

	t.Run("low wage and out of status", func(t *testing.T) {
		got := c.Classify(factsOf(t, intake.VariantWork, answers{
			"employment.offered_wage":    intake.Number(50000),
			"employment.prevailing_wage": intake.Number(70000),
			"status.current":             intake.Pick(intake.StatusOutOfStatus),
		}))
		assert.Equal(t, []FlagCode{FlagOutOfStatus, FlagWageBelowPrevailing}, got.Flags)
		assert.Equal(t, RiskHigh, got.Risk)
		assert.Equal(t, ProbabilityModerate, got.Probability)
	})
}

func TestClassifierDescribe(t *testing.T) {
	c := MustNew()
	info, err := c.Describe(intake.VariantWork)
	require.NoError(t, err)
	assert.Equal(t, intake.VariantWork, info.Variant)
	assert.NotEmpty(t, info.Rules)
	assert.Equal(t, "criminal.aggravated_felony", info.Rules[0].ID)

	_, err = c.Describe("visa-lottery")
	assert.Error(t, err)
	assert.Empty(t, c.Version("visa-lottery"))
}

func TestClassifyIsSafeForConcurrentUse(t *testing.T) {
	c := MustNew()
	f := factsOf(t, intake.VariantWaiver, answers{"criminal.convictions": intake.Bool(true)})
	want := c.Classify(f)

	done := make(chan Classification)
	for range 8 {
		go func() { done <- c.Classify(f) }()
	}
	for range 8 {
		assert.Equal(t, want, <-done)
	}
}
