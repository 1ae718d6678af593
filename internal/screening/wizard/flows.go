package wizard

import (
	"fmt"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
)

// Step ids. Shared steps use the same id across variants.
const (
	StepLocation           models.StepID = "location"
	StepFamily             models.StepID = "family"
	StepHistory            models.StepID = "history"
	StepDeparture          models.StepID = "departure"
	StepRemovalDetails     models.StepID = "removal_details"
	StepFraud              models.StepID = "fraud"
	StepCriminal           models.StepID = "criminal"
	StepCriminalDetails    models.StepID = "criminal_details"
	StepHardship           models.StepID = "hardship"
	StepFinancial          models.StepID = "financial"
	StepPetitioner         models.StepID = "petitioner"
	StepRelationship       models.StepID = "relationship"
	StepMarriage           models.StepID = "marriage"
	StepEmployment         models.StepID = "employment"
	StepMultinational      models.StepID = "multinational"
	StepEducation          models.StepID = "education"
	StepNationality        models.StepID = "nationality"
	StepAchievements       models.StepID = "achievements"
	StepAchievementDetails models.StepID = "achievement_details"
	StepStatus             models.StepID = "status"
)

func keys(k ...intake.FieldKey) []intake.FieldKey { return k }

// Skip conditions. Each reads only fields collected on earlier steps.

func accruedBarPresence(f intake.Facts) bool {
	p := f.Choice("history.unlawful_presence")
	return p == intake.Presence180DaysTo1Yr || p == intake.PresenceOneYearOrMore
}

func priorRemoval(f intake.Facts) bool { return f.Tri("history.prior_removal").IsTrue() }

func convicted(f intake.Facts) bool { return f.Tri("criminal.convictions").IsTrue() }

func spousal(f intake.Facts) bool {
	return f.Choice("beneficiary.relationship") == intake.RelationSpouse
}

func multinationalEmployer(f intake.Facts) bool {
	return f.Choice("employment.employer_type") == intake.EmployerMultinational
}

func claimsAchievements(f intake.Facts) bool { return f.Tri("achievements.claimed").IsTrue() }

func departureStep() Step {
	return Step{
		ID:       StepDeparture,
		Fields:   keys("departure.departed", "departure.years_since", "departure.reentered_without_admission"),
		Required: keys("departure.departed"),
		When:     accruedBarPresence,
	}
}

func removalStep() Step {
	return Step{
		ID:       StepRemovalDetails,
		Fields:   keys("removal.reentered_without_admission", "removal.years_since"),
		Required: keys("removal.reentered_without_admission"),
		When:     priorRemoval,
	}
}

func fraudStep() Step {
	fields := keys("fraud.false_statements", "fraud.false_citizenship_claim", "fraud.document_fraud")
	return Step{ID: StepFraud, Fields: fields, Required: fields}
}

func criminalSteps() []Step {
	return []Step{
		{ID: StepCriminal, Fields: keys("criminal.convictions"), Required: keys("criminal.convictions")},
		{
			ID: StepCriminalDetails,
			Fields: keys("criminal.offenses", "criminal.marijuana_under_30g",
				"criminal.sentence_months", "criminal.years_since_offense"),
			Required: keys("criminal.offenses"),
			When:     convicted,
		},
	}
}

func locationStep() Step {
	return Step{
		ID:       StepLocation,
		Fields:   keys("location.inside_us", "location.entry_type", "location.country"),
		Required: keys("location.inside_us", "location.entry_type"),
	}
}

func historyStep(extra ...intake.FieldKey) Step {
	required := keys("history.overstayed", "history.unlawful_presence", "history.prior_removal")
	return Step{ID: StepHistory, Fields: append(required, extra...), Required: required}
}

func waiverFlow() *Flow {
	steps := []Step{
		locationStep(),
		{
			ID: StepFamily,
			Fields: keys("family.citizen_spouse", "family.lpr_spouse", "family.citizen_parent",
				"family.lpr_parent", "family.citizen_child"),
			Required: keys("family.citizen_spouse", "family.lpr_spouse", "family.citizen_parent", "family.lpr_parent"),
		},
		historyStep(),
		departureStep(),
		removalStep(),
		fraudStep(),
	}
	steps = append(steps, criminalSteps()...)
	steps = append(steps,
		Step{
			ID:       StepHardship,
			Fields:   keys("hardship.factors", "hardship.narrative"),
			Required: keys("hardship.factors"),
		},
		Step{
			ID:     StepFinancial,
			Fields: keys("financial.household_income", "financial.household_size", "financial.joint_sponsor"),
		},
	)
	return &Flow{Variant: intake.VariantWaiver, Steps: steps}
}

func petitionFlow() *Flow {
	steps := []Step{
		{
			ID:       StepPetitioner,
			Fields:   keys("petitioner.status", "petitioner.age", "petitioner.adam_walsh_offense"),
			Required: keys("petitioner.status", "petitioner.age", "petitioner.adam_walsh_offense"),
		},
		{
			ID:       StepRelationship,
			Fields:   keys("beneficiary.relationship", "beneficiary.married"),
			Required: keys("beneficiary.relationship"),
		},
		{
			ID: StepMarriage,
			Fields: keys("marriage.under_two_years", "marriage.living_together",
				"marriage.prior_fraud_finding", "marriage.during_removal_proceedings"),
			Required: keys("marriage.under_two_years", "marriage.living_together", "marriage.prior_fraud_finding"),
			When:     spousal,
		},
		locationStep(),
		historyStep("history.section_245i"),
		departureStep(),
		removalStep(),
		fraudStep(),
	}
	steps = append(steps, criminalSteps()...)
	steps = append(steps, Step{
		ID:       StepFinancial,
		Fields:   keys("financial.household_income", "financial.household_size", "financial.joint_sponsor"),
		Required: keys("financial.household_income", "financial.household_size"),
	})
	return &Flow{Variant: intake.VariantPetition, Steps: steps}
}

func workFlow() *Flow {
	steps := []Step{
		{
			ID: StepEmployment,
			Fields: keys("employment.job_offer", "employment.employer_type", "employment.requires_degree",
				"employment.offered_wage", "employment.prevailing_wage"),
			Required: keys("employment.job_offer", "employment.employer_type"),
		},
		{
			ID: StepMultinational,
			Fields: keys("multinational.years_with_affiliate", "multinational.managerial",
				"multinational.specialized_knowledge"),
			Required: keys("multinational.years_with_affiliate", "multinational.managerial"),
			When:     multinationalEmployer,
		},
		{
			ID:       StepEducation,
			Fields:   keys("education.degree", "education.field_related", "education.years_experience"),
			Required: keys("education.degree", "education.years_experience"),
		},
		{ID: StepNationality, Fields: keys("nationality.citizenship"), Required: keys("nationality.citizenship")},
		{ID: StepAchievements, Fields: keys("achievements.claimed"), Required: keys("achievements.claimed")},
		{
			ID:       StepAchievementDetails,
			Fields:   keys("achievements.criteria", "achievements.major_award"),
			Required: keys("achievements.criteria"),
			When:     claimsAchievements,
		},
		{
			ID:       StepStatus,
			Fields:   keys("status.current", "history.overstayed", "history.unlawful_presence", "history.prior_removal"),
			Required: keys("status.current", "history.overstayed", "history.unlawful_presence", "history.prior_removal"),
		},
		departureStep(),
		removalStep(),
		fraudStep(),
	}
	steps = append(steps, criminalSteps()...)
	return &Flow{Variant: intake.VariantWork, Steps: steps}
}

var flows = buildFlows()

// buildFlows checks every flow against its schema: each field is collected on
// exactly one step and conditional steps never come first.
func buildFlows() map[intake.Variant]*Flow {
	out := map[intake.Variant]*Flow{}
	for _, fl := range []*Flow{waiverFlow(), petitionFlow(), workFlow()} {
		schema, ok := intake.SchemaFor(fl.Variant)
		if !ok {
			panic(fmt.Sprintf("wizard: no schema for %s", fl.Variant))
		}
		if len(fl.Steps) == 0 || fl.Steps[0].When != nil {
			panic(fmt.Sprintf("wizard: %s flow must start with an unconditional step", fl.Variant))
		}
		seen := map[intake.FieldKey]models.StepID{}
		ids := map[models.StepID]bool{}
		for _, s := range fl.Steps {
			if ids[s.ID] {
				panic(fmt.Sprintf("wizard: %s flow repeats step %s", fl.Variant, s.ID))
			}
			ids[s.ID] = true
			for _, key := range s.Fields {
				if _, ok := schema.Field(key); !ok {
					panic(fmt.Sprintf("wizard: %s step %s collects unknown field %s", fl.Variant, s.ID, key))
				}
				if prev, dup := seen[key]; dup {
					panic(fmt.Sprintf("wizard: %s field %s collected on %s and %s", fl.Variant, key, prev, s.ID))
				}
				seen[key] = s.ID
			}
			for _, key := range s.Required {
				if !s.collects(key) {
					panic(fmt.Sprintf("wizard: %s step %s requires uncollected field %s", fl.Variant, s.ID, key))
				}
			}
		}
		for _, key := range schema.Keys() {
			if _, ok := seen[key]; !ok {
				panic(fmt.Sprintf("wizard: %s field %s is never collected", fl.Variant, key))
			}
		}
		out[fl.Variant] = fl
	}
	return out
}
