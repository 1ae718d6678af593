package rules

import "lexscreen/internal/screening/intake"

func petitionGrounds(p intake.PetitionFacts) grounds {
	return grounds{
		Location:  p.Location,
		History:   p.History,
		Departure: p.Departure,
		Removal:   p.Removal,
		Fraud:     p.Fraud,
		Criminal:  p.Criminal,
	}
}

// preference reports a relationship that qualifies only for a backlogged
// preference category.
func preference(p intake.PetitionFacts) bool {
	rel := p.Relationship.Relationship
	switch p.Petitioner.Status {
	case intake.PetitionerCitizen:
		return rel == intake.RelationSonDaughter ||
			(rel == intake.RelationSibling && p.Petitioner.Age.AtLeast(21))
	case intake.PetitionerLPR:
		return rel == intake.RelationSpouse || rel == intake.RelationChildUnder21 ||
			(rel == intake.RelationSonDaughter && p.Relationship.BeneficiaryMarried.IsFalse())
	}
	return false
}

// ineligible reports a relationship no petition category covers.
func ineligible(p intake.PetitionFacts) bool {
	rel := p.Relationship.Relationship
	switch p.Petitioner.Status {
	case intake.PetitionerCitizen:
		return (rel == intake.RelationParent || rel == intake.RelationSibling) && p.Petitioner.Age.Below(21)
	case intake.PetitionerLPR:
		return rel == intake.RelationParent || rel == intake.RelationSibling ||
			(rel == intake.RelationSonDaughter && p.Relationship.BeneficiaryMarried.IsTrue())
	}
	return false
}

func petitionable(p intake.PetitionFacts) bool {
	return p.ImmediateRelative() || preference(p)
}

func admittedEntry(l intake.LocationFacts) bool {
	return l.EntryType == intake.EntryInspected || l.EntryType == intake.EntryParole
}

func enteredWithoutInspection(p intake.PetitionFacts) bool {
	return p.ImmediateRelative() && p.Location.InsideUS.IsTrue() &&
		p.Location.EntryType == intake.EntryWithoutInspection && p.Protected245.IsFalse()
}

// PetitionTable builds the default family-petition rule table.
func PetitionTable() *Table[intake.PetitionFacts] {
	type P = intake.PetitionFacts
	rules := []Rule[P]{
		{
			ID:     "petition.adam_walsh",
			Group:  "criminal",
			When:   func(p P) bool { return p.Petitioner.AdamWalshOffense.IsTrue() },
			Effect: Effect{Flag: FlagAdamWalsh, Risk: 5, Guidance: GuidanceAttorneyConsultation},
		},
		{
			ID:     "petition.marriage_fraud_bar",
			Group:  "fraud",
			When:   func(p P) bool { return p.Marriage.PriorFraudFinding.IsTrue() },
			Effect: Effect{Flag: FlagMarriageFraudBar, Risk: 6, Guidance: GuidanceAttorneyConsultation},
		},
	}
	rules = append(rules, admissibilityRules(petitionGrounds)...)
	rules = append(rules,
		Rule[P]{
			ID:     "petition.ineligible_relationship",
			Group:  "eligibility",
			When:   ineligible,
			Effect: Effect{Flag: FlagIneligibleRelationship, Risk: 4, Guidance: GuidanceAttorneyConsultation},
		},
		Rule[P]{
			ID:     "petition.immediate_relative",
			Group:  "category",
			When:   P.ImmediateRelative,
			Effect: Effect{Remedy: RemedyFamilyPetition, Guidance: GuidanceImmediateRelative},
		},
		Rule[P]{
			ID:     "petition.preference",
			Group:  "category",
			When:   preference,
			Effect: Effect{Remedy: RemedyFamilyPetition, Risk: 1, Guidance: GuidancePreferenceWait},
		},
		Rule[P]{
			ID:    "petition.adjust",
			Group: "process",
			When: func(p P) bool {
				return p.ImmediateRelative() && p.Location.InsideUS.IsTrue() && admittedEntry(p.Location)
			},
			Effect: Effect{Remedy: RemedyAdjustment, Guidance: GuidanceConcurrentFiling},
		},
		Rule[P]{
			ID:    "petition.adjust_245i",
			Group: "process",
			When: func(p P) bool {
				return petitionable(p) && p.Location.InsideUS.IsTrue() && p.Protected245.IsTrue()
			},
			Effect: Effect{Remedy: RemedyAdjustment245i},
		},
		Rule[P]{
			ID:     "petition.consular_abroad",
			Group:  "process",
			When:   func(p P) bool { return petitionable(p) && p.Location.InsideUS.IsFalse() },
			Effect: Effect{Remedy: RemedyConsular},
		},
		Rule[P]{
			ID:     "petition.consular_after_ewi",
			Group:  "process",
			When:   enteredWithoutInspection,
			Effect: Effect{Remedy: RemedyConsular, Guidance: GuidanceConsularRequired},
		},
		Rule[P]{
			ID:    "petition.provisional_after_ewi",
			Group: "process",
			When: func(p P) bool {
				return enteredWithoutInspection(p) && p.History.AccruedBarPresence()
			},
			Effect: Effect{Remedy: RemedyProvisionalWaiver, Guidance: GuidanceDoNotDepart},
		},
		Rule[P]{
			ID:    "petition.conditional_residence",
			Group: "marriage",
			When: func(p P) bool {
				return p.Relationship.Relationship == intake.RelationSpouse && p.Marriage.UnderTwoYears.IsTrue()
			},
			Effect: Effect{Remedy: RemedyRemoveConditions, Guidance: GuidanceConditionalResidence},
		},
		Rule[P]{
			ID:     "petition.bona_fides",
			Group:  "marriage",
			When:   func(p P) bool { return p.Marriage.LivingTogether.IsFalse() },
			Effect: Effect{Flag: FlagBonaFides, Risk: 2, Guidance: GuidanceBonaFideEvidence},
		},
		Rule[P]{
			ID:     "petition.marriage_in_proceedings",
			Group:  "marriage",
			When:   func(p P) bool { return p.Marriage.DuringRemovalHearings.IsTrue() },
			Effect: Effect{Flag: FlagMarriageInProceedings, Risk: 2, Guidance: GuidanceClearConvincing},
		},
		Rule[P]{
			ID:    "petition.overstay_forgiven",
			Group: "status",
			When: func(p P) bool {
				return p.ImmediateRelative() && p.History.Overstayed.IsTrue() && admittedEntry(p.Location)
			},
			Effect: Effect{Guidance: GuidanceOverstayForgiven},
		},
		Rule[P]{
			ID:    "petition.preference_out_of_status",
			Group: "status",
			When: func(p P) bool {
				return preference(p) && p.Location.InsideUS.IsTrue() &&
					p.History.Overstayed.IsTrue() && p.Protected245.IsFalse()
			},
			Effect: Effect{Flag: FlagOutOfStatus, Risk: 2, Guidance: GuidanceAttorneyConsultation},
		},
	)
	rules = append(rules, affidavitRules(func(p P) intake.FinancialEligibility { return p.Financial })...)

	return &Table[P]{
		Variant:    intake.VariantPetition,
		Version:    "2026.10-1",
		Rules:      rules,
		Thresholds: Thresholds{Moderate: 2, High: 5},
	}
}
