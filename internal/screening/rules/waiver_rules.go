package rules

import "lexscreen/internal/screening/intake"

func waiverGrounds(w intake.WaiverFacts) grounds {
	return grounds{
		Location:  w.Location,
		History:   w.History,
		Departure: w.Departure,
		Removal:   w.Removal,
		Fraud:     w.Fraud,
		Criminal:  w.Criminal,
	}
}

// needsWaiver reports a confirmed ground that a spouse or parent waiver cures.
func needsWaiver(w intake.WaiverFacts) bool {
	barGround := w.History.AccruedBarPresence() && w.Departure.Departed.Known()
	return barGround || w.Fraud.FalseStatements.IsTrue() || w.Fraud.DocumentFraud.IsTrue()
}

// WaiverTable builds the default waiver rule table.
func WaiverTable() *Table[intake.WaiverFacts] {
	rules := admissibilityRules(waiverGrounds)
	rules = append(rules,
		Rule[intake.WaiverFacts]{
			ID:    "waiver.provisional",
			Group: "waiver",
			When: func(w intake.WaiverFacts) bool {
				return w.History.AccruedBarPresence() && w.Location.InsideUS.IsTrue() &&
					w.Departure.Departed.IsFalse() && w.Family.HasSpouseOrParent()
			},
			Effect: Effect{Remedy: RemedyProvisionalWaiver, Guidance: GuidanceHardshipEvidence},
		},
		Rule[intake.WaiverFacts]{
			ID:    "waiver.bar_abroad",
			Group: "waiver",
			When: func(w intake.WaiverFacts) bool {
				return w.History.TriggeredBar(w.Departure) && w.Family.HasSpouseOrParent()
			},
			Effect: Effect{Remedy: RemedyWaiver, Guidance: GuidanceHardshipEvidence},
		},
		Rule[intake.WaiverFacts]{
			ID:    "waiver.fraud_relative",
			Group: "waiver",
			When: func(w intake.WaiverFacts) bool {
				return (w.Fraud.FalseStatements.IsTrue() || w.Fraud.DocumentFraud.IsTrue()) && w.Family.HasSpouseOrParent()
			},
			Effect: Effect{Remedy: RemedyWaiver, Guidance: GuidanceHardshipEvidence},
		},
		Rule[intake.WaiverFacts]{
			ID:    "waiver.no_qualifying_relative",
			Group: "eligibility",
			When: func(w intake.WaiverFacts) bool {
				return needsWaiver(w) && w.Family.NoSpouseOrParent()
			},
			Effect: Effect{Flag: FlagNoQualifyingRelative, Risk: 3, Guidance: GuidanceQualifyingRelative},
		},
		Rule[intake.WaiverFacts]{
			ID:    "waiver.weak_hardship",
			Group: "evidence",
			When: func(w intake.WaiverFacts) bool {
				return needsWaiver(w) && w.Hardship.Factors.Known && w.Hardship.Factors.Count() <= 1
			},
			Effect: Effect{Flag: FlagWeakHardship, Risk: 2, Guidance: GuidanceHardshipEvidence},
		},
	)
	rules = append(rules, affidavitRules(func(w intake.WaiverFacts) intake.FinancialEligibility { return w.Financial })...)

	return &Table[intake.WaiverFacts]{
		Variant:    intake.VariantWaiver,
		Version:    "2026.10-1",
		Rules:      rules,
		Thresholds: Thresholds{Moderate: 2, High: 5},
	}
}
