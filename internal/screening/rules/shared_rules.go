package rules

import "lexscreen/internal/screening/intake"

// grounds is the slice of facts every variant shares for inadmissibility.
type grounds struct {
	Location  intake.LocationFacts
	History   intake.ImmigrationHistory
	Departure intake.DepartureFacts
	Removal   intake.RemovalFacts
	Fraud     intake.FraudIndicators
	Criminal  intake.CriminalIndicators
}

// lift adapts a predicate over a projection to a predicate over the variant view.
func lift[F, P any](project func(F) P, when func(P) bool) func(F) bool {
	return func(f F) bool { return when(project(f)) }
}

func convicted(g grounds, offense string) bool {
	return g.Criminal.Convictions.IsTrue() && g.Criminal.Offenses.Has(offense)
}

// admissibilityRules are the criminal, fraud, bar and removal grounds, in
// severity order.
func admissibilityRules[F any](project func(F) grounds) []Rule[F] {
	type entry struct {
		id, group string
		when      func(grounds) bool
		effect    Effect
	}
	entries := []entry{
		{"criminal.aggravated_felony", "criminal", func(g grounds) bool {
			return convicted(g, intake.OffenseAggravatedFelony)
		}, Effect{Flag: FlagAggravatedFelony, Risk: 6, Guidance: GuidanceCriminalCounsel}},
		{"criminal.controlled_substance", "criminal", func(g grounds) bool {
			return convicted(g, intake.OffenseControlledSubstance)
		}, Effect{Flag: FlagControlledSubstance, Risk: 5, Guidance: GuidanceCriminalCounsel}},
		{"criminal.petty_marijuana", "criminal", func(g grounds) bool {
			return convicted(g, intake.OffenseControlledSubstance) && g.Criminal.MarijuanaUnder30g.IsTrue()
		}, Effect{Remedy: RemedyCriminalWaiver, Guidance: GuidancePettyMarijuana}},
		{"criminal.moral_turpitude", "criminal", func(g grounds) bool {
			return convicted(g, intake.OffenseMoralTurpitude)
		}, Effect{Remedy: RemedyCriminalWaiver, Flag: FlagMoralTurpitude, Risk: 3}},
		{"criminal.aggregate_sentence", "criminal", func(g grounds) bool {
			return g.Criminal.Convictions.IsTrue() && g.Criminal.SentenceMonths.AtLeast(60)
		}, Effect{Flag: FlagAggregateSentence, Risk: 3}},
		{"criminal.conviction", "criminal", func(g grounds) bool {
			return g.Criminal.Convictions.IsTrue()
		}, Effect{Flag: FlagCriminalConviction, Risk: 2, Guidance: GuidanceCourtDispositions}},
		{"criminal.rehabilitated", "criminal", func(g grounds) bool {
			return g.Criminal.Convictions.IsTrue() && g.Criminal.YearsSinceOffense.AtLeast(15)
		}, Effect{Remedy: RemedyCriminalWaiver, Guidance: GuidanceRehabilitation}},

		{"fraud.false_citizenship_claim", "fraud", func(g grounds) bool {
			return g.Fraud.FalseCitizenshipClaim.IsTrue()
		}, Effect{Flag: FlagFalseClaimCitizenship, Risk: 6, Guidance: GuidanceFalseClaimNoWaiver}},
		{"fraud.misrepresentation", "fraud", func(g grounds) bool {
			return g.Fraud.FalseStatements.IsTrue()
		}, Effect{Remedy: RemedyFraudWaiver, Flag: FlagMisrepresentation, Risk: 3, Guidance: GuidanceFraudWaiverEvidence}},
		{"fraud.document_fraud", "fraud", func(g grounds) bool {
			return g.Fraud.DocumentFraud.IsTrue()
		}, Effect{Remedy: RemedyFraudWaiver, Flag: FlagDocumentFraud, Risk: 3, Guidance: GuidanceFraudWaiverEvidence}},

		{"bar.permanent_after_removal", "bar", func(g grounds) bool {
			return g.History.PriorRemoval.IsTrue() && g.Removal.ReenteredWithoutAdmission.IsTrue()
		}, Effect{Flag: FlagPermanentBar, Risk: 5, Guidance: GuidanceTenYearsAbroad}},
		{"bar.permanent_after_presence", "bar", func(g grounds) bool {
			return g.History.UnlawfulPresence == intake.PresenceOneYearOrMore &&
				g.Departure.Departed.IsTrue() && g.Departure.ReenteredWithoutAdmission.IsTrue()
		}, Effect{Flag: FlagPermanentBar, Risk: 5, Guidance: GuidanceTenYearsAbroad}},
		{"removal.prior", "removal", func(g grounds) bool {
			return g.History.PriorRemoval.IsTrue()
		}, Effect{Remedy: RemedyPermissionReapply, Flag: FlagPriorRemoval, Risk: 2, Guidance: GuidanceRequestRecords}},
		{"removal.bar_elapsed", "removal", func(g grounds) bool {
			return g.History.PriorRemoval.IsTrue() && g.Removal.YearsSinceRemoval.AtLeast(10)
		}, Effect{Guidance: GuidanceRemovalBarElapsed}},
		{"bar.ten_year", "bar", func(g grounds) bool {
			return g.History.UnlawfulPresence == intake.PresenceOneYearOrMore && g.Departure.Departed.IsTrue()
		}, Effect{Flag: FlagTenYearBar, Risk: 2}},
		{"bar.three_year", "bar", func(g grounds) bool {
			return g.History.UnlawfulPresence == intake.Presence180DaysTo1Yr && g.Departure.Departed.IsTrue()
		}, Effect{Flag: FlagThreeYearBar, Risk: 1}},
		{"bar.ten_year_elapsed", "bar", func(g grounds) bool {
			return g.History.UnlawfulPresence == intake.PresenceOneYearOrMore &&
				g.Departure.Departed.IsTrue() && g.Departure.YearsSinceDeparture.AtLeast(10)
		}, Effect{Guidance: GuidanceBarPeriodElapsed}},
		{"bar.three_year_elapsed", "bar", func(g grounds) bool {
			return g.History.UnlawfulPresence == intake.Presence180DaysTo1Yr &&
				g.Departure.Departed.IsTrue() && g.Departure.YearsSinceDeparture.AtLeast(3)
		}, Effect{Guidance: GuidanceBarPeriodElapsed}},
		{"bar.presence_accrued", "bar", func(g grounds) bool {
			return g.History.AccruedBarPresence() && g.Location.InsideUS.IsTrue() && g.Departure.Departed.IsFalse()
		}, Effect{Flag: FlagPresenceAccrued, Risk: 1, Guidance: GuidanceDoNotDepart}},
		{"bar.entry_without_inspection", "bar", func(g grounds) bool {
			return g.Location.InsideUS.IsTrue() && g.Location.EntryType == intake.EntryWithoutInspection
		}, Effect{Flag: FlagEntryWithoutInspection, Risk: 1, Guidance: GuidanceConsularRequired}},
	}

	out := make([]Rule[F], len(entries))
	for i, s := range entries {
		out[i] = Rule[F]{ID: s.id, Group: s.group, When: lift(project, s.when), Effect: s.effect}
	}
	return out
}

// Affidavit-of-support test: income must reach 125% of the poverty guideline
// for the household.
const (
	povertyBase        = 15650
	povertyPerPerson   = 5500
	affidavitPercent   = 125
	affidavitMinPeople = 1
)

// PovertyFloor returns the minimum sponsor income for a household size,
// clamped to [1, intake.MaxHouseholdSize] people.
func PovertyFloor(householdSize int) float64 {
	householdSize = max(min(householdSize, intake.MaxHouseholdSize), affidavitMinPeople)
	guideline := povertyBase + povertyPerPerson*(householdSize-1)
	return float64(guideline*affidavitPercent) / 100
}

func shortfall(f intake.FinancialEligibility) bool {
	if !f.HouseholdIncome.Known || !f.HouseholdSize.Known {
		return false
	}
	size := min(f.HouseholdSize.Value, intake.MaxHouseholdSize)
	return f.HouseholdIncome.Value < PovertyFloor(int(size))
}

// affidavitRules test the sponsor's income. A joint sponsor turns the
// shortfall into a remedy.
func affidavitRules[F any](project func(F) intake.FinancialEligibility) []Rule[F] {
	return []Rule[F]{
		{
			ID:    "financial.affidavit_shortfall",
			Group: "financial",
			When: lift(project, func(f intake.FinancialEligibility) bool {
				return shortfall(f) && f.JointSponsor.IsFalse()
			}),
			Effect: Effect{Flag: FlagAffidavitShortfall, Risk: 2, Guidance: GuidanceIncomeEvidence},
		},
		{
			ID:    "financial.joint_sponsor",
			Group: "financial",
			When: lift(project, func(f intake.FinancialEligibility) bool {
				return shortfall(f) && f.JointSponsor.IsTrue()
			}),
			Effect: Effect{Remedy: RemedyJointSponsor, Guidance: GuidanceJointSponsor},
		},
	}
}
