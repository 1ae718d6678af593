package intake

// Entry types.
const (
	EntryInspected         Choice = "inspected"
	EntryWithoutInspection Choice = "without_inspection"
	EntryParole            Choice = "parole"
	EntryNeverEntered      Choice = "never_entered"
)

// Accrued unlawful presence buckets. The 180-day and one-year marks are the
// thresholds of the three- and ten-year bars.
const (
	PresenceNone          Choice = "none"
	PresenceUnder180Days  Choice = "<180d"
	Presence180DaysTo1Yr  Choice = "180d-1y"
	PresenceOneYearOrMore Choice = "1y+"
)

// Criminal offense tags.
const (
	OffenseMoralTurpitude      = "cimt"
	OffenseControlledSubstance = "controlled_substance"
	OffenseAggravatedFelony    = "aggravated_felony"
	OffenseDUI                 = "dui"
	OffenseDomesticViolence    = "domestic_violence"
	OffenseOther               = "other"
)

// Hardship factor tags.
const (
	HardshipMedical           = "medical"
	HardshipFinancial         = "financial"
	HardshipFamilySeparation  = "family_separation"
	HardshipCountryConditions = "country_conditions"
	HardshipEducation         = "education"
	HardshipPsychological     = "psychological"
	HardshipCaregiving        = "caregiving"
)

// LocationFacts places the applicant.
type LocationFacts struct {
	InsideUS  Tri
	EntryType Choice
	Country   string
}

func (l *LocationFacts) bindings() []binding {
	return []binding{
		tri("location.inside_us", &l.InsideUS),
		choice("location.entry_type", &l.EntryType, EntryInspected, EntryWithoutInspection, EntryParole, EntryNeverEntered),
		text("location.country", &l.Country),
	}
}

// ImmigrationHistory covers status violations and prior removals.
type ImmigrationHistory struct {
	Overstayed       Tri
	UnlawfulPresence Choice
	PriorRemoval     Tri
}

func (h *ImmigrationHistory) bindings() []binding {
	return []binding{
		tri("history.overstayed", &h.Overstayed),
		choice("history.unlawful_presence", &h.UnlawfulPresence,
			PresenceNone, PresenceUnder180Days, Presence180DaysTo1Yr, PresenceOneYearOrMore),
		tri("history.prior_removal", &h.PriorRemoval),
	}
}

// AccruedBarPresence reports unlawful presence long enough to trigger a bar on departure.
func (h ImmigrationHistory) AccruedBarPresence() bool {
	return h.UnlawfulPresence == Presence180DaysTo1Yr || h.UnlawfulPresence == PresenceOneYearOrMore
}

// DepartureFacts is collected only when the applicant accrued bar-length unlawful presence.
type DepartureFacts struct {
	Departed                  Tri
	YearsSinceDeparture       Num
	ReenteredWithoutAdmission Tri
}

func (d *DepartureFacts) bindings() []binding {
	return []binding{
		tri("departure.departed", &d.Departed),
		number("departure.years_since", &d.YearsSinceDeparture),
		tri("departure.reentered_without_admission", &d.ReenteredWithoutAdmission),
	}
}

// TriggeredBar reports a departure after bar-length unlawful presence.
func (h ImmigrationHistory) TriggeredBar(d DepartureFacts) bool {
	return h.AccruedBarPresence() && d.Departed.IsTrue()
}

// RemovalFacts is collected only after a prior removal.
type RemovalFacts struct {
	ReenteredWithoutAdmission Tri
	YearsSinceRemoval         Num
}

func (r *RemovalFacts) bindings() []binding {
	return []binding{
		tri("removal.reentered_without_admission", &r.ReenteredWithoutAdmission),
		number("removal.years_since", &r.YearsSinceRemoval),
	}
}

// FraudIndicators are misrepresentation grounds.
type FraudIndicators struct {
	FalseStatements       Tri
	FalseCitizenshipClaim Tri
	DocumentFraud         Tri
}

func (f *FraudIndicators) bindings() []binding {
	return []binding{
		tri("fraud.false_statements", &f.FalseStatements),
		tri("fraud.false_citizenship_claim", &f.FalseCitizenshipClaim),
		tri("fraud.document_fraud", &f.DocumentFraud),
	}
}

// Any reports at least one confirmed fraud indicator.
func (f FraudIndicators) Any() bool {
	return f.FalseStatements.IsTrue() || f.FalseCitizenshipClaim.IsTrue() || f.DocumentFraud.IsTrue()
}

// CriminalIndicators covers convictions. The details are collected only when
// Convictions is Yes.
type CriminalIndicators struct {
	Convictions       Tri
	Offenses          TagSet
	MarijuanaUnder30g Tri
	SentenceMonths    Num
	YearsSinceOffense Num
}

func (c *CriminalIndicators) summary() []binding {
	return []binding{tri("criminal.convictions", &c.Convictions)}
}

func (c *CriminalIndicators) details() []binding {
	return []binding{
		tags("criminal.offenses", &c.Offenses,
			OffenseMoralTurpitude, OffenseControlledSubstance, OffenseAggravatedFelony,
			OffenseDUI, OffenseDomesticViolence, OffenseOther),
		tri("criminal.marijuana_under_30g", &c.MarijuanaUnder30g),
		number("criminal.sentence_months", &c.SentenceMonths),
		number("criminal.years_since_offense", &c.YearsSinceOffense),
	}
}

// HardshipFactors support extreme-hardship waivers.
type HardshipFactors struct {
	Factors   TagSet
	Narrative string
}

func (h *HardshipFactors) bindings() []binding {
	return []binding{
		tags("hardship.factors", &h.Factors,
			HardshipMedical, HardshipFinancial, HardshipFamilySeparation, HardshipCountryConditions,
			HardshipEducation, HardshipPsychological, HardshipCaregiving),
		text("hardship.narrative", &h.Narrative),
	}
}

// MaxHouseholdSize is the largest household the affidavit test accepts.
const MaxHouseholdSize = 50

// FinancialEligibility feeds the affidavit-of-support test.
type FinancialEligibility struct {
	HouseholdIncome Num
	HouseholdSize   Num
	JointSponsor    Tri
}

func (f *FinancialEligibility) bindings() []binding {
	return []binding{
		number("financial.household_income", &f.HouseholdIncome),
		capped(number("financial.household_size", &f.HouseholdSize), MaxHouseholdSize),
		tri("financial.joint_sponsor", &f.JointSponsor),
	}
}

func concat(groups ...[]binding) []binding {
	var out []binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
