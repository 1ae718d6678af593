package intake

// Petitioner statuses.
const (
	PetitionerCitizen Choice = "us_citizen"
	PetitionerLPR     Choice = "lpr"
)

// Beneficiary relationships to the petitioner.
const (
	RelationSpouse       Choice = "spouse"
	RelationChildUnder21 Choice = "child_under_21"
	RelationSonDaughter  Choice = "son_daughter_21_plus"
	RelationParent       Choice = "parent"
	RelationSibling      Choice = "sibling"
)

// PetitionerFacts describes the sponsoring relative.
type PetitionerFacts struct {
	Status           Choice
	Age              Num
	AdamWalshOffense Tri
}

func (p *PetitionerFacts) bindings() []binding {
	return []binding{
		choice("petitioner.status", &p.Status, PetitionerCitizen, PetitionerLPR),
		number("petitioner.age", &p.Age),
		tri("petitioner.adam_walsh_offense", &p.AdamWalshOffense),
	}
}

// RelationshipFacts describes the beneficiary's tie to the petitioner.
type RelationshipFacts struct {
	Relationship       Choice
	BeneficiaryMarried Tri
}

func (r *RelationshipFacts) bindings() []binding {
	return []binding{
		choice("beneficiary.relationship", &r.Relationship,
			RelationSpouse, RelationChildUnder21, RelationSonDaughter, RelationParent, RelationSibling),
		tri("beneficiary.married", &r.BeneficiaryMarried),
	}
}

// MarriageFacts is collected only for spousal petitions.
type MarriageFacts struct {
	UnderTwoYears         Tri
	LivingTogether        Tri
	PriorFraudFinding     Tri
	DuringRemovalHearings Tri
}

func (m *MarriageFacts) bindings() []binding {
	return []binding{
		tri("marriage.under_two_years", &m.UnderTwoYears),
		tri("marriage.living_together", &m.LivingTogether),
		tri("marriage.prior_fraud_finding", &m.PriorFraudFinding),
		tri("marriage.during_removal_proceedings", &m.DuringRemovalHearings),
	}
}

// PetitionFacts is the typed view of a family-petition screening.
type PetitionFacts struct {
	Petitioner   PetitionerFacts
	Relationship RelationshipFacts
	Marriage     MarriageFacts
	Location     LocationFacts
	History      ImmigrationHistory
	Protected245 Tri
	Departure    DepartureFacts
	Removal      RemovalFacts
	Fraud        FraudIndicators
	Criminal     CriminalIndicators
	Financial    FinancialEligibility
}

func (p *PetitionFacts) bindings() []binding {
	return concat(
		p.Petitioner.bindings(),
		p.Relationship.bindings(),
		p.Marriage.bindings(),
		p.Location.bindings(),
		p.History.bindings(),
		[]binding{tri("history.section_245i", &p.Protected245)},
		p.Departure.bindings(),
		p.Removal.bindings(),
		p.Fraud.bindings(),
		p.Criminal.summary(),
		p.Criminal.details(),
		p.Financial.bindings(),
	)
}

// ImmediateRelative reports a citizen petition for a spouse, minor child, or
// (when the petitioner is at least 21) a parent. Immediate relatives are exempt
// from visa backlogs and may adjust despite an overstay.
func (p PetitionFacts) ImmediateRelative() bool {
	if p.Petitioner.Status != PetitionerCitizen {
		return false
	}
	switch p.Relationship.Relationship {
	case RelationSpouse, RelationChildUnder21:
		return true
	case RelationParent:
		return p.Petitioner.Age.AtLeast(21)
	}
	return false
}

// Petition decodes the typed view. Facts of another variant decode to the empty view.
func Petition(f Facts) PetitionFacts {
	var p PetitionFacts
	if f.variant == VariantPetition {
		decode(f, p.bindings())
	}
	return p
}
