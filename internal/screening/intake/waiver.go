package intake

// QualifyingRelatives are the relatives whose hardship a waiver can rest on.
type QualifyingRelatives struct {
	CitizenSpouse Tri
	LPRSpouse     Tri
	CitizenParent Tri
	LPRParent     Tri
	CitizenChild  Tri
}

func (q *QualifyingRelatives) bindings() []binding {
	return []binding{
		tri("family.citizen_spouse", &q.CitizenSpouse),
		tri("family.lpr_spouse", &q.LPRSpouse),
		tri("family.citizen_parent", &q.CitizenParent),
		tri("family.lpr_parent", &q.LPRParent),
		tri("family.citizen_child", &q.CitizenChild),
	}
}

// HasSpouseOrParent reports a confirmed spouse or parent qualifying relative,
// the relatives accepted for unlawful-presence and fraud waivers.
func (q QualifyingRelatives) HasSpouseOrParent() bool {
	return q.CitizenSpouse.IsTrue() || q.LPRSpouse.IsTrue() || q.CitizenParent.IsTrue() || q.LPRParent.IsTrue()
}

// NoSpouseOrParent reports that every spouse and parent relative was denied.
func (q QualifyingRelatives) NoSpouseOrParent() bool {
	return q.CitizenSpouse.IsFalse() && q.LPRSpouse.IsFalse() && q.CitizenParent.IsFalse() && q.LPRParent.IsFalse()
}

// WaiverFacts is the typed view of a waiver screening.
type WaiverFacts struct {
	Location  LocationFacts
	Family    QualifyingRelatives
	History   ImmigrationHistory
	Departure DepartureFacts
	Removal   RemovalFacts
	Fraud     FraudIndicators
	Criminal  CriminalIndicators
	Hardship  HardshipFactors
	Financial FinancialEligibility
}

func (w *WaiverFacts) bindings() []binding {
	return concat(
		w.Location.bindings(),
		w.Family.bindings(),
		w.History.bindings(),
		w.Departure.bindings(),
		w.Removal.bindings(),
		w.Fraud.bindings(),
		w.Criminal.summary(),
		w.Criminal.details(),
		w.Hardship.bindings(),
		w.Financial.bindings(),
	)
}

// Waiver decodes the typed view. Facts of another variant decode to the empty view.
func Waiver(f Facts) WaiverFacts {
	var w WaiverFacts
	if f.variant == VariantWaiver {
		decode(f, w.bindings())
	}
	return w
}
