package rules

import "lexscreen/internal/screening/intake"

func workGrounds(w intake.WorkFacts) grounds {
	return grounds{
		History:   w.History,
		Departure: w.Departure,
		Removal:   w.Removal,
		Fraud:     w.Fraud,
		Criminal:  w.Criminal,
	}
}

// specialtyOccupation reports an H-1B qualifying offer.
func specialtyOccupation(w intake.WorkFacts) bool {
	return w.Employment.JobOffer.IsTrue() && w.Employment.RequiresDegree.IsTrue() &&
		w.Education.HoldsBachelors() && w.Education.FieldRelated.IsTrue()
}

func multinational(w intake.WorkFacts) bool {
	return w.Employment.EmployerType == intake.EmployerMultinational
}

func extraordinary(w intake.WorkFacts) bool {
	a := w.Achievements
	return a.Claimed.IsTrue() && (a.Criteria.Count() >= 3 || a.MajorAward.IsTrue())
}

func capSubject(w intake.WorkFacts) bool {
	switch w.Employment.EmployerType {
	case intake.EmployerUSCompany, intake.EmployerMultinational:
	default:
		return false
	}
	switch w.CurrentStatus {
	case intake.StatusNone, intake.StatusStudentOPT, intake.StatusL1, intake.StatusOther, intake.StatusOutOfStatus:
		return true
	}
	return false
}

// WorkTable builds the default employment-visa rule table. Work screenings
// carry no affidavit-of-support rules.
func WorkTable() *Table[intake.WorkFacts] {
	type W = intake.WorkFacts
	rules := admissibilityRules(workGrounds)
	rules = append(rules,
		Rule[W]{
			ID:     "work.out_of_status",
			Group:  "status",
			When:   func(w W) bool { return w.CurrentStatus == intake.StatusOutOfStatus },
			Effect: Effect{Flag: FlagOutOfStatus, Risk: 3, Guidance: GuidanceChangeOfStatusBlocked},
		},
		Rule[W]{
			ID:    "work.wage_below_prevailing",
			Group: "eligibility",
			When: func(w W) bool {
				e := w.Employment
				return e.OfferedWage.Known && e.PrevailingWage.Known && e.OfferedWage.Value < e.PrevailingWage.Value
			},
			Effect: Effect{Flag: FlagWageBelowPrevailing, Risk: 3, Guidance: GuidanceWageLevel},
		},
		Rule[W]{
			ID:    "work.degree_mismatch",
			Group: "eligibility",
			When: func(w W) bool {
				return w.Employment.RequiresDegree.IsTrue() && w.Education.Degree == intake.DegreeNone
			},
			Effect: Effect{Flag: FlagDegreeMismatch, Risk: 2, Guidance: GuidanceCredentialEvaluation},
		},
		Rule[W]{
			ID:    "work.short_affiliate_tenure",
			Group: "eligibility",
			When: func(w W) bool {
				return multinational(w) && w.Multinational.YearsWithAffiliate.Below(1)
			},
			Effect: Effect{Flag: FlagShortAffiliateTenure, Risk: 2, Guidance: GuidanceAffiliateTenure},
		},
		Rule[W]{
			ID:     "work.h1b",
			Group:  "category",
			When:   specialtyOccupation,
			Effect: Effect{Remedy: RemedyH1B},
		},
		Rule[W]{
			ID:     "work.h1b_cap_lottery",
			Group:  "category",
			When:   func(w W) bool { return specialtyOccupation(w) && capSubject(w) },
			Effect: Effect{Flag: FlagCapLottery, Risk: 1, Guidance: GuidanceRegistrationWindow},
		},
		Rule[W]{
			ID:    "work.h1b_cap_exempt",
			Group: "category",
			When: func(w W) bool {
				return specialtyOccupation(w) && w.Employment.EmployerType == intake.EmployerCapExempt
			},
			Effect: Effect{Remedy: RemedyH1BCapExempt},
		},
		Rule[W]{
			ID:     "work.h1b_portability",
			Group:  "category",
			When:   func(w W) bool { return specialtyOccupation(w) && w.CurrentStatus == intake.StatusH1B },
			Effect: Effect{Guidance: GuidancePortability},
		},
		Rule[W]{
			ID:    "work.l1a",
			Group: "category",
			When: func(w W) bool {
				m := w.Multinational
				return multinational(w) && m.YearsWithAffiliate.AtLeast(1) && m.Managerial.IsTrue()
			},
			Effect: Effect{Remedy: RemedyL1A},
		},
		Rule[W]{
			ID:    "work.l1b",
			Group: "category",
			When: func(w W) bool {
				m := w.Multinational
				return multinational(w) && m.YearsWithAffiliate.AtLeast(1) && m.SpecializedKnowledge.IsTrue()
			},
			Effect: Effect{Remedy: RemedyL1B},
		},
		Rule[W]{
			ID:     "work.o1",
			Group:  "category",
			When:   extraordinary,
			Effect: Effect{Remedy: RemedyO1, Guidance: GuidanceExtraordinaryEvidence},
		},
		Rule[W]{
			ID:     "work.eb1a",
			Group:  "category",
			When:   extraordinary,
			Effect: Effect{Remedy: RemedyEB1A, Guidance: GuidanceExtraordinaryEvidence},
		},
		Rule[W]{
			ID:    "work.tn",
			Group: "category",
			When: func(w W) bool {
				treaty := w.Citizenship == intake.CitizenCanada || w.Citizenship == intake.CitizenMexico
				return treaty && w.Employment.JobOffer.IsTrue() && w.Education.HoldsBachelors()
			},
			Effect: Effect{Remedy: RemedyTN, Guidance: GuidanceTreatyProfession},
		},
		Rule[W]{
			ID:     "work.niw",
			Group:  "category",
			When:   func(w W) bool { return w.Education.AdvancedDegree() },
			Effect: Effect{Remedy: RemedyNIW, Guidance: GuidanceNationalInterest},
		},
		Rule[W]{
			ID:    "work.perm",
			Group: "category",
			When: func(w W) bool {
				sponsor := w.Employment.EmployerType == intake.EmployerUSCompany ||
					w.Employment.EmployerType == intake.EmployerMultinational ||
					w.Employment.EmployerType == intake.EmployerCapExempt
				return sponsor && w.Employment.JobOffer.IsTrue() && w.Education.HoldsBachelors()
			},
			Effect: Effect{Remedy: RemedyPERM, Guidance: GuidanceLaborCertification},
		},
	)

	return &Table[W]{
		Variant:    intake.VariantWork,
		Version:    "2026.10-1",
		Rules:      rules,
		Thresholds: Thresholds{Moderate: 2, High: 5},
	}
}
