package intake

// Employer types.
const (
	EmployerUSCompany     Choice = "us_company"
	EmployerMultinational Choice = "multinational"
	EmployerCapExempt     Choice = "university_nonprofit"
	EmployerNone          Choice = "none"
)

// Degree levels.
const (
	DegreeNone      Choice = "none"
	DegreeBachelors Choice = "bachelors"
	DegreeMasters   Choice = "masters"
	DegreeDoctorate Choice = "doctorate"
)

// Citizenship groupings that matter for treaty categories.
const (
	CitizenCanada Choice = "canada"
	CitizenMexico Choice = "mexico"
	CitizenOther  Choice = "other"
)

// Current nonimmigrant statuses.
const (
	StatusNone        Choice = "none"
	StatusH1B         Choice = "h1b"
	StatusStudentOPT  Choice = "f1_opt"
	StatusL1          Choice = "l1"
	StatusOther       Choice = "other_nonimmigrant"
	StatusOutOfStatus Choice = "out_of_status"
)

// Achievement criteria tags, modeled on the extraordinary-ability evidence list.
const (
	AchievementAwards        = "awards"
	AchievementMemberships   = "memberships"
	AchievementMedia         = "media"
	AchievementJudging       = "judging"
	AchievementContributions = "original_contributions"
	AchievementPublications  = "publications"
	AchievementCriticalRole  = "critical_role"
	AchievementHighSalary    = "high_salary"
)

// EmploymentFacts describes the job offer.
type EmploymentFacts struct {
	JobOffer       Tri
	EmployerType   Choice
	RequiresDegree Tri
	OfferedWage    Num
	PrevailingWage Num
}

func (e *EmploymentFacts) bindings() []binding {
	return []binding{
		tri("employment.job_offer", &e.JobOffer),
		choice("employment.employer_type", &e.EmployerType,
			EmployerUSCompany, EmployerMultinational, EmployerCapExempt, EmployerNone),
		tri("employment.requires_degree", &e.RequiresDegree),
		number("employment.offered_wage", &e.OfferedWage),
		number("employment.prevailing_wage", &e.PrevailingWage),
	}
}

// MultinationalFacts is collected only for multinational employers.
type MultinationalFacts struct {
	YearsWithAffiliate   Num
	Managerial           Tri
	SpecializedKnowledge Tri
}

func (m *MultinationalFacts) bindings() []binding {
	return []binding{
		number("multinational.years_with_affiliate", &m.YearsWithAffiliate),
		tri("multinational.managerial", &m.Managerial),
		tri("multinational.specialized_knowledge", &m.SpecializedKnowledge),
	}
}

// EducationFacts describes degrees and experience.
type EducationFacts struct {
	Degree          Choice
	FieldRelated    Tri
	YearsExperience Num
}

func (e *EducationFacts) bindings() []binding {
	return []binding{
		choice("education.degree", &e.Degree, DegreeNone, DegreeBachelors, DegreeMasters, DegreeDoctorate),
		tri("education.field_related", &e.FieldRelated),
		number("education.years_experience", &e.YearsExperience),
	}
}

// HoldsBachelors reports a bachelor's degree or higher.
func (e EducationFacts) HoldsBachelors() bool {
	return e.Degree == DegreeBachelors || e.Degree == DegreeMasters || e.Degree == DegreeDoctorate
}

// AdvancedDegree reports a master's or doctorate, or a bachelor's plus five
// years of progressive experience.
func (e EducationFacts) AdvancedDegree() bool {
	switch e.Degree {
	case DegreeMasters, DegreeDoctorate:
		return true
	case DegreeBachelors:
		return e.YearsExperience.AtLeast(5)
	}
	return false
}

// AchievementFacts records extraordinary-ability evidence. Criteria and
// MajorAward are collected only when Claimed is Yes.
type AchievementFacts struct {
	Claimed    Tri
	Criteria   TagSet
	MajorAward Tri
}

func (a *AchievementFacts) summary() []binding {
	return []binding{tri("achievements.claimed", &a.Claimed)}
}

func (a *AchievementFacts) details() []binding {
	return []binding{
		tags("achievements.criteria", &a.Criteria,
			AchievementAwards, AchievementMemberships, AchievementMedia, AchievementJudging,
			AchievementContributions, AchievementPublications, AchievementCriticalRole, AchievementHighSalary),
		tri("achievements.major_award", &a.MajorAward),
	}
}

// WorkFacts is the typed view of an employment-visa screening.
type WorkFacts struct {
	Employment    EmploymentFacts
	Multinational MultinationalFacts
	Education     EducationFacts
	Citizenship   Choice
	Achievements  AchievementFacts
	CurrentStatus Choice
	History       ImmigrationHistory
	Departure     DepartureFacts
	Removal       RemovalFacts
	Fraud         FraudIndicators
	Criminal      CriminalIndicators
}

func (w *WorkFacts) bindings() []binding {
	return concat(
		w.Employment.bindings(),
		w.Multinational.bindings(),
		w.Education.bindings(),
		[]binding{choice("nationality.citizenship", &w.Citizenship, CitizenCanada, CitizenMexico, CitizenOther)},
		w.Achievements.summary(),
		w.Achievements.details(),
		[]binding{choice("status.current", &w.CurrentStatus,
			StatusNone, StatusH1B, StatusStudentOPT, StatusL1, StatusOther, StatusOutOfStatus)},
		w.History.bindings(),
		w.Departure.bindings(),
		w.Removal.bindings(),
		w.Fraud.bindings(),
		w.Criminal.summary(),
		w.Criminal.details(),
	)
}

// Work decodes the typed view. Facts of another variant decode to the empty view.
func Work(f Facts) WorkFacts {
	var w WorkFacts
	if f.variant == VariantWork {
		decode(f, w.bindings())
	}
	return w
}
