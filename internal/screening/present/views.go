package present

import (
	"time"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
)

const disclaimer = "This screening is not legal advice and does not create an attorney-client relationship."

// Presenter builds read-only views of classifications.
type Presenter struct {
	catalogue *Catalogue
}

func New(catalogue *Catalogue) *Presenter {
	return &Presenter{catalogue: catalogue}
}

type RemedyView struct {
	Code  rules.RemedyCode `json:"code"`
	Title string           `json:"title"`
}

type GuidanceView struct {
	Code     rules.GuidanceCode `json:"code"`
	Markdown string             `json:"markdown"`
	HTML     string             `json:"html"`
}

// SubmitterView is what the person who screened sees. Flags and risk stay
// with staff.
type SubmitterView struct {
	ScreeningID      string            `json:"screening_id"`
	Variant          intake.Variant    `json:"variant"`
	Probability      rules.Probability `json:"probability_level"`
	ProbabilityLabel string            `json:"probability_label"`
	Remedies         []RemedyView      `json:"recommended_remedies"`
	Guidance         []GuidanceView    `json:"next_step_guidance"`
	UnansweredCount  int               `json:"unanswered_count"`
	Disclaimer       string            `json:"disclaimer"`
}

// Submitter renders a submission in lang. Unknown guidance codes are skipped.
func (p *Presenter) Submitter(sub models.Submission, lang string) SubmitterView {
	c := sub.Classification
	v := SubmitterView{
		ScreeningID:      sub.ScreeningID.String(),
		Variant:          sub.Variant,
		Probability:      c.Probability,
		ProbabilityLabel: probabilityLabels[c.Probability],
		Remedies:         remedyViews(c.Remedies),
		Guidance:         make([]GuidanceView, 0, len(c.Guidance)),
		UnansweredCount:  len(sub.Unanswered),
		Disclaimer:       disclaimer,
	}
	for _, code := range c.Guidance {
		md, ok := p.catalogue.Markdown(code, lang)
		if !ok {
			continue
		}
		v.Guidance = append(v.Guidance, GuidanceView{Code: code, Markdown: md, HTML: renderHTML(md)})
	}
	return v
}

// Severity ranks a flag for staff triage.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityNotice   Severity = "notice"
)

type FlagView struct {
	Code         rules.FlagCode `json:"code"`
	Title        string         `json:"title"`
	Category     rules.Category `json:"category"`
	Severity     Severity       `json:"severity"`
	ForcesReview bool           `json:"forces_review"`
}

// StaffView is the full record for attorney review.
type StaffView struct {
	RecordID        string               `json:"record_id"`
	ScreeningID     string               `json:"screening_id"`
	Variant         intake.Variant       `json:"variant"`
	Risk            rules.RiskLevel      `json:"risk_level"`
	RiskScore       int                  `json:"risk_score"`
	Probability     rules.Probability    `json:"probability_level"`
	Remedies        []RemedyView         `json:"recommended_remedies"`
	Flags           []FlagView           `json:"flags"`
	Guidance        []rules.GuidanceCode `json:"next_step_guidance"`
	FiredRules      []string             `json:"fired_rules"`
	RuleVersion     string               `json:"rule_version"`
	Unanswered      []intake.FieldKey    `json:"unanswered_fields"`
	UnansweredCount int                  `json:"unanswered_count"`
	Verified        bool                 `json:"verified"`
	Facts           intake.Facts         `json:"facts"`
	Contact         models.Contact       `json:"contact"`
	Source          models.Source        `json:"source"`
	StartedAt       time.Time            `json:"started_at"`
	SubmittedAt     time.Time            `json:"submitted_at"`
}

// Staff renders a record for review.
func (p *Presenter) Staff(r *models.Record) StaffView {
	c := r.Classification
	v := StaffView{
		RecordID:        r.ID.String(),
		ScreeningID:     r.ScreeningID.String(),
		Variant:         r.Variant,
		Risk:            c.Risk,
		RiskScore:       c.RiskScore,
		Probability:     c.Probability,
		Remedies:        remedyViews(c.Remedies),
		Flags:           make([]FlagView, 0, len(c.Flags)),
		Guidance:        c.Guidance,
		FiredRules:      c.FiredRules,
		RuleVersion:     c.RuleVersion,
		Unanswered:      r.Unanswered,
		UnansweredCount: len(r.Unanswered),
		Verified:        r.Verified,
		Facts:           r.Facts,
		Contact:         r.Contact,
		Source:          r.Source,
		StartedAt:       r.StartedAt,
		SubmittedAt:     r.SubmittedAt,
	}
	for _, code := range c.Flags {
		v.Flags = append(v.Flags, flagView(code))
	}
	return v
}

// StaffSummary is one row of a record listing.
type StaffSummary struct {
	RecordID        string            `json:"record_id"`
	Variant         intake.Variant    `json:"variant"`
	Risk            rules.RiskLevel   `json:"risk_level"`
	Probability     rules.Probability `json:"probability_level"`
	FlagCount       int               `json:"flag_count"`
	UnansweredCount int               `json:"unanswered_count"`
	ContactName     string            `json:"contact_name"`
	SubmittedAt     time.Time         `json:"submitted_at"`
}

func (p *Presenter) Summaries(records []*models.Record) []StaffSummary {
	out := make([]StaffSummary, 0, len(records))
	for _, r := range records {
		out = append(out, StaffSummary{
			RecordID:        r.ID.String(),
			Variant:         r.Variant,
			Risk:            r.Classification.Risk,
			Probability:     r.Classification.Probability,
			FlagCount:       len(r.Classification.Flags),
			UnansweredCount: len(r.Unanswered),
			ContactName:     r.Contact.Name,
			SubmittedAt:     r.SubmittedAt,
		})
	}
	return out
}

func flagView(code rules.FlagCode) FlagView {
	info, _ := rules.Flag(code)
	v := FlagView{
		Code:         code,
		Title:        FlagTitle(code),
		Category:     info.Category,
		ForcesReview: info.ForcesReview,
	}
	switch {
	case info.ForcesReview:
		v.Severity = SeverityCritical
	case info.Category == rules.CategoryBar, info.Category == rules.CategoryRemoval:
		v.Severity = SeverityHigh
	default:
		v.Severity = SeverityNotice
	}
	return v
}

func remedyViews(codes []rules.RemedyCode) []RemedyView {
	out := make([]RemedyView, 0, len(codes))
	for _, code := range codes {
		out = append(out, RemedyView{Code: code, Title: RemedyTitle(code)})
	}
	return out
}
