package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/mssola/useragent"

	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/rules"
)

// Submission is the frozen outcome of a completed wizard run. Facts holds the
// effective facts: answers to steps that did not apply are dropped.
type Submission struct {
	ScreeningID    id.ScreeningID       `json:"screening_id"`
	Variant        intake.Variant       `json:"variant"`
	Facts          intake.Facts         `json:"facts"`
	Classification rules.Classification `json:"classification"`
	// Unanswered lists applicable optional fields left unknown.
	Unanswered  []intake.FieldKey `json:"unanswered_fields"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Verified reports that every applicable field was answered.
func (s Submission) Verified() bool { return len(s.Unanswered) == 0 }

// Contact is how the firm reaches the person who screened.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Language string `json:"language,omitempty"`
	Message  string `json:"message,omitempty"`
}

const (
	maxNameLength    = 200
	maxMessageLength = 4000
)

// Normalize trims fields and validates that the contact can be reached.
func (c Contact) Normalize() (Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	c.Message = strings.TrimSpace(c.Message)

	switch {
	case c.Name == "":
		return Contact{}, dErrors.New(dErrors.CodeValidation, "contact name is required")
	case len(c.Name) > maxNameLength:
		return Contact{}, dErrors.New(dErrors.CodeValidation, "contact name is too long")
	case c.Email == "" && c.Phone == "":
		return Contact{}, dErrors.New(dErrors.CodeValidation, "an email or phone number is required")
	case len(c.Message) > maxMessageLength:
		return Contact{}, dErrors.New(dErrors.CodeValidation, "message is too long")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return Contact{}, dErrors.New(dErrors.CodeValidation, "email address is invalid")
		}
	}
	return c, nil
}

// Source is request metadata attached to a record.
type Source struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	Mobile    bool   `json:"mobile"`
	Referrer  string `json:"referrer,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSource derives browser and OS from the raw user agent.
func NewSource(ip, userAgent, referrer, requestID string) Source {
	s := Source{IPAddress: ip, UserAgent: userAgent, Referrer: referrer, RequestID: requestID}
	if userAgent == "" {
		return s
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	s.Browser = strings.TrimSpace(name + " " + version)
	s.OS = ua.OS()
	s.Mobile = ua.Mobile()
	return s
}

// Record is the immutable persisted result of one completed wizard run.
// ScreeningID is unique across records.
type Record struct {
	ID             id.RecordID          `json:"id"`
	ScreeningID    id.ScreeningID       `json:"screening_id"`
	Variant        intake.Variant       `json:"variant"`
	Facts          intake.Facts         `json:"facts"`
	Classification rules.Classification `json:"classification"`
	Unanswered     []intake.FieldKey    `json:"unanswered_fields"`
	Verified       bool                 `json:"verified"`
	Contact        Contact              `json:"contact"`
	Source         Source               `json:"source"`
	StartedAt      time.Time            `json:"started_at"`
	SubmittedAt    time.Time            `json:"submitted_at"`
}

// NewRecord freezes a submission together with contact and source.
func NewRecord(sub Submission, contact Contact, source Source, now time.Time) (*Record, error) {
	if sub.ScreeningID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "submission has no screening id")
	}
	normalized, err := contact.Normalize()
	if err != nil {
		return nil, err
	}
	unanswered := sub.Unanswered
	if unanswered == nil {
		unanswered = []intake.FieldKey{}
	}
	return &Record{
		ID:             id.NewRecordID(),
		ScreeningID:    sub.ScreeningID,
		Variant:        sub.Variant,
		Facts:          sub.Facts,
		Classification: sub.Classification,
		Unanswered:     unanswered,
		Verified:       sub.Verified(),
		Contact:        normalized,
		Source:         source,
		StartedAt:      sub.StartedAt,
		SubmittedAt:    now,
	}, nil
}

// RecordFilter narrows staff listings. Zero values match everything.
type RecordFilter struct {
	Variant intake.Variant
	Risk    rules.RiskLevel
	Limit   int
}

const (
	DefaultRecordLimit = 50
	MaxRecordLimit     = 500
)

// Normalize clamps the limit.
func (f RecordFilter) Normalize() RecordFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultRecordLimit
	}
	if f.Limit > MaxRecordLimit {
		f.Limit = MaxRecordLimit
	}
	return f
}

// Matches reports whether r passes the filter.
func (f RecordFilter) Matches(r *Record) bool {
	if f.Variant != "" && r.Variant != f.Variant {
		return false
	}
	if f.Risk != "" && r.Classification.Risk != f.Risk {
		return false
	}
	return true
}

// VariantStats summarises risk scores of the newest MaxRecordLimit records of
// one variant. SampleSize is how many records were read, not a total.
type VariantStats struct {
	Variant         intake.Variant          `json:"variant"`
	SampleSize      int                     `json:"sample_size"`
	MeanRiskScore   float64                 `json:"mean_risk_score"`
	MedianRiskScore float64                 `json:"median_risk_score"`
	P90RiskScore    float64                 `json:"p90_risk_score"`
	ByRisk          map[rules.RiskLevel]int `json:"by_risk"`
	ReviewRequired  int                     `json:"review_required"`
}
