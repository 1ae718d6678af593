// Package notify tells staff that a screening was recorded.
//
// Senders deliver synchronously (Kafka, log). The Dispatcher wraps a sender
// with a bounded queue and a background worker so finalizing a screening
// never waits on delivery.
package notify

import (
	"context"
	"time"

	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
)

// Sender delivers one notification and reports the outcome.
type Sender interface {
	Send(ctx context.Context, record *models.Record) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, record *models.Record) error

func (f SenderFunc) Send(ctx context.Context, record *models.Record) error { return f(ctx, record) }

// Event is the staff-facing message for a new record. Facts stay in the
// record store; staff follow the record id.
type Event struct {
	RecordID     string             `json:"record_id"`
	ScreeningID  string             `json:"screening_id"`
	Variant      string             `json:"variant"`
	Risk         rules.RiskLevel    `json:"risk_level"`
	RiskScore    int                `json:"risk_score"`
	Probability  rules.Probability  `json:"probability_level"`
	Remedies     []rules.RemedyCode `json:"recommended_remedies"`
	Flags        []rules.FlagCode   `json:"flags"`
	ReviewForced bool               `json:"attorney_review_required"`
	Verified     bool               `json:"verified"`
	Contact      models.Contact     `json:"contact"`
	RuleVersion  string             `json:"rule_version"`
	SubmittedAt  time.Time          `json:"submitted_at"`
}

// NewEvent projects a record onto its notification payload.
func NewEvent(r *models.Record) Event {
	c := r.Classification
	return Event{
		RecordID:     r.ID.String(),
		ScreeningID:  r.ScreeningID.String(),
		Variant:      string(r.Variant),
		Risk:         c.Risk,
		RiskScore:    c.RiskScore,
		Probability:  c.Probability,
		Remedies:     c.Remedies,
		Flags:        c.Flags,
		ReviewForced: c.ReviewForced(),
		Verified:     r.Verified,
		Contact:      r.Contact,
		RuleVersion:  c.RuleVersion,
		SubmittedAt:  r.SubmittedAt,
	}
}
