package notify

import (
	"context"
	"log/slog"

	"lexscreen/internal/screening/models"
)

// Log writes notifications to a structured logger. Used when no broker is
// configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, record *models.Record) error {
	e := NewEvent(record)
	l.logger.InfoContext(ctx, "screening recorded",
		"record_id", e.RecordID,
		"screening_id", e.ScreeningID,
		"variant", e.Variant,
		"risk_level", e.Risk,
		"probability_level", e.Probability,
		"flags", e.Flags,
		"attorney_review_required", e.ReviewForced,
	)
	return nil
}
