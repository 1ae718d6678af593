package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lexscreen/internal/screening/models"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/sentinel"
	"lexscreen/pkg/requestcontext"
)

// NotReadyError is returned when finalize is attempted on a run that has not
// been submitted.
type NotReadyError struct {
	ScreeningID id.ScreeningID
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("screening %s has not been submitted", e.ScreeningID)
}

func (e *NotReadyError) Unwrap() error {
	return dErrors.New(dErrors.CodeInvalidState, e.Error())
}

// Finalize persists a completed run with the person's contact details and
// notifies staff. It reuses the classification made at submission. A run
// that was already finalized returns the stored record and sends nothing.
// Notification failures are logged and never fail the call.
func (s *Service) Finalize(ctx context.Context, progress *models.Progress, contact models.Contact) (*models.Record, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "screening.Finalize", trace.WithAttributes(
		attribute.String("screening_id", progress.ID.String()),
		attribute.String("variant", string(progress.Variant)),
	))
	defer span.End()
	defer s.observeFinalize(start)

	if !progress.Completed {
		return nil, &NotReadyError{ScreeningID: progress.ID}
	}
	sub := progress.Submission
	if sub == nil {
		var err error
		sub, err = s.wizard.Submission(*progress, progress.Facts, progress.UpdatedAt)
		if err != nil {
			return nil, err
		}
	}

	source := models.NewSource(
		requestcontext.ClientIP(ctx),
		requestcontext.UserAgent(ctx),
		requestcontext.Referrer(ctx),
		requestcontext.RequestID(ctx),
	)
	record, err := models.NewRecord(*sub, contact, source, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	stored, created, err := s.records.Save(ctx, record)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "screening not recorded")
	}
	if !created {
		s.incrementDuplicate()
		s.logInfo(ctx, "screening already recorded",
			"screening_id", stored.ScreeningID,
			"record_id", stored.ID,
		)
		return stored, nil
	}

	c := stored.Classification
	s.recordClassification(stored)
	s.logInfo(ctx, "screening recorded",
		"screening_id", stored.ScreeningID,
		"record_id", stored.ID,
		"variant", stored.Variant,
		"risk", c.Risk,
		"probability", c.Probability,
		"flags", len(c.Flags),
		"verified", stored.Verified,
	)
	s.notify(ctx, stored)
	return stored, nil
}

// FinalizeByID loads a submitted run, finalizes it and discards the saved
// progress.
func (s *Service) FinalizeByID(ctx context.Context, screeningID id.ScreeningID, contact models.Contact) (*models.Record, error) {
	p, err := s.load(ctx, screeningID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		// progress is discarded after the first finalize
		existing, findErr := s.records.FindByScreeningID(ctx, screeningID)
		if findErr != nil {
			return nil, err
		}
		s.incrementDuplicate()
		return existing, nil
	}
	record, err := s.Finalize(ctx, p, contact)
	if err != nil {
		return nil, err
	}
	if err := s.progress.Delete(ctx, screeningID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logWarn(ctx, "failed to discard progress", "screening_id", screeningID, "error", err)
	}
	return record, nil
}

func (s *Service) notify(ctx context.Context, record *models.Record) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, record); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementNotificationFailure()
		}
		s.logWarn(ctx, "screening notification failed",
			"screening_id", record.ScreeningID,
			"record_id", record.ID,
			"error", err,
		)
	}
}

func (s *Service) recordClassification(r *models.Record) {
	if s.metrics == nil {
		return
	}
	flags := make([]string, len(r.Classification.Flags))
	for i, f := range r.Classification.Flags {
		flags[i] = string(f)
	}
	s.metrics.RecordClassification(string(r.Variant), string(r.Classification.Risk),
		string(r.Classification.Probability), flags)
}

func (s *Service) incrementDuplicate() {
	if s.metrics != nil {
		s.metrics.IncrementDuplicate()
	}
}

func (s *Service) observeFinalize(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveFinalize(start)
	}
}
