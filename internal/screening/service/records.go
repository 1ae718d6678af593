package service

import (
	"context"
	"errors"

	"github.com/montanaflynn/stats"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/sentinel"
)

// GetRecord fetches one record for staff.
func (s *Service) GetRecord(ctx context.Context, recordID id.RecordID) (*models.Record, error) {
	r, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return r, nil
}

// ListRecords returns records newest first.
func (s *Service) ListRecords(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error) {
	records, err := s.records.List(ctx, filter.Normalize())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	return records, nil
}

// statsSample bounds how many records feed the statistics.
const statsSample = models.MaxRecordLimit

// Stats summarises recent risk scores per variant.
func (s *Service) Stats(ctx context.Context) ([]models.VariantStats, error) {
	out := make([]models.VariantStats, 0, len(intake.Variants()))
	for _, v := range intake.Variants() {
		records, err := s.records.List(ctx, models.RecordFilter{Variant: v, Limit: statsSample})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
		}
		st, err := summarize(v, records)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute statistics")
		}
		out = append(out, st)
	}
	return out, nil
}

func summarize(v intake.Variant, records []*models.Record) (models.VariantStats, error) {
	st := models.VariantStats{Variant: v, SampleSize: len(records), ByRisk: map[rules.RiskLevel]int{}}
	if len(records) == 0 {
		return st, nil
	}
	scores := make(stats.Float64Data, len(records))
	for i, r := range records {
		scores[i] = float64(r.Classification.RiskScore)
		st.ByRisk[r.Classification.Risk]++
		if r.Classification.Probability == rules.ProbabilityAttorneyReview {
			st.ReviewRequired++
		}
	}
	var err error
	if st.MeanRiskScore, err = scores.Mean(); err != nil {
		return st, err
	}
	if st.MedianRiskScore, err = scores.Median(); err != nil {
		return st, err
	}
	if st.P90RiskScore, err = scores.Percentile(90); err != nil {
		return st, err
	}
	return st, nil
}
