package record

import (
	"time"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	id "lexscreen/pkg/domain"
)

var classifier = rules.MustNew()

// newRecord builds a waiver record for someone who overstayed and has a
// citizen spouse.
func newRecord(submittedAt time.Time) *models.Record {
	facts, err := intake.New(intake.VariantWaiver).Merge(map[intake.FieldKey]intake.Answer{
		"location.inside_us":        intake.Bool(true),
		"location.entry_type":       intake.Pick(intake.EntryInspected),
		"family.citizen_spouse":     intake.Bool(true),
		"history.overstayed":        intake.Bool(true),
		"history.unlawful_presence": intake.Pick(intake.PresenceOneYearOrMore),
		"departure.departed":        intake.Bool(false),
	})
	if err != nil {
		panic(err)
	}
	return &models.Record{
		ID:             id.NewRecordID(),
		ScreeningID:    id.NewScreeningID(),
		Variant:        intake.VariantWaiver,
		Facts:          facts,
		Classification: classifier.Classify(facts),
		Unanswered:     []intake.FieldKey{"hardship.factors"},
		Contact:        models.Contact{Name: "Ana Diaz", Email: "ana@example.test"},
		Source:         models.Source{IPAddress: "203.0.113.9", RequestID: "req-1"},
		StartedAt:      submittedAt.Add(-10 * time.Minute),
		SubmittedAt:    submittedAt,
	}
}

func withRisk(r *models.Record, risk rules.RiskLevel, variant intake.Variant) *models.Record {
	r.Variant = variant
	r.Classification.Variant = variant
	r.Classification.Risk = risk
	return r
}
