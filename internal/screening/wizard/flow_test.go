package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
)

func stepIDs(steps []Step) []models.StepID {
	out := make([]models.StepID, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func TestFlowsCoverEverySchemaField(t *testing.T) {
	for _, fl := range Flows() {
		schema, ok := intake.SchemaFor(fl.Variant)
		require.True(t, ok)
		var collected []intake.FieldKey
		for _, s := range fl.Steps {
			collected = append(collected, s.Fields...)
		}
		assert.ElementsMatch(t, schema.Keys(), collected, fl.Variant)
	}
}

func TestApplicableSteps(t *testing.T) {
	petition, ok := FlowFor(intake.VariantPetition)
	require.True(t, ok)

	empty := intake.New(intake.VariantPetition)
	assert.Equal(t, []models.StepID{
		StepPetitioner, StepRelationship, StepLocation, StepHistory, StepFraud, StepCriminal, StepFinancial,
	}, stepIDs(petition.ApplicableSteps(empty)))

	spouse, err := empty.Merge(map[intake.FieldKey]intake.Answer{
		"beneficiary.relationship": intake.Pick(intake.RelationSpouse),
		"history.prior_removal":    intake.Bool(true),
	})
	require.NoError(t, err)
	assert.Equal(t, []models.StepID{
		StepPetitioner, StepRelationship, StepMarriage, StepLocation, StepHistory,
		StepRemovalDetails, StepFraud, StepCriminal, StepFinancial,
	}, stepIDs(petition.ApplicableSteps(spouse)))
}

func TestEffectiveAndUnanswered(t *testing.T) {
	work, ok := FlowFor(intake.VariantWork)
	require.True(t, ok)

	f, err := intake.New(intake.VariantWork).Merge(map[intake.FieldKey]intake.Answer{
		"employment.employer_type":           intake.Pick(intake.EmployerUSCompany),
		"multinational.years_with_affiliate": intake.Number(3),
		"achievements.claimed":               intake.Bool(true),
		"achievements.criteria":              intake.Tags(intake.AchievementAwards),
	})
	require.NoError(t, err)

	eff := work.Effective(f)
	assert.False(t, eff.Answered("multinational.years_with_affiliate"))
	assert.True(t, eff.Answered("achievements.criteria"))
	assert.True(t, f.Answered("multinational.years_with_affiliate"), "stored facts are untouched")

	unanswered := work.Unanswered(f)
	assert.Contains(t, unanswered, intake.FieldKey("achievements.major_award"))
	assert.NotContains(t, unanswered, intake.FieldKey("multinational.managerial"))
	assert.NotContains(t, unanswered, intake.FieldKey("employment.employer_type"))
}
