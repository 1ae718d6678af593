package present

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	id "lexscreen/pkg/domain"
)

func TestCatalogueCoversEveryRule(t *testing.T) {
	catalogue := MustLoadCatalogue()
	classifier := rules.MustNew()

	for _, v := range intake.Variants() {
		info, err := classifier.Describe(v)
		require.NoError(t, err)
		for _, r := range info.Rules {
			if r.Effect.Guidance != "" {
				assert.True(t, catalogue.Has(r.Effect.Guidance), "guidance %s of rule %s", r.Effect.Guidance, r.ID)
			}
			if r.Effect.Remedy != "" {
				assert.Contains(t, remedyTitles, r.Effect.Remedy, "rule %s", r.ID)
			}
			if r.Effect.Flag != "" {
				assert.Contains(t, flagTitles, r.Effect.Flag, "rule %s", r.ID)
			}
		}
	}
}

func TestParseGuidance(t *testing.T) {
	t.Run("splits on level two headings", func(t *testing.T) {
		texts, err := parseGuidance([]byte("# title\nintro\n\n## a\n\nfirst\n\n## b\nsecond **bold**\n"))
		require.NoError(t, err)
		assert.Equal(t, map[rules.GuidanceCode]string{"a": "first", "b": "second **bold**"}, texts)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := parseGuidance([]byte("## a\none\n## a\ntwo\n"))
		assert.ErrorContains(t, err, "duplicate")
	})
}

func TestMarkdownLanguageFallback(t *testing.T) {
	c := &Catalogue{texts: map[string]map[rules.GuidanceCode]string{
		"en": {"x": "english", "y": "only english"},
		"es": {"x": "español"},
	}}
	md, ok := c.Markdown("x", "es-MX")
	require.True(t, ok)
	assert.Equal(t, "español", md)

	md, ok = c.Markdown("y", "es")
	require.True(t, ok)
	assert.Equal(t, "only english", md)

	md, _ = c.Markdown("x", "")
	assert.Equal(t, "english", md)

	_, ok = c.Markdown("z", "en")
	assert.False(t, ok)
}

func submission() models.Submission {
	return models.Submission{
		ScreeningID: id.NewScreeningID(),
		Variant:     intake.VariantWaiver,
		Classification: rules.Classification{
			Variant:     intake.VariantWaiver,
			Remedies:    []rules.RemedyCode{rules.RemedyProvisionalWaiver},
			Probability: rules.ProbabilityModerate,
			Risk:        rules.RiskModerate,
			RiskScore:   3,
			Flags:       []rules.FlagCode{rules.FlagPresenceAccrued, rules.FlagMisrepresentation, rules.FlagWeakHardship},
			Guidance:    []rules.GuidanceCode{rules.GuidanceDoNotDepart, "retired_code"},
			FiredRules:  []string{"bar.presence_accrued", "waiver.provisional"},
			RuleVersion: "2026.10-1",
		},
		Unanswered: []intake.FieldKey{"hardship.factors", "financial.household_income"},
	}
}

func TestSubmitterView(t *testing.T) {
	p := New(MustLoadCatalogue())
	v := p.Submitter(submission(), "en")

	assert.Equal(t, rules.ProbabilityModerate, v.Probability)
	assert.NotEmpty(t, v.ProbabilityLabel)
	require.Len(t, v.Remedies, 1)
	assert.Equal(t, "Provisional unlawful presence waiver (Form I-601A)", v.Remedies[0].Title)

	require.Len(t, v.Guidance, 1, "unknown guidance codes are skipped")
	assert.Equal(t, rules.GuidanceDoNotDepart, v.Guidance[0].Code)
	assert.Contains(t, v.Guidance[0].HTML, "<strong>Do not leave the United States</strong>")
	assert.Equal(t, 2, v.UnansweredCount)
	assert.NotEmpty(t, v.Disclaimer)
}

func TestStaffView(t *testing.T) {
	sub := submission()
	r, err := models.NewRecord(sub, models.Contact{Name: "Ana", Phone: "+1 555 0100"}, models.Source{}, time.Now())
	require.NoError(t, err)

	v := New(MustLoadCatalogue()).Staff(r)
	assert.Equal(t, 3, v.RiskScore)
	assert.Equal(t, 2, v.UnansweredCount)
	assert.False(t, v.Verified)
	assert.Equal(t, sub.Classification.FiredRules, v.FiredRules)

	require.Len(t, v.Flags, 3)
	assert.Equal(t, SeverityHigh, v.Flags[0].Severity)
	assert.Equal(t, rules.CategoryBar, v.Flags[0].Category)
	assert.Equal(t, SeverityCritical, v.Flags[1].Severity)
	assert.True(t, v.Flags[1].ForcesReview)
	assert.Equal(t, SeverityNotice, v.Flags[2].Severity)
}

func TestSummaries(t *testing.T) {
	r, err := models.NewRecord(submission(), models.Contact{Name: "Ana", Email: "ana@example.test"}, models.Source{}, time.Now())
	require.NoError(t, err)

	out := New(MustLoadCatalogue()).Summaries([]*models.Record{r})
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].FlagCount)
	assert.Equal(t, "Ana", out[0].ContactName)
	assert.Empty(t, New(MustLoadCatalogue()).Summaries(nil))
}
