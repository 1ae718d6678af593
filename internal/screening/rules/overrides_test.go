package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexscreen/internal/screening/intake"
)

const overridesYAML = `
version: 2026.10-firm
variants:
  waiver:
    thresholds:
      moderate: 3
      high: 8
    weights:
      bar.ten_year: 4
`

func TestParseOverrides(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		o, err := ParseOverrides([]byte(overridesYAML))
		require.NoError(t, err)
		assert.Equal(t, "2026.10-firm", o.Version)
		require.Contains(t, o.Variants, intake.VariantWaiver)
		assert.Equal(t, 4, o.Variants[intake.VariantWaiver].Weights["bar.ten_year"])
	})

	t.Run("empty document", func(t *testing.T) {
		o, err := ParseOverrides(nil)
		require.NoError(t, err)
		assert.Empty(t, o.Variants)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseOverrides([]byte("version: x\nthreshold: 3\n"))
		assert.Error(t, err)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := ParseOverrides([]byte("version: x\nvariants:\n  asylum: {}\n"))
		assert.Error(t, err)
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := ParseOverrides([]byte("variants:\n  work: {}\n"))
		assert.ErrorContains(t, err, "version")
	})
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overridesYAML), 0o600))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "2026.10-firm", o.Version)

	_, err = LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestClassifierWithOverrides(t *testing.T) {
	o, err := ParseOverrides([]byte(overridesYAML))
	require.NoError(t, err)
	c, err := New(WithOverrides(o))
	require.NoError(t, err)

	f := factsOf(t, intake.VariantWaiver, answers{
		"history.unlawful_presence": intake.Pick(intake.PresenceOneYearOrMore),
		"departure.departed":        intake.Bool(true),
	})
	got := c.Classify(f)
	assert.Equal(t, 4, got.RiskScore)
	assert.Equal(t, RiskModerate, got.Risk)
	assert.Equal(t, "2026.10-firm", got.RuleVersion)

	// untouched variants keep the default version
	assert.Equal(t, MustNew().Version(intake.VariantWork), c.Version(intake.VariantWork))

	// defaults are not mutated
	assert.Equal(t, 2, MustNew().Classify(f).RiskScore)

	t.Run("unknown rule id", func(t *testing.T) {
		_, err := New(WithOverrides(Overrides{
			Version:  "bad",
			Variants: map[intake.Variant]VariantOverrides{intake.VariantWork: {Weights: map[string]int{"work.nope": 1}}},
		}))
		assert.ErrorContains(t, err, "unknown rule")
	})

	t.Run("invalid thresholds", func(t *testing.T) {
		_, err := New(WithOverrides(Overrides{
			Version:  "bad",
			Variants: map[intake.Variant]VariantOverrides{intake.VariantWork: {Thresholds: &Thresholds{Moderate: 4, High: 2}}},
		}))
		assert.Error(t, err)
	})

	t.Run("review override survives zeroed weights", func(t *testing.T) {
		c, err := New(WithOverrides(Overrides{
			Version: "zero",
			Variants: map[intake.Variant]VariantOverrides{intake.VariantWaiver: {Weights: map[string]int{
				"criminal.conviction": 0,
			}}},
		}))
		require.NoError(t, err)
		got := c.Classify(factsOf(t, intake.VariantWaiver, answers{"criminal.convictions": intake.Bool(true)}))
		assert.Equal(t, 0, got.RiskScore)
		assert.Equal(t, ProbabilityAttorneyReview, got.Probability)
	})
}
