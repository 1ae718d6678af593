package rules

import (
	"fmt"

	"lexscreen/internal/screening/intake"
)

// Effect is what a rule contributes when its predicate holds. Empty codes
// contribute nothing.
type Effect struct {
	Remedy   RemedyCode   `json:"remedy,omitempty" yaml:"remedy,omitempty"`
	Flag     FlagCode     `json:"flag,omitempty" yaml:"flag,omitempty"`
	Risk     int          `json:"risk" yaml:"risk"`
	Guidance GuidanceCode `json:"guidance,omitempty" yaml:"guidance,omitempty"`
}

// Rule pairs a predicate over a typed fact view with an effect. Predicates
// must fire only on answered facts: an unknown field never satisfies them.
type Rule[F any] struct {
	ID     string
	Group  string
	When   func(F) bool
	Effect Effect
}

// Thresholds bucket the risk score. Both bounds are inclusive:
// score >= High is high risk, score >= Moderate is moderate.
type Thresholds struct {
	Moderate int `json:"moderate" yaml:"moderate"`
	High     int `json:"high" yaml:"high"`
}

func (t Thresholds) Bucket(score int) RiskLevel {
	switch {
	case score >= t.High:
		return RiskHigh
	case score >= t.Moderate:
		return RiskModerate
	default:
		return RiskLow
	}
}

func (t Thresholds) validate() error {
	if t.Moderate <= 0 || t.High <= t.Moderate {
		return fmt.Errorf("thresholds must satisfy 0 < moderate < high, got moderate=%d high=%d", t.Moderate, t.High)
	}
	return nil
}

// Table is the ordered rule list of one variant plus its bucketing data.
// Rule order is severity order: it fixes the display order of flags and guidance.
type Table[F any] struct {
	Variant    intake.Variant
	Version    string
	Rules      []Rule[F]
	Thresholds Thresholds
}

// RuleInfo is the auditable description of a rule.
type RuleInfo struct {
	ID     string `json:"id"`
	Group  string `json:"group"`
	Effect Effect `json:"effect"`
}

// Describe lists the table's rules in evaluation order.
func (t *Table[F]) Describe() []RuleInfo {
	out := make([]RuleInfo, len(t.Rules))
	for i, r := range t.Rules {
		out[i] = RuleInfo{ID: r.ID, Group: r.Group, Effect: r.Effect}
	}
	return out
}

// Evaluate runs every rule against facts and aggregates the effects. It has
// no error path and no side effects.
func (t *Table[F]) Evaluate(facts F) Classification {
	c := Classification{
		Variant:     t.Variant,
		Remedies:    []RemedyCode{},
		Flags:       []FlagCode{},
		Guidance:    []GuidanceCode{},
		FiredRules:  []string{},
		RuleVersion: t.Version,
	}
	seenRemedy := map[RemedyCode]bool{}
	seenFlag := map[FlagCode]bool{}
	seenGuidance := map[GuidanceCode]bool{}

	for _, r := range t.Rules {
		if !r.When(facts) {
			continue
		}
		c.FiredRules = append(c.FiredRules, r.ID)
		c.RiskScore += r.Effect.Risk
		if code := r.Effect.Remedy; code != "" && !seenRemedy[code] {
			seenRemedy[code] = true
			c.Remedies = append(c.Remedies, code)
		}
		if code := r.Effect.Flag; code != "" && !seenFlag[code] {
			seenFlag[code] = true
			c.Flags = append(c.Flags, code)
		}
		if code := r.Effect.Guidance; code != "" && !seenGuidance[code] {
			seenGuidance[code] = true
			c.Guidance = append(c.Guidance, code)
		}
	}

	c.Risk = t.Thresholds.Bucket(c.RiskScore)
	c.Probability = probability(c)
	return c
}

// probability applies the review override before the risk bucket.
func probability(c Classification) Probability {
	if c.ReviewForced() {
		return ProbabilityAttorneyReview
	}
	if c.Risk == RiskLow {
		return ProbabilityHigh
	}
	return ProbabilityModerate
}

// validate checks ids are unique, predicates are set, and flags are catalogued.
func (t *Table[F]) validate() error {
	if err := t.Thresholds.validate(); err != nil {
		return fmt.Errorf("%s rules: %w", t.Variant, err)
	}
	seen := make(map[string]bool, len(t.Rules))
	for _, r := range t.Rules {
		if r.ID == "" || r.When == nil {
			return fmt.Errorf("%s rules: rule %q is missing an id or predicate", t.Variant, r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("%s rules: duplicate rule id %q", t.Variant, r.ID)
		}
		seen[r.ID] = true
		if r.Effect.Flag != "" {
			if _, ok := Flag(r.Effect.Flag); !ok {
				return fmt.Errorf("%s rules: rule %q raises uncatalogued flag %q", t.Variant, r.ID, r.Effect.Flag)
			}
		}
		if r.Effect.Risk < 0 {
			return fmt.Errorf("%s rules: rule %q has negative risk", t.Variant, r.ID)
		}
	}
	return nil
}

// clone copies the table so overrides never mutate a shared default.
func (t *Table[F]) clone() *Table[F] {
	out := *t
	out.Rules = append([]Rule[F](nil), t.Rules...)
	return &out
}
