package rules

import (
	"fmt"

	"lexscreen/internal/screening/intake"
)

// Classifier holds one rule table per variant. It is immutable once built and
// safe for concurrent use.
type Classifier struct {
	waiver   *Table[intake.WaiverFacts]
	petition *Table[intake.PetitionFacts]
	work     *Table[intake.WorkFacts]
}

// Option configures a Classifier.
type Option func(*classifierConfig)

type classifierConfig struct {
	overrides *Overrides
}

// WithOverrides retunes the default tables.
func WithOverrides(o Overrides) Option {
	return func(c *classifierConfig) {
		c.overrides = &o
	}
}

// New builds a classifier over the default tables.
func New(opts ...Option) (*Classifier, error) {
	var cfg classifierConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Classifier{
		waiver:   WaiverTable(),
		petition: PetitionTable(),
		work:     WorkTable(),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if cfg.overrides == nil {
		return c, nil
	}

	o := cfg.overrides
	version := func(v intake.Variant, base string) string {
		if _, ok := o.Variants[v]; ok {
			return o.Version
		}
		return base
	}
	var err error
	if c.waiver, err = apply(c.waiver, version(intake.VariantWaiver, c.waiver.Version), o.Variants[intake.VariantWaiver]); err != nil {
		return nil, err
	}
	if c.petition, err = apply(c.petition, version(intake.VariantPetition, c.petition.Version), o.Variants[intake.VariantPetition]); err != nil {
		return nil, err
	}
	if c.work, err = apply(c.work, version(intake.VariantWork, c.work.Version), o.Variants[intake.VariantWork]); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New for the default tables; it panics on a malformed table.
func MustNew() *Classifier {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Classifier) validate() error {
	if err := c.waiver.validate(); err != nil {
		return err
	}
	if err := c.petition.validate(); err != nil {
		return err
	}
	return c.work.validate()
}

// Classify evaluates the table of the facts' variant. It is total: facts of
// an unknown variant yield an empty low-risk classification.
func (c *Classifier) Classify(f intake.Facts) Classification {
	switch f.Variant() {
	case intake.VariantWaiver:
		return c.waiver.Evaluate(intake.Waiver(f))
	case intake.VariantPetition:
		return c.petition.Evaluate(intake.Petition(f))
	case intake.VariantWork:
		return c.work.Evaluate(intake.Work(f))
	}
	return Classification{
		Variant:     f.Variant(),
		Remedies:    []RemedyCode{},
		Flags:       []FlagCode{},
		Guidance:    []GuidanceCode{},
		FiredRules:  []string{},
		Risk:        RiskLow,
		Probability: ProbabilityHigh,
	}
}

// TableInfo describes a variant's table for audit and the CLI.
type TableInfo struct {
	Variant    intake.Variant `json:"variant"`
	Version    string         `json:"version"`
	Thresholds Thresholds     `json:"thresholds"`
	Rules      []RuleInfo     `json:"rules"`
}

// Describe returns the rule table of a variant.
func (c *Classifier) Describe(v intake.Variant) (TableInfo, error) {
	switch v {
	case intake.VariantWaiver:
		return describe(c.waiver), nil
	case intake.VariantPetition:
		return describe(c.petition), nil
	case intake.VariantWork:
		return describe(c.work), nil
	}
	return TableInfo{}, fmt.Errorf("no rule table for variant %q", v)
}

// Version returns the rule-table version of a variant.
func (c *Classifier) Version(v intake.Variant) string {
	info, err := c.Describe(v)
	if err != nil {
		return ""
	}
	return info.Version
}

func describe[F any](t *Table[F]) TableInfo {
	return TableInfo{Variant: t.Variant, Version: t.Version, Thresholds: t.Thresholds, Rules: t.Describe()}
}
