package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"lexscreen/internal/screening/intake"
)

// Overrides retune rule weights and risk thresholds without touching the
// predicates. Applying overrides replaces the rule-table version.
type Overrides struct {
	Version  string                              `yaml:"version"`
	Variants map[intake.Variant]VariantOverrides `yaml:"variants"`
}

// VariantOverrides apply to one rule table.
type VariantOverrides struct {
	Thresholds *Thresholds    `yaml:"thresholds,omitempty"`
	Weights    map[string]int `yaml:"weights,omitempty"`
}

// ParseOverrides decodes YAML overrides. Unknown keys are rejected.
func ParseOverrides(data []byte) (Overrides, error) {
	var o Overrides
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Overrides{}, fmt.Errorf("decode rule overrides: %w", err)
	}
	if len(o.Variants) > 0 && o.Version == "" {
		return Overrides{}, fmt.Errorf("rule overrides must declare a version")
	}
	for v := range o.Variants {
		if _, err := intake.ParseVariant(string(v)); err != nil {
			return Overrides{}, fmt.Errorf("rule overrides: %w", err)
		}
	}
	return o, nil
}

// LoadOverrides reads overrides from a YAML file.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read rule overrides: %w", err)
	}
	return ParseOverrides(data)
}

// apply returns a copy of t with o applied. Weights naming a rule the table
// does not have are an error.
func apply[F any](t *Table[F], version string, o VariantOverrides) (*Table[F], error) {
	out := t.clone()
	out.Version = version
	if o.Thresholds != nil {
		out.Thresholds = *o.Thresholds
	}
	index := make(map[string]int, len(out.Rules))
	for i, r := range out.Rules {
		index[r.ID] = i
	}
	for id, weight := range o.Weights {
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%s overrides: unknown rule %q", t.Variant, id)
		}
		out.Rules[i].Effect.Risk = weight
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}
