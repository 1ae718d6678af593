package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/rules"
)

func (c *cli) classifyCmd() *cobra.Command {
	var variant, factsFile string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify answers from a YAML file",
		Long: `Classify reads a YAML mapping of field keys to answers and prints the
classification. Fields left out stay unknown.

  location.inside_us: true
  history.unlawful_presence: 1y+
  hardship.factors: [medical]`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := intake.ParseVariant(variant)
			if err != nil {
				return err
			}
			facts, err := readFacts(v, factsFile)
			if err != nil {
				return err
			}
			classifier, err := c.classifier()
			if err != nil {
				return err
			}
			result := classifier.Classify(facts)
			if c.jsonOutput() {
				return writeJSON(c.out, result)
			}
			return printClassification(c, result)
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "screening variant: waiver, petition or work")
	cmd.Flags().StringVar(&factsFile, "facts", "", "YAML file of answers")
	_ = cmd.MarkFlagRequired("variant")
	_ = cmd.MarkFlagRequired("facts")
	return cmd
}

// readFacts converts YAML values to their JSON form so answers go through the
// same schema parsing as the HTTP API.
func readFacts(v intake.Variant, path string) (intake.Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return intake.Facts{}, fmt.Errorf("read facts: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return intake.Facts{}, fmt.Errorf("decode facts: %w", err)
	}
	raw := make(map[string]json.RawMessage, len(doc))
	for key, value := range doc {
		b, err := json.Marshal(value)
		if err != nil {
			return intake.Facts{}, fmt.Errorf("facts field %s: %w", key, err)
		}
		raw[key] = b
	}
	schema, ok := intake.SchemaFor(v)
	if !ok {
		return intake.Facts{}, fmt.Errorf("no schema for %s", v)
	}
	answers, err := schema.ParseAnswers(raw)
	if err != nil {
		return intake.Facts{}, err
	}
	return intake.New(v).Merge(answers)
}

func printClassification(c *cli, r rules.Classification) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "variant\t%s\n", r.Variant)
	fmt.Fprintf(w, "rule version\t%s\n", r.RuleVersion)
	fmt.Fprintf(w, "probability\t%s\n", r.Probability)
	fmt.Fprintf(w, "risk\t%s (score %d)\n", r.Risk, r.RiskScore)
	fmt.Fprintf(w, "remedies\t%s\n", joinOrDash(r.Remedies))
	fmt.Fprintf(w, "flags\t%s\n", joinOrDash(r.Flags))
	fmt.Fprintf(w, "guidance\t%s\n", joinOrDash(r.Guidance))
	fmt.Fprintf(w, "fired rules\t%s\n", joinOrDash(r.FiredRules))
	return w.Flush()
}

func joinOrDash[T ~string](values []T) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
