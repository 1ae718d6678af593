package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lexscreen/internal/screening/intake"
)

func (c *cli) rulesCmd() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print a variant's rule table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := intake.ParseVariant(variant)
			if err != nil {
				return err
			}
			classifier, err := c.classifier()
			if err != nil {
				return err
			}
			info, err := classifier.Describe(v)
			if err != nil {
				return err
			}
			if c.jsonOutput() {
				return writeJSON(c.out, info)
			}
			fmt.Fprintf(c.out, "%s rules, version %s (moderate >= %d, high >= %d)\n\n",
				info.Variant, info.Version, info.Thresholds.Moderate, info.Thresholds.High)
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tGROUP\tRISK\tREMEDY\tFLAG\tGUIDANCE")
			for _, r := range info.Rules {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
					r.ID, r.Group, r.Effect.Risk, dash(string(r.Effect.Remedy)), dash(string(r.Effect.Flag)), dash(string(r.Effect.Guidance)))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "screening variant: waiver, petition or work")
	_ = cmd.MarkFlagRequired("variant")
	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
