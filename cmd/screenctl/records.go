package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lexscreen/internal/platform/config"
	"lexscreen/internal/platform/postgres"
	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	"lexscreen/internal/screening/store/record"
)

func (c *cli) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect stored screening records",
	}
	cmd.AddCommand(c.recordsListCmd())
	return cmd
}

func (c *cli) recordsListCmd() *cobra.Command {
	var (
		variant string
		risk    string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := models.RecordFilter{Risk: rules.RiskLevel(risk), Limit: limit}
			if variant != "" {
				v, err := intake.ParseVariant(variant)
				if err != nil {
					return err
				}
				filter.Variant = v
			}
			url := c.v.GetString("database_url")
			if url == "" {
				return errors.New("records list needs --database-url or LEXSCREEN_DATABASE_URL")
			}
			ctx := cmd.Context()
			db, err := postgres.Open(ctx, config.Database{URL: url, MaxOpenConns: 2})
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := record.NewPostgres(db).List(ctx, filter)
			if err != nil {
				return err
			}
			if c.jsonOutput() {
				return writeJSON(c.out, records)
			}
			return printRecords(c.out, records)
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "only this variant")
	cmd.Flags().StringVar(&risk, "risk", "", "only this risk level: low, moderate or high")
	cmd.Flags().IntVar(&limit, "limit", models.DefaultRecordLimit, "maximum records")
	return cmd
}

func printRecords(out io.Writer, records []*models.Record) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMITTED\tRECORD\tVARIANT\tRISK\tSCORE\tFLAGS\tVERIFIED\tCONTACT")
	for _, r := range records {
		c := r.Classification
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%t\t%s\n",
			r.SubmittedAt.Format(time.RFC3339), r.ID, r.Variant, c.Risk, c.RiskScore, len(c.Flags), r.Verified, r.Contact.Name)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
