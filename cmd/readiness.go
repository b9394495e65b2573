package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/compliance"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

var readinessJSON bool

var readinessCmd = &cobra.Command{
	Use:   "readiness <company-id> <period>",
	Short: "Evaluate BRSR disclosure readiness",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		res, err := eng.Readiness(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		if readinessJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		formatReadiness(res)
		return nil
	},
}

func formatReadiness(res *compliance.ReadinessResult) {
	fmt.Printf("Overall readiness: %d%%\n\n", res.OverallPercent)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PILLAR\tCOVERED\tSTATUS\tMISSING")
	for _, p := range model.Pillars() {
		pr := res.Pillars[p]
		fmt.Fprintf(w, "%s\t%d/%d\t%s\t%d\n", p.Label(), pr.Covered, pr.Total, pr.Status, len(pr.Missing))
	}
	w.Flush()

	if len(res.NextSteps) == 0 {
		return
	}
	fmt.Println("\nNext steps:")
	for i, s := range res.NextSteps {
		marker := ""
		if s.Mandatory {
			marker = " [mandatory]"
		}
		fmt.Printf("  %d. %s%s\n", i+1, s.Action, marker)
	}
}

func init() {
	readinessCmd.Flags().BoolVar(&readinessJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(readinessCmd)
}
