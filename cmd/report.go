package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/completeness"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/report"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <company-id> <period>",
	Short: "Export scores and readiness to an xlsx workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		companyID, period := args[0], args[1]

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		in := report.Input{Period: period}

		in.Company, err = st.GetCompany(ctx, companyID)
		if err != nil {
			return err
		}

		// Scores are optional in the workbook: a company with missing
		// pillars still gets the readiness and completeness sheets.
		in.Score, err = eng.ComputeScores(ctx, companyID, period)
		if err != nil {
			zap.L().Warn("report without scores", zap.String("company_id", companyID), zap.Error(err))
		}

		in.Readiness, err = eng.Readiness(ctx, companyID, period)
		if err != nil {
			return err
		}

		byPillar, err := eng.Completeness(ctx, companyID, period)
		if err != nil {
			return err
		}
		in.Completeness = make(map[model.Pillar]completeness.Result, len(byPillar))
		for p, pc := range byPillar {
			in.Completeness[p] = pc.Result
		}

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("%s-%s.xlsx", companyID, period)
		}
		if err := report.Write(out, in); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output path (default <company>-<period>.xlsx)")
	rootCmd.AddCommand(reportCmd)
}
