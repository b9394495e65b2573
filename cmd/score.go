package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score <company-id> <period>",
	Short: "Compute ESG scores for a company and period",
	Long:  "Computes environmental, social, governance and overall scores from the latest metric snapshots, persists the result and prints it as JSON.",
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

		res, err := eng.ComputeScores(ctx, companyID, period)
		if err != nil {
			return err
		}
		if err := st.UpsertScore(ctx, res); err != nil {
			return err
		}
		zap.L().Info("scores computed",
			zap.String("company_id", companyID),
			zap.String("period", period),
			zap.Float64("overall", res.Overall))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
