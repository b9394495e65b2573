package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ecotrack",
	Short: "ESG scoring and BRSR readiness engine",
	Long:  "Computes pillar and overall ESG scores from metric snapshots, evaluates BRSR disclosure readiness, and keeps the remediation task backlog in sync.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
