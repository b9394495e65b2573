package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/engine"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
)

const (
	seedCompanyID = "demo-co"
	seedPeriod    = "2024-25"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo company with snapshots and evidence",
	Long:  "Creates a demo company, one metric snapshot per pillar and two evidence documents so score, readiness and task sync can be exercised end to end.",
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

		if err := seedDemoData(ctx, eng, st); err != nil {
			return err
		}
		fmt.Printf("Seeded company %q, period %q.\n", seedCompanyID, seedPeriod)
		fmt.Printf("Try: ecotrack score %s %s\n", seedCompanyID, seedPeriod)
		return nil
	},
}

func seedDemoData(ctx context.Context, eng *engine.Engine, st store.Store) error {
	now := time.Now().UTC()
	if err := st.UpsertCompany(ctx, model.CompanyProfile{
		ID:            seedCompanyID,
		Name:          "Meridian Apparel Pvt Ltd",
		Industry:      "textiles",
		PlanTier:      model.PlanTierGrowth,
		EmployeeCount: 150,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		return err
	}

	// The environmental snapshot deliberately uses legacy field names to
	// exercise alias normalization at ingestion.
	if _, err := eng.RecordSnapshot(ctx, seedCompanyID, seedPeriod, model.PillarEnvironmental, map[string]any{
		"energyConsumptionKwh": 45000.0,
		"renewablePercent":     20.0,
		"waterUsageKl":         900.0,
		"totalWasteKg":         6000.0,
		"co2EmissionsTonnes":   280.0,
	}); err != nil {
		return err
	}
	if _, err := eng.RecordSnapshot(ctx, seedCompanyID, seedPeriod, model.PillarSocial, map[string]any{
		"totalEmployees":     150.0,
		"femaleEmployees":    48.0,
		"totalTrainingHours": 2100.0,
		"safetyIncidents":    1.0,
		"attritionRate":      9.0,
	}); err != nil {
		return err
	}
	if _, err := eng.RecordSnapshot(ctx, seedCompanyID, seedPeriod, model.PillarGovernance, map[string]any{
		"boardSize":            5.0,
		"independentDirectors": 3.0,
		"antiBriberyPolicy":    true,
		"dataPrivacyPolicy":    true,
		"regulatoryViolations": 0.0,
	}); err != nil {
		return err
	}

	expiry := now.Add(21 * 24 * time.Hour)
	if _, err := eng.AddEvidence(ctx, seedCompanyID, "ISO 14001 certificate", "iso14001.pdf", &expiry); err != nil {
		return err
	}
	if _, err := eng.AddEvidence(ctx, seedCompanyID, "POSH policy", "posh-policy.pdf", nil); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
