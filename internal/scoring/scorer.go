// Package scoring turns one period's pillar snapshots and company
// profile into four 0-100 ESG scores. All functions are pure and safe
// for concurrent use; snapshots are expected to be normalized
// (model.NormalizeFields) before they get here.
package scoring

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// Pillar weights for the overall score.
const (
	weightEnvironmental = 0.4
	weightSocial        = 0.3
	weightGovernance    = 0.3
)

// Input bundles everything the calculator needs for one company+period.
type Input struct {
	CompanyID     string
	Period        string
	Environmental *model.MetricSnapshot
	Social        *model.MetricSnapshot
	Governance    *model.MetricSnapshot
	Company       *model.CompanyProfile
}

// Compute calculates the four scores for one period. It returns a
// *MissingMetricsError when any pillar snapshot is nil and a
// *ComputationError when a score comes out NaN or infinite. A missing or
// invalid employee count is recovered locally: fallbackEmployees is
// substituted, the substitution is logged and recorded on
// ScoreResult.Warnings.
func Compute(in Input, fallbackEmployees int) (*model.ScoreResult, error) {
	var missing []model.Pillar
	if in.Environmental == nil {
		missing = append(missing, model.PillarEnvironmental)
	}
	if in.Social == nil {
		missing = append(missing, model.PillarSocial)
	}
	if in.Governance == nil {
		missing = append(missing, model.PillarGovernance)
	}
	if len(missing) > 0 {
		return nil, &MissingMetricsError{CompanyID: in.CompanyID, Period: in.Period, Pillars: missing}
	}

	var warnings []string
	employees := fallbackEmployees
	if in.Company.HasValidEmployeeCount() {
		employees = in.Company.EmployeeCount
	} else {
		warnings = append(warnings,
			fmt.Sprintf("company profile has no valid employee count; using fallback of %d for per-employee normalization", fallbackEmployees))
		zap.L().Warn("scoring: invalid company profile, substituting fallback employee count",
			zap.String("company_id", in.CompanyID),
			zap.Int("fallback", fallbackEmployees),
		)
	}

	env := scoreEnvironmental(in.Environmental, employees)
	soc := scoreSocial(in.Social, employees)
	gov := scoreGovernance(in.Governance)
	overall := round1(weightEnvironmental*env + weightSocial*soc + weightGovernance*gov)

	for _, v := range []float64{env, soc, gov, overall} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ComputationError{
				CompanyID: in.CompanyID,
				Period:    in.Period,
				Detail:    "score is not a finite number",
			}
		}
	}

	return &model.ScoreResult{
		CompanyID:     in.CompanyID,
		Period:        in.Period,
		Environmental: env,
		Social:        soc,
		Governance:    gov,
		Overall:       overall,
		Warnings:      warnings,
		ComputedAt:    time.Now().UTC(),
	}, nil
}

// scoreEnvironmental starts at 100 and applies banded per-employee
// penalties and bonuses for the four consumption metrics, plus a direct
// additive renewable-energy term.
func scoreEnvironmental(snap *model.MetricSnapshot, employees int) float64 {
	score := 100.0

	if v, ok := snap.Number("electricityUsageKwh"); ok {
		score += usageAdjustment(v, employees, 500, 300, 150)
	}
	if v, ok := snap.Number("wasteGeneratedKg"); ok {
		score += usageAdjustment(v, employees, 200, 100, 50)
	}
	if v, ok := snap.Number("waterConsumptionKl"); ok {
		score += usageAdjustment(v, employees, 100, 50, 25)
	}
	if v, ok := snap.Number("carbonEmissionsTonnes"); ok {
		score += usageAdjustment(v, employees, 10, 5, 2)
	}
	if v, ok := snap.Number("renewableEnergyPercent"); ok {
		score += v * 0.3
	}

	return round1(clamp(score))
}

// usageAdjustment applies the shared three-band pattern to a consumption
// metric normalized by headcount: heavy use is penalized, light use gets
// a small bonus. A non-positive divisor skips the adjustment entirely
// rather than propagating NaN.
func usageAdjustment(value float64, employees int, severe, high, low float64) float64 {
	if employees <= 0 {
		return 0
	}
	perEmployee := value / float64(employees)
	switch {
	case perEmployee > severe:
		return -15
	case perEmployee >= high:
		return -8
	case perEmployee < low:
		return 5
	}
	return 0
}

// scoreSocial starts at 50 and adds tier bonuses for workforce
// diversity, training, safety and retention.
func scoreSocial(snap *model.MetricSnapshot, employees int) float64 {
	score := 50.0

	if v, ok := snap.Number("femaleEmployeePercent"); ok {
		switch {
		case v >= 40:
			score += 25
		case v >= 30:
			score += 18
		case v >= 20:
			score += 12
		case v >= 10:
			score += 6
		}
	}

	if v, ok := snap.Number("trainingHoursPerEmployee"); ok {
		switch {
		case v >= 40:
			score += 25
		case v >= 25:
			score += 18
		case v >= 12:
			score += 12
		case v >= 6:
			score += 6
		}
	}

	if incidents, ok := snap.Number("safetyIncidents"); ok {
		total, hasTotal := snap.Number("totalEmployees")
		if !hasTotal || total <= 0 {
			total = float64(employees)
		}
		if total > 0 {
			rate := incidents / total * 100
			switch {
			case rate == 0:
				score += 25
			case rate < 1:
				score += 15
			case rate < 3:
				score += 5
			default:
				score -= 10
			}
		}
	}

	if v, ok := snap.Number("employeeTurnoverPercent"); ok {
		switch {
		case v < 5:
			score += 25
		case v < 10:
			score += 15
		case v < 15:
			score += 8
		case v < 25:
			// no adjustment
		default:
			score -= 5
		}
	}

	return round1(clamp(score))
}

// scoreGovernance starts at 50 and adds board-independence tiers, fixed
// policy bonuses and a compliance-violation tier.
func scoreGovernance(snap *model.MetricSnapshot) float64 {
	score := 50.0

	board, hasBoard := snap.Number("boardMembers")
	independent, hasIndep := snap.Number("independentDirectors")
	if hasBoard && hasIndep && board > 0 {
		ratio := independent / board
		switch {
		case ratio >= 0.5:
			score += 30
		case ratio >= 0.33:
			score += 20
		case ratio >= 0.25:
			score += 10
		}
	}

	if v, ok := snap.Bool("antiCorruptionPolicy"); ok && v {
		score += 20
	}
	if v, ok := snap.Bool("dataPrivacyPolicy"); ok && v {
		score += 20
	}

	if v, ok := snap.Number("complianceViolations"); ok {
		switch {
		case v == 0:
			score += 30
		case v == 1:
			score += 15
		case v == 2:
			score += 5
		default:
			score -= 20
		}
	}

	return round1(clamp(score))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
