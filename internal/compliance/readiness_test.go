package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// fullEnvironmental covers all six metric-backed environmental checks.
func fullEnvironmental() *model.MetricSnapshot {
	return pillarSnap(model.PillarEnvironmental, map[string]any{
		"electricityUsageKwh":    45000.0,
		"renewableEnergyPercent": 20.0,
		"waterConsumptionKl":     900.0,
		"wasteGeneratedKg":       12000.0,
		"wasteRecycledKg":        4000.0,
		"carbonEmissionsTonnes":  320.0,
	})
}

func TestAggregateReadinessExample(t *testing.T) {
	// 15 of 21 covered: environment fully (incl. EMS evidence), social
	// covers headcount/diversity/training only, governance misses the
	// two evidence-backed checks.
	snaps := PillarSnapshots{
		Environmental: fullEnvironmental(),
		Social: pillarSnap(model.PillarSocial, map[string]any{
			"totalEmployees":           420.0,
			"femaleEmployeePercent":    31.0,
			"trainingHoursPerEmployee": 14.0,
		}),
		Governance: pillarSnap(model.PillarGovernance, map[string]any{
			"boardMembers":         5.0,
			"independentDirectors": 3.0,
			"antiCorruptionPolicy": true,
			"dataPrivacyPolicy":    true,
			"complianceViolations": 0.0,
		}),
	}
	evidence := []model.EvidenceRecord{{EvidenceType: "ISO 14001 certificate"}}

	res := AggregateReadiness("c1", "2024-25", snaps, evidence, 0)

	assert.Equal(t, 71, res.OverallPercent, "round(15/21*100)")

	env := res.Pillars[model.PillarEnvironmental]
	assert.Equal(t, 7, env.Covered)
	assert.Equal(t, 7, env.Total)
	assert.Empty(t, env.Missing)
	assert.Equal(t, StatusComplete, env.Status)

	soc := res.Pillars[model.PillarSocial]
	assert.Equal(t, 3, soc.Covered)
	assert.Equal(t, 7, soc.Total)
	assert.Equal(t, StatusCritical, soc.Status)

	gov := res.Pillars[model.PillarGovernance]
	assert.Equal(t, 5, gov.Covered)
	assert.Equal(t, 7, gov.Total)
	assert.Equal(t, StatusWarning, gov.Status, "5/7 is 71%, warning band")

	// covered/total must agree with the per-requirement missing lists.
	for p, pr := range res.Pillars {
		assert.Equal(t, pr.Total-pr.Covered, len(pr.Missing), p)
	}
}

func TestAggregateReadinessNextStepRanking(t *testing.T) {
	// Same fixture as above: uncovered are soc-safety, soc-turnover,
	// soc-posh, soc-csr, gov-whistleblower, gov-conduct.
	snaps := PillarSnapshots{
		Environmental: fullEnvironmental(),
		Social: pillarSnap(model.PillarSocial, map[string]any{
			"totalEmployees":           420.0,
			"femaleEmployeePercent":    31.0,
			"trainingHoursPerEmployee": 14.0,
		}),
		Governance: pillarSnap(model.PillarGovernance, map[string]any{
			"boardMembers":         5.0,
			"independentDirectors": 3.0,
			"antiCorruptionPolicy": true,
			"dataPrivacyPolicy":    true,
			"complianceViolations": 0.0,
		}),
	}
	evidence := []model.EvidenceRecord{{EvidenceType: "ISO 14001 certificate"}}

	res := AggregateReadiness("c1", "2024-25", snaps, evidence, 0)
	require.Len(t, res.NextSteps, 5)

	ids := make([]string, len(res.NextSteps))
	for i, s := range res.NextSteps {
		ids[i] = s.RequirementID
	}

	// Mandatory first in catalog order, then client-driven, then
	// future-ready; capped at five.
	assert.Equal(t, []string{
		"brsr-soc-safety",
		"brsr-soc-posh",
		"brsr-soc-turnover",
		"brsr-gov-whistleblower",
		"brsr-soc-csr",
	}, ids)

	for _, s := range res.NextSteps {
		assert.NotEmpty(t, s.Action)
	}
}

func TestAggregateReadinessMandatoryClientDrivenOrdering(t *testing.T) {
	// Nothing covered at all: the mandatory client-driven privacy check
	// must rank after catalog-order mandatory entries but ahead of every
	// non-mandatory one.
	res := AggregateReadiness("c1", "2024-25", PillarSnapshots{}, nil, 21)
	require.Len(t, res.NextSteps, 21)

	posPrivacy, posRenewable := -1, -1
	lastMandatory := -1
	for i, s := range res.NextSteps {
		switch s.RequirementID {
		case "brsr-gov-privacy":
			posPrivacy = i
		case "brsr-env-renewable":
			posRenewable = i
		}
		if s.Mandatory {
			lastMandatory = i
		}
	}

	require.GreaterOrEqual(t, posPrivacy, 0)
	require.GreaterOrEqual(t, posRenewable, 0)
	assert.Less(t, posPrivacy, posRenewable, "mandatory outranks category")
	assert.Equal(t, lastMandatory, posPrivacy, "privacy is the last mandatory entry (client-driven category)")

	assert.Equal(t, 0, res.OverallPercent)
	for _, pr := range res.Pillars {
		assert.Equal(t, StatusCritical, pr.Status)
		assert.Equal(t, 0, pr.Covered)
	}
}

func TestAggregateReadinessAllCovered(t *testing.T) {
	snaps := PillarSnapshots{
		Environmental: fullEnvironmental(),
		Social: pillarSnap(model.PillarSocial, map[string]any{
			"totalEmployees":           420.0,
			"femaleEmployeePercent":    31.0,
			"trainingHoursPerEmployee": 14.0,
			"safetyIncidents":          1.0,
			"employeeTurnoverPercent":  8.0,
			"csrSpendInr":              2500000.0,
		}),
		Governance: pillarSnap(model.PillarGovernance, map[string]any{
			"boardMembers":         5.0,
			"independentDirectors": 3.0,
			"antiCorruptionPolicy": true,
			"dataPrivacyPolicy":    true,
			"complianceViolations": 0.0,
		}),
	}
	evidence := []model.EvidenceRecord{
		{EvidenceType: "ISO 14001 certificate"},
		{EvidenceType: "POSH policy"},
		{EvidenceType: "Whistleblower policy"},
		{EvidenceType: "Code of Conduct handbook"},
	}

	res := AggregateReadiness("c1", "2024-25", snaps, evidence, 0)

	assert.Equal(t, 100, res.OverallPercent)
	assert.Empty(t, res.NextSteps)
	for _, pr := range res.Pillars {
		assert.Equal(t, StatusComplete, pr.Status)
	}
}
