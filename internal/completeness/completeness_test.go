package completeness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

func envSnap(fields map[string]any) *model.MetricSnapshot {
	return &model.MetricSnapshot{
		CompanyID: "c1",
		Period:    "2024-25",
		Pillar:    model.PillarEnvironmental,
		Fields:    model.NormalizeFields(fields),
	}
}

func keys(specs []FieldSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Key
	}
	return out
}

func TestAnalyzeEmptySnapshot(t *testing.T) {
	res := Analyze(model.PillarEnvironmental, envSnap(nil))

	assert.Equal(t, 0, res.Percentage)
	assert.Empty(t, res.Completed)
	assert.Len(t, res.Missing, len(environmentalFields))
	assert.Equal(t,
		[]string{"electricityUsageKwh", "waterConsumptionKl", "wasteGeneratedKg", "carbonEmissionsTonnes"},
		keys(res.MissingCritical))
}

func TestAnalyzeNilSnapshot(t *testing.T) {
	res := Analyze(model.PillarGovernance, nil)
	assert.Equal(t, 0, res.Percentage)
	assert.Len(t, res.Missing, len(governanceFields))
}

func TestAnalyzePartial(t *testing.T) {
	res := Analyze(model.PillarEnvironmental, envSnap(map[string]any{
		"electricityUsageKwh":    45000.0,
		"renewableEnergyPercent": 20.0,
		"carbonEmissionsTonnes":  120.0,
	}))

	// 3 of 7 fields = 43%
	assert.Equal(t, 43, res.Percentage)
	assert.Len(t, res.Completed, 3)
	assert.Len(t, res.Missing, 4)
	assert.Equal(t, []string{"waterConsumptionKl", "wasteGeneratedKg"}, keys(res.MissingCritical))
}

func TestAnalyzeEmptyStringAndNaNAreMissing(t *testing.T) {
	res := Analyze(model.PillarSocial, &model.MetricSnapshot{
		Pillar: model.PillarSocial,
		Fields: map[string]any{
			"totalEmployees":        "",
			"femaleEmployeePercent": 33.0,
		},
	})

	assert.Contains(t, keys(res.MissingCritical), "totalEmployees")
	assert.Contains(t, keys(res.Completed), "femaleEmployeePercent")
}

// Adding a previously-missing critical field never decreases the
// percentage and removes the field from the critical-gap list.
func TestAnalyzeMonotonicity(t *testing.T) {
	fields := map[string]any{"electricityUsageKwh": 45000.0}
	before := Analyze(model.PillarEnvironmental, envSnap(fields))
	require.Contains(t, keys(before.MissingCritical), "waterConsumptionKl")

	fields["waterConsumptionKl"] = 900.0
	after := Analyze(model.PillarEnvironmental, envSnap(fields))

	assert.GreaterOrEqual(t, after.Percentage, before.Percentage)
	assert.NotContains(t, keys(after.MissingCritical), "waterConsumptionKl")
}

func TestFieldSpecsUnknownPillar(t *testing.T) {
	assert.Nil(t, FieldSpecs(model.Pillar("bogus")))
}

func TestImpactExplanation(t *testing.T) {
	missing := []FieldSpec{
		{Key: "a", Label: "Electricity usage (kWh)", Critical: true},
		{Key: "b", Label: "Water consumption (kL)", Critical: true},
		{Key: "c", Label: "Waste generated (kg)", Critical: true},
		{Key: "d", Label: "Carbon emissions (tCO2e)", Critical: true},
	}

	t.Run("no gaps", func(t *testing.T) {
		got := ImpactExplanation(model.PillarEnvironmental, 82.5, nil)
		assert.Equal(t, "Environmental score of 82.5 is based on complete critical data.", got)
	})

	t.Run("names up to three fields", func(t *testing.T) {
		got := ImpactExplanation(model.PillarEnvironmental, 61.0, missing[:2])
		assert.Equal(t,
			"Environmental score of 61.0 is limited by missing critical data: Electricity usage (kWh), Water consumption (kL).",
			got)
	})

	t.Run("overflow gets a suffix", func(t *testing.T) {
		got := ImpactExplanation(model.PillarEnvironmental, 48.0, missing)
		assert.Contains(t, got, "Electricity usage (kWh), Water consumption (kL), Waste generated (kg) (+1 more).")
	})
}
