// Package completeness measures how much of a pillar's disclosure
// schema a snapshot actually fills in, independent of scoring.
package completeness

import (
	"fmt"
	"math"
	"strings"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// FieldSpec describes one expected field in a pillar's disclosure
// schema. Critical fields are the ones score and coverage quality hang
// on; missing them generates remediation tasks.
type FieldSpec struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Critical bool   `json:"critical"`
}

// Per-pillar field specifications, in fixed display order. Keys are
// canonical names (post model.NormalizeFields).
var (
	environmentalFields = []FieldSpec{
		{Key: "electricityUsageKwh", Label: "Electricity usage (kWh)", Critical: true},
		{Key: "renewableEnergyPercent", Label: "Renewable energy share (%)", Critical: false},
		{Key: "waterConsumptionKl", Label: "Water consumption (kL)", Critical: true},
		{Key: "wasteGeneratedKg", Label: "Waste generated (kg)", Critical: true},
		{Key: "wasteRecycledKg", Label: "Waste recycled (kg)", Critical: false},
		{Key: "carbonEmissionsTonnes", Label: "Carbon emissions (tCO2e)", Critical: true},
		{Key: "fuelConsumptionLiters", Label: "Fuel consumption (L)", Critical: false},
	}

	socialFields = []FieldSpec{
		{Key: "totalEmployees", Label: "Total employees", Critical: true},
		{Key: "femaleEmployeePercent", Label: "Female employees (%)", Critical: true},
		{Key: "trainingHoursPerEmployee", Label: "Training hours per employee", Critical: true},
		{Key: "safetyIncidents", Label: "Safety incidents", Critical: true},
		{Key: "employeeTurnoverPercent", Label: "Employee turnover (%)", Critical: false},
		{Key: "csrSpendInr", Label: "CSR spend (INR)", Critical: false},
		{Key: "healthInsuranceCoverage", Label: "Health insurance coverage", Critical: false},
	}

	governanceFields = []FieldSpec{
		{Key: "boardMembers", Label: "Board members", Critical: true},
		{Key: "independentDirectors", Label: "Independent directors", Critical: true},
		{Key: "antiCorruptionPolicy", Label: "Anti-corruption policy", Critical: true},
		{Key: "dataPrivacyPolicy", Label: "Data privacy policy", Critical: false},
		{Key: "complianceViolations", Label: "Compliance violations", Critical: true},
		{Key: "boardMeetingsPerYear", Label: "Board meetings per year", Critical: false},
		{Key: "whistleblowerPolicy", Label: "Whistleblower policy", Critical: false},
	}
)

// FieldSpecs returns the fixed ordered field specification for a pillar.
func FieldSpecs(p model.Pillar) []FieldSpec {
	switch p {
	case model.PillarEnvironmental:
		return environmentalFields
	case model.PillarSocial:
		return socialFields
	case model.PillarGovernance:
		return governanceFields
	}
	return nil
}

// Result is the per-pillar completeness breakdown.
type Result struct {
	Pillar          model.Pillar `json:"pillar"`
	Percentage      int          `json:"percentage"`
	Completed       []FieldSpec  `json:"completed"`
	Missing         []FieldSpec  `json:"missing"`
	MissingCritical []FieldSpec  `json:"missing_critical"`
}

// Analyze evaluates a snapshot against its pillar's field spec. A nil
// snapshot is treated as fully empty for the given pillar.
func Analyze(pillar model.Pillar, snap *model.MetricSnapshot) Result {
	return AnalyzeWith(pillar, snap, FieldSpecs(pillar))
}

// AnalyzeWith evaluates a snapshot against an explicit field spec.
// "Missing" means nil, empty string or NaN, per model.FieldPresent.
func AnalyzeWith(pillar model.Pillar, snap *model.MetricSnapshot, specs []FieldSpec) Result {
	res := Result{Pillar: pillar}
	if len(specs) == 0 {
		return res
	}

	for _, spec := range specs {
		if snap.Present(spec.Key) {
			res.Completed = append(res.Completed, spec)
			continue
		}
		res.Missing = append(res.Missing, spec)
		if spec.Critical {
			res.MissingCritical = append(res.MissingCritical, spec)
		}
	}

	res.Percentage = int(math.Round(float64(len(res.Completed)) / float64(len(specs)) * 100))
	return res
}

// ImpactExplanation renders a human-readable cause string for a pillar
// score: either the score is fully backed by data, or it is limited by
// up to three named critical gaps (with a "+N more" suffix beyond
// three). Pure text generation; the score itself is never altered.
func ImpactExplanation(pillar model.Pillar, score float64, missingCritical []FieldSpec) string {
	if len(missingCritical) == 0 {
		return fmt.Sprintf("%s score of %.1f is based on complete critical data.", pillar.Label(), score)
	}

	names := make([]string, 0, 3)
	for i, spec := range missingCritical {
		if i == 3 {
			break
		}
		names = append(names, spec.Label)
	}
	suffix := ""
	if extra := len(missingCritical) - 3; extra > 0 {
		suffix = fmt.Sprintf(" (+%d more)", extra)
	}

	return fmt.Sprintf("%s score of %.1f is limited by missing critical data: %s%s.",
		pillar.Label(), score, strings.Join(names, ", "), suffix)
}
