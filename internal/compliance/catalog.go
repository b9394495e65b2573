// Package compliance evaluates disclosure coverage against the fixed
// BRSR requirement catalog and aggregates it into a readiness view.
package compliance

import "github.com/namitkumarsingh97/ecotrack-product-server/internal/model"

// Category buckets requirements by why they matter.
type Category string

const (
	CategoryMandatory    Category = "mandatory"
	CategoryClientDriven Category = "client-driven"
	CategoryFutureReady  Category = "future-ready"
)

// categoryRank orders categories for next-step prioritization.
var categoryRank = map[Category]int{
	CategoryMandatory:    0,
	CategoryClientDriven: 1,
	CategoryFutureReady:  2,
}

// Requirement is one entry of the static disclosure catalog. A
// requirement is satisfied either by the presence of a metric field
// (MetricField, optionally required to be truthy for policy booleans)
// or by an evidence document whose type matches one of the keywords.
// Mandatory is a regulatory flag independent of Category: a
// client-driven requirement can still be legally mandatory.
type Requirement struct {
	ID               string
	Pillar           model.Pillar
	Text             string
	Mandatory        bool
	Category         Category
	MetricField      string
	Truthy           bool
	EvidenceKeywords []string
}

// catalog is the fixed BRSR requirement set, in publication order.
// Immutable configuration: loaded once, never mutated at runtime.
var catalog = []Requirement{
	// Environmental
	{ID: "brsr-env-energy", Pillar: model.PillarEnvironmental, Text: "Total energy consumption disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "electricityUsageKwh"},
	{ID: "brsr-env-renewable", Pillar: model.PillarEnvironmental, Text: "Renewable energy share disclosed", Mandatory: false, Category: CategoryClientDriven, MetricField: "renewableEnergyPercent"},
	{ID: "brsr-env-water", Pillar: model.PillarEnvironmental, Text: "Water consumption disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "waterConsumptionKl"},
	{ID: "brsr-env-waste", Pillar: model.PillarEnvironmental, Text: "Waste generation disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "wasteGeneratedKg"},
	{ID: "brsr-env-recycling", Pillar: model.PillarEnvironmental, Text: "Waste recycling tracked", Mandatory: false, Category: CategoryFutureReady, MetricField: "wasteRecycledKg"},
	{ID: "brsr-env-emissions", Pillar: model.PillarEnvironmental, Text: "Scope 1 and 2 carbon emissions disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "carbonEmissionsTonnes"},
	{ID: "brsr-env-ems", Pillar: model.PillarEnvironmental, Text: "Environmental management system certified", Mandatory: false, Category: CategoryFutureReady, EvidenceKeywords: []string{"iso 14001", "environmental management", "ems"}},

	// Social
	{ID: "brsr-soc-headcount", Pillar: model.PillarSocial, Text: "Total workforce headcount disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "totalEmployees"},
	{ID: "brsr-soc-diversity", Pillar: model.PillarSocial, Text: "Gender diversity ratio disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "femaleEmployeePercent"},
	{ID: "brsr-soc-training", Pillar: model.PillarSocial, Text: "Employee training hours disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "trainingHoursPerEmployee"},
	{ID: "brsr-soc-safety", Pillar: model.PillarSocial, Text: "Workplace safety incidents disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "safetyIncidents"},
	{ID: "brsr-soc-turnover", Pillar: model.PillarSocial, Text: "Employee turnover rate disclosed", Mandatory: false, Category: CategoryClientDriven, MetricField: "employeeTurnoverPercent"},
	{ID: "brsr-soc-posh", Pillar: model.PillarSocial, Text: "POSH (anti-harassment) policy in place", Mandatory: true, Category: CategoryMandatory, EvidenceKeywords: []string{"posh", "harassment"}},
	{ID: "brsr-soc-csr", Pillar: model.PillarSocial, Text: "CSR expenditure disclosed", Mandatory: false, Category: CategoryFutureReady, MetricField: "csrSpendInr"},

	// Governance
	{ID: "brsr-gov-board", Pillar: model.PillarGovernance, Text: "Board composition disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "boardMembers"},
	{ID: "brsr-gov-independence", Pillar: model.PillarGovernance, Text: "Independent director count disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "independentDirectors"},
	{ID: "brsr-gov-anticorruption", Pillar: model.PillarGovernance, Text: "Anti-corruption policy adopted", Mandatory: true, Category: CategoryMandatory, MetricField: "antiCorruptionPolicy", Truthy: true},
	{ID: "brsr-gov-privacy", Pillar: model.PillarGovernance, Text: "Data privacy policy adopted", Mandatory: true, Category: CategoryClientDriven, MetricField: "dataPrivacyPolicy", Truthy: true},
	{ID: "brsr-gov-violations", Pillar: model.PillarGovernance, Text: "Regulatory violations disclosed", Mandatory: true, Category: CategoryMandatory, MetricField: "complianceViolations"},
	{ID: "brsr-gov-whistleblower", Pillar: model.PillarGovernance, Text: "Whistleblower mechanism established", Mandatory: false, Category: CategoryClientDriven, EvidenceKeywords: []string{"whistleblower", "vigil mechanism"}},
	{ID: "brsr-gov-conduct", Pillar: model.PillarGovernance, Text: "Code of conduct published", Mandatory: false, Category: CategoryFutureReady, EvidenceKeywords: []string{"code of conduct", "ethics"}},
}

// actionTexts maps requirement IDs to the remediation action shown in
// next steps and generated tasks. IDs without an entry fall back to
// "Complete <requirement text>".
var actionTexts = map[string]string{
	"brsr-env-energy":         "Record monthly electricity consumption from utility bills",
	"brsr-env-renewable":      "Add renewable energy share from power purchase records",
	"brsr-env-water":          "Record water consumption from meter readings",
	"brsr-env-waste":          "Log waste generation from disposal manifests",
	"brsr-env-emissions":      "Calculate and record scope 1 and 2 carbon emissions",
	"brsr-env-ems":            "Upload your ISO 14001 or equivalent EMS certificate",
	"brsr-soc-headcount":      "Record total employee headcount from HR records",
	"brsr-soc-diversity":      "Record gender diversity data from HR records",
	"brsr-soc-training":       "Log employee training hours from your LMS",
	"brsr-soc-safety":         "Record workplace safety incidents from the incident register",
	"brsr-soc-posh":           "Upload your POSH policy document",
	"brsr-gov-board":          "Record board composition from the latest board report",
	"brsr-gov-independence":   "Record independent director count",
	"brsr-gov-anticorruption": "Adopt and record an anti-corruption policy",
	"brsr-gov-privacy":        "Adopt and record a data privacy policy",
	"brsr-gov-violations":     "Record regulatory violations, or confirm a clean record",
	"brsr-gov-whistleblower":  "Upload your whistleblower policy document",
}

// Catalog returns the full requirement catalog in publication order.
func Catalog() []Requirement {
	return catalog
}

// CatalogByPillar returns the catalog entries for one pillar.
func CatalogByPillar(p model.Pillar) []Requirement {
	var out []Requirement
	for _, r := range catalog {
		if r.Pillar == p {
			out = append(out, r)
		}
	}
	return out
}

// ActionText returns the remediation action for a requirement.
func ActionText(r Requirement) string {
	if a, ok := actionTexts[r.ID]; ok {
		return a
	}
	return "Complete " + r.Text
}
