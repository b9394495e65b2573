package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MetricSnapshot is one pillar's disclosure data for a company and
// reporting period. Fields is sparse: absence of a key is meaningful and
// drives completeness and coverage. Multiple snapshots may exist per
// (company, period, pillar); the latest by CreatedAt is authoritative.
type MetricSnapshot struct {
	ID        string         `json:"id"`
	CompanyID string         `json:"company_id"`
	Period    string         `json:"period"`
	Pillar    Pillar         `json:"pillar"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
}

// fieldAliases maps legacy field names to their canonical equivalents.
// Older snapshots were written under a previous schema generation; both
// spellings appear in stored data. NormalizeFields folds everything onto
// the canonical name so the analytic code only ever sees one key.
var fieldAliases = map[string]string{
	// environmental
	"energyConsumptionKwh": "electricityUsageKwh",
	"renewablePercent":     "renewableEnergyPercent",
	"waterUsageKl":         "waterConsumptionKl",
	"totalWasteKg":         "wasteGeneratedKg",
	"co2EmissionsTonnes":   "carbonEmissionsTonnes",
	// social
	"employeeCount":      "totalEmployees",
	"femalePercent":      "femaleEmployeePercent",
	"avgTrainingHours":   "trainingHoursPerEmployee",
	"workplaceIncidents": "safetyIncidents",
	"attritionRate":      "employeeTurnoverPercent",
	// governance
	"boardSize":               "boardMembers",
	"independentBoardMembers": "independentDirectors",
	"antiBriberyPolicy":       "antiCorruptionPolicy",
	"regulatoryViolations":    "complianceViolations",
	"whistleblowerMechanism":  "whistleblowerPolicy",
	"boardMeetingsHeld":       "boardMeetingsPerYear",
}

// NormalizeFields returns a copy of fields with legacy aliases folded
// onto canonical names and derivable values filled in. A canonical key
// already present always wins over its alias. Derivations:
//
//	femaleEmployeePercent    <- femaleEmployees / totalEmployees x 100
//	trainingHoursPerEmployee <- totalTrainingHours / totalEmployees
func NormalizeFields(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if canonical, ok := fieldAliases[k]; ok {
			k = canonical
		}
		if _, exists := out[k]; exists {
			continue
		}
		out[k] = v
	}
	// A canonical key present in the input wins over whatever an alias may
	// have placed under the same name above (map order is random).
	for k, v := range fields {
		if _, aliased := fieldAliases[k]; !aliased {
			out[k] = v
		}
	}

	total, hasTotal := FieldNumber(out, "totalEmployees")
	if !FieldPresent(out, "femaleEmployeePercent") && hasTotal && total > 0 {
		if female, ok := FieldNumber(out, "femaleEmployees"); ok {
			out["femaleEmployeePercent"] = female / total * 100
		}
	}
	if !FieldPresent(out, "trainingHoursPerEmployee") && hasTotal && total > 0 {
		if hours, ok := FieldNumber(out, "totalTrainingHours"); ok {
			out["trainingHoursPerEmployee"] = hours / total
		}
	}

	return out
}

// Normalized returns a copy of the snapshot with canonical field names.
func (s *MetricSnapshot) Normalized() *MetricSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Fields = NormalizeFields(s.Fields)
	return &out
}

// Number returns the named field coerced to float64.
func (s *MetricSnapshot) Number(key string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	return FieldNumber(s.Fields, key)
}

// Bool returns the named field coerced to bool.
func (s *MetricSnapshot) Bool(key string) (bool, bool) {
	if s == nil {
		return false, false
	}
	return FieldBool(s.Fields, key)
}

// Present reports whether the named field carries a usable value.
func (s *MetricSnapshot) Present(key string) bool {
	if s == nil {
		return false
	}
	return FieldPresent(s.Fields, key)
}

// FieldNumber coerces a raw field value to float64. JSON decoding and the
// two store drivers hand back float64, int64 or string depending on the
// path a value took; all of them are accepted. NaN never passes.
func FieldNumber(fields map[string]any, key string) (float64, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// FieldBool coerces a raw field value to bool. Accepts native bools,
// yes/no style strings and nonzero numbers.
func FieldBool(fields map[string]any, key string) (bool, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0", "":
			return false, true
		}
		return false, false
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	case int64:
		return b != 0, true
	}
	return false, false
}

// FieldPresent reports whether a field holds a usable value. Nil, empty
// string and NaN all count as missing.
func FieldPresent(fields map[string]any, key string) bool {
	v, ok := fields[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return !math.IsNaN(t) && !math.IsInf(t, 0)
	}
	return true
}
