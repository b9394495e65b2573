package compliance

import (
	"math"
	"sort"
	"time"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// Pillar status thresholds: 100% is complete, >=70% is a warning,
// anything lower is critical.
type PillarStatus string

const (
	StatusComplete PillarStatus = "complete"
	StatusWarning  PillarStatus = "warning"
	StatusCritical PillarStatus = "critical"
)

// DefaultMaxNextSteps caps the remediation list when the caller does
// not override it.
const DefaultMaxNextSteps = 5

// PillarReadiness is the coverage summary for one pillar.
type PillarReadiness struct {
	Covered int          `json:"covered"`
	Total   int          `json:"total"`
	Missing []string     `json:"missing"` // uncovered requirement IDs, catalog order
	Status  PillarStatus `json:"status"`
}

// NextStep is one ranked remediation action.
type NextStep struct {
	RequirementID string       `json:"requirement_id"`
	Pillar        model.Pillar `json:"pillar"`
	Category      Category     `json:"category"`
	Mandatory     bool         `json:"mandatory"`
	Action        string       `json:"action"`
}

// ReadinessResult is the full readiness view for one company+period.
type ReadinessResult struct {
	CompanyID      string                           `json:"company_id"`
	Period         string                           `json:"period"`
	OverallPercent int                              `json:"overall_percent"`
	Pillars        map[model.Pillar]PillarReadiness `json:"pillars"`
	NextSteps      []NextStep                       `json:"next_steps"`
	EvaluatedAt    time.Time                        `json:"evaluated_at"`
}

// AggregateReadiness evaluates every catalog requirement and rolls the
// results up into per-pillar coverage, an overall percentage and a
// ranked next-steps list of at most maxSteps entries (DefaultMaxNextSteps
// when maxSteps <= 0). The ranking is a stable sort: mandatory
// requirements first, then category order mandatory < client-driven <
// future-ready; ties keep catalog order.
func AggregateReadiness(companyID, period string, snaps PillarSnapshots, evidence []model.EvidenceRecord, maxSteps int) *ReadinessResult {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxNextSteps
	}

	res := &ReadinessResult{
		CompanyID:   companyID,
		Period:      period,
		Pillars:     make(map[model.Pillar]PillarReadiness, 3),
		EvaluatedAt: time.Now().UTC(),
	}

	var uncovered []Requirement
	coveredCount := 0
	for _, r := range catalog {
		pr := res.Pillars[r.Pillar]
		pr.Total++
		if Covered(r, snaps, evidence) {
			pr.Covered++
			coveredCount++
		} else {
			pr.Missing = append(pr.Missing, r.ID)
			uncovered = append(uncovered, r)
		}
		res.Pillars[r.Pillar] = pr
	}

	for p, pr := range res.Pillars {
		pr.Status = pillarStatus(pr.Covered, pr.Total)
		res.Pillars[p] = pr
	}

	res.OverallPercent = int(math.Round(float64(coveredCount) / float64(len(catalog)) * 100))

	sort.SliceStable(uncovered, func(i, j int) bool {
		if uncovered[i].Mandatory != uncovered[j].Mandatory {
			return uncovered[i].Mandatory
		}
		return categoryRank[uncovered[i].Category] < categoryRank[uncovered[j].Category]
	})
	if len(uncovered) > maxSteps {
		uncovered = uncovered[:maxSteps]
	}
	for _, r := range uncovered {
		res.NextSteps = append(res.NextSteps, NextStep{
			RequirementID: r.ID,
			Pillar:        r.Pillar,
			Category:      r.Category,
			Mandatory:     r.Mandatory,
			Action:        ActionText(r),
		})
	}

	return res
}

func pillarStatus(covered, total int) PillarStatus {
	if total == 0 || covered == total {
		return StatusComplete
	}
	if float64(covered)/float64(total)*100 >= 70 {
		return StatusWarning
	}
	return StatusCritical
}
