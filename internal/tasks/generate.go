// Package tasks turns readiness gaps, missing metrics and expiring
// evidence into actionable tasks, and reconciles the generated set
// against tasks that already exist so reruns never duplicate work.
package tasks

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/compliance"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// Due-date offsets by requirement category. Mandatory gaps are urgent,
// client-driven gaps get a short runway, future-ready gaps a week.
const (
	dueMandatory    = 24 * time.Hour
	dueClientDriven = 3 * 24 * time.Hour
	dueFutureReady  = 7 * 24 * time.Hour
)

// DefaultExpiryWindow is how far ahead expiring evidence documents
// generate renewal tasks.
const DefaultExpiryWindow = 30 * 24 * time.Hour

// criticalDataCheck is one always-watched metric field. When the field
// is absent from the pillar's latest snapshot a data-entry task is
// generated with the given due-date offset.
type criticalDataCheck struct {
	Pillar  model.Pillar
	Field   string
	Title   string
	DueDays int
}

var criticalDataChecks = []criticalDataCheck{
	{Pillar: model.PillarEnvironmental, Field: "electricityUsageKwh", Title: "Enter electricity usage for the current period", DueDays: 3},
	{Pillar: model.PillarEnvironmental, Field: "carbonEmissionsTonnes", Title: "Enter carbon emissions for the current period", DueDays: 3},
	{Pillar: model.PillarSocial, Field: "totalEmployees", Title: "Enter total employee headcount", DueDays: 7},
	{Pillar: model.PillarGovernance, Field: "boardMembers", Title: "Enter board composition details", DueDays: 5},
}

// FromNextSteps generates one compliance task per readiness next step.
// Source IDs are stable per requirement so reruns reconcile cleanly.
func FromNextSteps(companyID, userID string, steps []compliance.NextStep, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(steps))
	for _, s := range steps {
		priority, offset := categoryUrgency(s.Category)
		out = append(out, newTask(companyID, userID, now, model.Task{
			Title:    s.Action,
			Pillar:   s.Pillar,
			Priority: priority,
			DueDate:  now.Add(offset),
			Source:   model.TaskSourceCompliance,
			SourceID: fmt.Sprintf("compliance:%s", s.RequirementID),
		}))
	}
	return out
}

// FromMissingCriticalData generates data-entry tasks for the fixed set
// of critical fields absent from the latest pillar snapshots.
func FromMissingCriticalData(companyID, userID string, snaps compliance.PillarSnapshots, now time.Time) []model.Task {
	var out []model.Task
	for _, c := range criticalDataChecks {
		if snaps.ForPillar(c.Pillar).Present(c.Field) {
			continue
		}
		out = append(out, newTask(companyID, userID, now, model.Task{
			Title:    c.Title,
			Pillar:   c.Pillar,
			Priority: model.TaskPriorityHigh,
			DueDate:  now.Add(time.Duration(c.DueDays) * 24 * time.Hour),
			Source:   model.TaskSourceMissingData,
			SourceID: fmt.Sprintf("missing-data:%s:%s", c.Pillar, c.Field),
		}))
	}
	return out
}

// FromExpiringEvidence generates renewal tasks for evidence documents
// whose expiry falls within the window (already-expired included). The
// task is due on the expiry date itself.
func FromExpiringEvidence(companyID, userID string, evidence []model.EvidenceRecord, now time.Time, window time.Duration) []model.Task {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	var out []model.Task
	for _, e := range evidence {
		if !e.ExpiringWithin(now, window) {
			continue
		}
		out = append(out, newTask(companyID, userID, now, model.Task{
			Title:    fmt.Sprintf("Renew expiring document: %s", e.FileName),
			Priority: model.TaskPriorityHigh,
			DueDate:  *e.ExpiryDate,
			Source:   model.TaskSourceExpiringDoc,
			SourceID: fmt.Sprintf("expiring-document:%s", e.ID),
		}))
	}
	return out
}

func categoryUrgency(c compliance.Category) (model.TaskPriority, time.Duration) {
	switch c {
	case compliance.CategoryMandatory:
		return model.TaskPriorityHigh, dueMandatory
	case compliance.CategoryClientDriven:
		return model.TaskPriorityMedium, dueClientDriven
	default:
		return model.TaskPriorityLow, dueFutureReady
	}
}

func newTask(companyID, userID string, now time.Time, t model.Task) model.Task {
	t.ID = uuid.NewString()
	t.CompanyID = companyID
	t.UserID = userID
	t.Status = model.TaskStatusPending
	t.CreatedAt = now
	t.UpdatedAt = now
	return t
}
