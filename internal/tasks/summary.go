package tasks

import (
	"time"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// Summary holds a point-in-time view of a company's remediation backlog.
type Summary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`

	HighPriorityOpen int `json:"high_priority_open"`
	DueWithin7Days   int `json:"due_within_7_days"`
	Manual           int `json:"manual"`

	CollectedAt time.Time `json:"collected_at"`
}

// Summarize tallies the backlog. DueWithin7Days counts open tasks whose
// due date falls inside the next seven days from now; tasks already past
// due belong in Overdue once the sweep has run, so they are not counted
// twice here.
func Summarize(backlog []model.Task, now time.Time) Summary {
	s := Summary{Total: len(backlog), CollectedAt: now.UTC()}
	horizon := now.Add(7 * 24 * time.Hour)

	for _, t := range backlog {
		switch t.Status {
		case model.TaskStatusPending:
			s.Pending++
		case model.TaskStatusInProgress:
			s.InProgress++
		case model.TaskStatusCompleted:
			s.Completed++
		case model.TaskStatusOverdue:
			s.Overdue++
		}
		if t.Source == model.TaskSourceManual {
			s.Manual++
		}
		if t.Status.Open() {
			if t.Priority == model.TaskPriorityHigh {
				s.HighPriorityOpen++
			}
			if !t.DueDate.Before(now) && t.DueDate.Before(horizon) {
				s.DueWithin7Days++
			}
		}
	}
	return s
}
