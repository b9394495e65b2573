package model

import "time"

// TaskPriority ranks how urgently a task needs attention.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// Open reports whether the task still needs work. Overdue tasks are not
// "open" for dedup purposes: a fresh sync may legitimately re-raise the
// same gap once its previous task has lapsed.
func (s TaskStatus) Open() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

// TaskSource records what created a task.
type TaskSource string

const (
	TaskSourceCompliance  TaskSource = "compliance"
	TaskSourceMissingData TaskSource = "missing-data"
	TaskSourceExpiringDoc TaskSource = "expiring-document"
	TaskSourceManual      TaskSource = "manual"
)

// AutomaticSources lists the sources the synchronizer owns. Manual tasks
// are never touched by sync.
func AutomaticSources() []TaskSource {
	return []TaskSource{TaskSourceCompliance, TaskSourceMissingData, TaskSourceExpiringDoc}
}

// Task is one entry in a company's remediation backlog. SourceID is the
// stable dedup key: re-running sync must not create a second open task
// for the same gap.
type Task struct {
	ID          string       `json:"id"`
	CompanyID   string       `json:"company_id"`
	UserID      string       `json:"user_id,omitempty"`
	Title       string       `json:"title"`
	Pillar      Pillar       `json:"pillar"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     time.Time    `json:"due_date"`
	Source      TaskSource   `json:"source"`
	SourceID    string       `json:"source_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
