package store

import (
	"context"
	"time"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	Status model.TaskStatus `json:"status,omitempty"`
	Source model.TaskSource `json:"source,omitempty"`
	Pillar model.Pillar     `json:"pillar,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the scoring engine.
// Getters return (nil, nil) when the entity does not exist.
type Store interface {
	// Companies
	UpsertCompany(ctx context.Context, c model.CompanyProfile) error
	GetCompany(ctx context.Context, companyID string) (*model.CompanyProfile, error)

	// Metric snapshots
	SaveSnapshot(ctx context.Context, snap *model.MetricSnapshot) error
	GetLatestSnapshot(ctx context.Context, companyID, period string, pillar model.Pillar) (*model.MetricSnapshot, error)

	// Evidence
	AddEvidence(ctx context.Context, rec *model.EvidenceRecord) error
	ListEvidence(ctx context.Context, companyID string) ([]model.EvidenceRecord, error)

	// Scores
	UpsertScore(ctx context.Context, res *model.ScoreResult) error
	GetScore(ctx context.Context, companyID, period string) (*model.ScoreResult, error)

	// Tasks
	CreateTask(ctx context.Context, t model.Task) (created bool, err error)
	ListTasks(ctx context.Context, companyID string, filter TaskFilter) ([]model.Task, error)
	ListOpenAutoTasks(ctx context.Context, companyID string) ([]model.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status model.TaskStatus) error
	MarkOverdue(ctx context.Context, companyID string, now time.Time) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
