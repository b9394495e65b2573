package engine

import (
	"context"
	"sort"
	"time"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
)

// mockStore is an in-memory Store with per-operation error injection.
// Task creation mirrors the real stores' partial unique index: a second
// open automatic task for the same (company, source) is a no-op.
type mockStore struct {
	companies map[string]model.CompanyProfile
	snapshots []model.MetricSnapshot
	evidence  []model.EvidenceRecord
	scores    map[string]model.ScoreResult
	tasks     []model.Task

	snapshotErr error
	companyErr  error
	evidenceErr error
	listOpenErr error
	createErr   error
	overdueErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		companies: make(map[string]model.CompanyProfile),
		scores:    make(map[string]model.ScoreResult),
	}
}

func (m *mockStore) UpsertCompany(_ context.Context, c model.CompanyProfile) error {
	m.companies[c.ID] = c
	return nil
}

func (m *mockStore) GetCompany(_ context.Context, companyID string) (*model.CompanyProfile, error) {
	if m.companyErr != nil {
		return nil, m.companyErr
	}
	c, ok := m.companies[companyID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *mockStore) SaveSnapshot(_ context.Context, snap *model.MetricSnapshot) error {
	m.snapshots = append(m.snapshots, *snap)
	return nil
}

func (m *mockStore) GetLatestSnapshot(_ context.Context, companyID, period string, pillar model.Pillar) (*model.MetricSnapshot, error) {
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	var latest *model.MetricSnapshot
	for i := range m.snapshots {
		s := &m.snapshots[i]
		if s.CompanyID != companyID || s.Period != period || s.Pillar != pillar {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (m *mockStore) AddEvidence(_ context.Context, rec *model.EvidenceRecord) error {
	m.evidence = append(m.evidence, *rec)
	return nil
}

func (m *mockStore) ListEvidence(_ context.Context, companyID string) ([]model.EvidenceRecord, error) {
	if m.evidenceErr != nil {
		return nil, m.evidenceErr
	}
	var out []model.EvidenceRecord
	for _, e := range m.evidence {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) UpsertScore(_ context.Context, res *model.ScoreResult) error {
	m.scores[res.CompanyID+"|"+res.Period] = *res
	return nil
}

func (m *mockStore) GetScore(_ context.Context, companyID, period string) (*model.ScoreResult, error) {
	res, ok := m.scores[companyID+"|"+period]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (m *mockStore) CreateTask(_ context.Context, t model.Task) (bool, error) {
	if m.createErr != nil {
		return false, m.createErr
	}
	if t.Source != model.TaskSourceManual {
		for _, existing := range m.tasks {
			if existing.CompanyID == t.CompanyID && existing.SourceID == t.SourceID &&
				existing.Source != model.TaskSourceManual && existing.Status.Open() {
				return false, nil
			}
		}
	}
	m.tasks = append(m.tasks, t)
	return true, nil
}

func (m *mockStore) ListTasks(_ context.Context, companyID string, filter store.TaskFilter) ([]model.Task, error) {
	var out []model.Task
	for _, t := range m.tasks {
		if t.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Source != "" && t.Source != filter.Source {
			continue
		}
		if filter.Pillar != "" && t.Pillar != filter.Pillar {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *mockStore) ListOpenAutoTasks(_ context.Context, companyID string) ([]model.Task, error) {
	if m.listOpenErr != nil {
		return nil, m.listOpenErr
	}
	var out []model.Task
	for _, t := range m.tasks {
		if t.CompanyID == companyID && t.Source != model.TaskSourceManual && t.Status.Open() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateTaskStatus(_ context.Context, taskID string, status model.TaskStatus) error {
	for i := range m.tasks {
		if m.tasks[i].ID == taskID {
			m.tasks[i].Status = status
			return nil
		}
	}
	return nil
}

func (m *mockStore) MarkOverdue(_ context.Context, companyID string, now time.Time) (int, error) {
	if m.overdueErr != nil {
		return 0, m.overdueErr
	}
	n := 0
	for i := range m.tasks {
		t := &m.tasks[i]
		if t.CompanyID == companyID && t.Status.Open() && t.DueDate.Before(now) {
			t.Status = model.TaskStatusOverdue
			n++
		}
	}
	return n, nil
}

func (m *mockStore) Migrate(context.Context) error { return nil }
func (m *mockStore) Ping(context.Context) error    { return nil }
func (m *mockStore) Close() error                  { return nil }

var _ store.Store = (*mockStore)(nil)
