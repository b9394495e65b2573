package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/db"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a verified connection pool.
func NewPostgres(ctx context.Context, connString string, maxConns, minConns int32) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, maxConns, minConns)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests to inject
// pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	industry       TEXT NOT NULL DEFAULT '',
	plan_tier      TEXT NOT NULL DEFAULT 'starter',
	employee_count INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS metric_snapshots (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	period     TEXT NOT NULL,
	pillar     TEXT NOT NULL,
	fields     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_lookup
	ON metric_snapshots(company_id, period, pillar, created_at DESC);

CREATE TABLE IF NOT EXISTS evidence (
	id            TEXT PRIMARY KEY,
	company_id    TEXT NOT NULL,
	evidence_type TEXT NOT NULL,
	file_name     TEXT NOT NULL DEFAULT '',
	expiry_date   TIMESTAMPTZ,
	uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_evidence_company ON evidence(company_id);

CREATE TABLE IF NOT EXISTS esg_scores (
	company_id    TEXT NOT NULL,
	period        TEXT NOT NULL,
	environmental DOUBLE PRECISION NOT NULL,
	social        DOUBLE PRECISION NOT NULL,
	governance    DOUBLE PRECISION NOT NULL,
	overall       DOUBLE PRECISION NOT NULL,
	warnings      JSONB NOT NULL DEFAULT '[]',
	computed_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (company_id, period)
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	company_id   TEXT NOT NULL,
	user_id      TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL,
	pillar       TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	due_date     TIMESTAMPTZ NOT NULL,
	source       TEXT NOT NULL,
	source_id    TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tasks_company ON tasks(company_id, status);

-- One open automatic task per gap. Closed and manual tasks are exempt
-- so a re-raised gap can get a fresh task after the old one lapses.
CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_open_source
	ON tasks(company_id, source_id)
	WHERE status IN ('pending', 'in_progress') AND source <> 'manual';
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, c model.CompanyProfile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO companies (id, name, industry, plan_tier, employee_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			plan_tier = EXCLUDED.plan_tier,
			employee_count = EXCLUDED.employee_count,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.Name, c.Industry, string(c.PlanTier), c.EmployeeCount, c.CreatedAt, c.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert company %s", c.ID)
}

func (s *PostgresStore) GetCompany(ctx context.Context, companyID string) (*model.CompanyProfile, error) {
	var c model.CompanyProfile
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, industry, plan_tier, employee_count, created_at, updated_at
		 FROM companies WHERE id = $1`,
		companyID,
	).Scan(&c.ID, &c.Name, &c.Industry, &c.PlanTier, &c.EmployeeCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", companyID)
	}
	return &c, nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *model.MetricSnapshot) error {
	fieldsJSON, err := json.Marshal(snap.Fields)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal fields")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO metric_snapshots (id, company_id, period, pillar, fields, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		snap.ID, snap.CompanyID, snap.Period, string(snap.Pillar), fieldsJSON, snap.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert snapshot for %s", snap.CompanyID)
}

func (s *PostgresStore) GetLatestSnapshot(ctx context.Context, companyID, period string, pillar model.Pillar) (*model.MetricSnapshot, error) {
	var snap model.MetricSnapshot
	var fieldsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, company_id, period, pillar, fields, created_at
		 FROM metric_snapshots
		 WHERE company_id = $1 AND period = $2 AND pillar = $3
		 ORDER BY created_at DESC LIMIT 1`,
		companyID, period, string(pillar),
	).Scan(&snap.ID, &snap.CompanyID, &snap.Period, &snap.Pillar, &fieldsJSON, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get latest %s snapshot for %s", pillar, companyID)
	}
	if err := json.Unmarshal(fieldsJSON, &snap.Fields); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal fields")
	}
	return &snap, nil
}

func (s *PostgresStore) AddEvidence(ctx context.Context, rec *model.EvidenceRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO evidence (id, company_id, evidence_type, file_name, expiry_date, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.CompanyID, rec.EvidenceType, rec.FileName, rec.ExpiryDate, rec.UploadedAt,
	)
	return eris.Wrapf(err, "postgres: insert evidence for %s", rec.CompanyID)
}

func (s *PostgresStore) ListEvidence(ctx context.Context, companyID string) ([]model.EvidenceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, evidence_type, file_name, expiry_date, uploaded_at
		 FROM evidence WHERE company_id = $1 ORDER BY uploaded_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list evidence for %s", companyID)
	}
	defer rows.Close()

	var out []model.EvidenceRecord
	for rows.Next() {
		var e model.EvidenceRecord
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.EvidenceType, &e.FileName, &e.ExpiryDate, &e.UploadedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan evidence")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list evidence iterate")
}

func (s *PostgresStore) UpsertScore(ctx context.Context, res *model.ScoreResult) error {
	warningsJSON, err := json.Marshal(res.Warnings)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal warnings")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO esg_scores (company_id, period, environmental, social, governance, overall, warnings, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (company_id, period) DO UPDATE SET
			environmental = EXCLUDED.environmental,
			social = EXCLUDED.social,
			governance = EXCLUDED.governance,
			overall = EXCLUDED.overall,
			warnings = EXCLUDED.warnings,
			computed_at = EXCLUDED.computed_at`,
		res.CompanyID, res.Period, res.Environmental, res.Social, res.Governance,
		res.Overall, warningsJSON, res.ComputedAt,
	)
	return eris.Wrapf(err, "postgres: upsert score for %s %s", res.CompanyID, res.Period)
}

func (s *PostgresStore) GetScore(ctx context.Context, companyID, period string) (*model.ScoreResult, error) {
	var res model.ScoreResult
	var warningsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT company_id, period, environmental, social, governance, overall, warnings, computed_at
		 FROM esg_scores WHERE company_id = $1 AND period = $2`,
		companyID, period,
	).Scan(&res.CompanyID, &res.Period, &res.Environmental, &res.Social, &res.Governance,
		&res.Overall, &warningsJSON, &res.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get score for %s %s", companyID, period)
	}
	if err := json.Unmarshal(warningsJSON, &res.Warnings); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal warnings")
	}
	return &res, nil
}

// CreateTask inserts a task. The partial unique index on
// (company_id, source_id) makes a second open automatic task for the
// same gap a silent no-op; the returned bool reports whether a row was
// actually written.
func (s *PostgresStore) CreateTask(ctx context.Context, t model.Task) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, company_id, user_id, title, pillar, priority, status, due_date, source, source_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (company_id, source_id)
			WHERE status IN ('pending', 'in_progress') AND source <> 'manual'
			DO NOTHING`,
		t.ID, t.CompanyID, t.UserID, t.Title, string(t.Pillar), string(t.Priority),
		string(t.Status), t.DueDate, string(t.Source), t.SourceID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: insert task %s", t.ID)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, companyID string, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT id, company_id, user_id, title, pillar, priority, status, due_date, source, source_id, created_at, updated_at, completed_at
		 FROM tasks WHERE company_id = $1`
	args := []any{companyID}
	argIdx := 2

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Source != "" {
		query += fmt.Sprintf(` AND source = $%d`, argIdx)
		args = append(args, string(filter.Source))
		argIdx++
	}
	if filter.Pillar != "" {
		query += fmt.Sprintf(` AND pillar = $%d`, argIdx)
		args = append(args, string(filter.Pillar))
		argIdx++
	}
	query += ` ORDER BY due_date ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list tasks for %s", companyID)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *PostgresStore) ListOpenAutoTasks(ctx context.Context, companyID string) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, user_id, title, pillar, priority, status, due_date, source, source_id, created_at, updated_at, completed_at
		 FROM tasks
		 WHERE company_id = $1 AND status IN ('pending', 'in_progress') AND source <> 'manual'
		 ORDER BY created_at ASC`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list open auto tasks for %s", companyID)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]model.Task, error) {
	var out []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.UserID, &t.Title, &t.Pillar, &t.Priority,
			&t.Status, &t.DueDate, &t.Source, &t.SourceID, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan task")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list tasks iterate")
}

func (s *PostgresStore) UpdateTaskStatus(ctx context.Context, taskID string, status model.TaskStatus) error {
	now := time.Now().UTC()
	var completedAt *time.Time
	if status == model.TaskStatusCompleted {
		completedAt = &now
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, updated_at = $2, completed_at = $3 WHERE id = $4`,
		string(status), now, completedAt, taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update task status %s", taskID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("task not found: %s", taskID)
	}
	return nil
}

func (s *PostgresStore) MarkOverdue(ctx context.Context, companyID string, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET status = 'overdue', updated_at = $1
		 WHERE company_id = $2 AND status IN ('pending', 'in_progress') AND due_date < $1`,
		now, companyID,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: mark overdue for %s", companyID)
	}
	return int(tag.RowsAffected()), nil
}
