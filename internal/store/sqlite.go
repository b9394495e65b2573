package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Suitable for
// single-tenant and local development deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	industry       TEXT NOT NULL DEFAULT '',
	plan_tier      TEXT NOT NULL DEFAULT 'starter',
	employee_count INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS metric_snapshots (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	period     TEXT NOT NULL,
	pillar     TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_lookup
	ON metric_snapshots(company_id, period, pillar, created_at DESC);

CREATE TABLE IF NOT EXISTS evidence (
	id            TEXT PRIMARY KEY,
	company_id    TEXT NOT NULL,
	evidence_type TEXT NOT NULL,
	file_name     TEXT NOT NULL DEFAULT '',
	expiry_date   DATETIME,
	uploaded_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evidence_company ON evidence(company_id);

CREATE TABLE IF NOT EXISTS esg_scores (
	company_id    TEXT NOT NULL,
	period        TEXT NOT NULL,
	environmental REAL NOT NULL,
	social        REAL NOT NULL,
	governance    REAL NOT NULL,
	overall       REAL NOT NULL,
	warnings      TEXT NOT NULL DEFAULT '[]',
	computed_at   DATETIME NOT NULL,
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
	due_date     DATETIME NOT NULL,
	source       TEXT NOT NULL,
	source_id    TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tasks_company ON tasks(company_id, status);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_open_source
	ON tasks(company_id, source_id)
	WHERE status IN ('pending', 'in_progress') AND source <> 'manual';
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertCompany(ctx context.Context, c model.CompanyProfile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, industry, plan_tier, employee_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			plan_tier = excluded.plan_tier,
			employee_count = excluded.employee_count,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Industry, string(c.PlanTier), c.EmployeeCount, c.CreatedAt, c.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert company %s", c.ID)
}

func (s *SQLiteStore) GetCompany(ctx context.Context, companyID string) (*model.CompanyProfile, error) {
	var c model.CompanyProfile
	var planTier string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, industry, plan_tier, employee_count, created_at, updated_at
		 FROM companies WHERE id = ?`,
		companyID,
	).Scan(&c.ID, &c.Name, &c.Industry, &planTier, &c.EmployeeCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get company %s", companyID)
	}
	c.PlanTier = model.PlanTier(planTier)
	return &c, nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *model.MetricSnapshot) error {
	fieldsJSON, err := json.Marshal(snap.Fields)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal fields")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO metric_snapshots (id, company_id, period, pillar, fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.CompanyID, snap.Period, string(snap.Pillar), string(fieldsJSON), snap.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert snapshot for %s", snap.CompanyID)
}

func (s *SQLiteStore) GetLatestSnapshot(ctx context.Context, companyID, period string, pillar model.Pillar) (*model.MetricSnapshot, error) {
	var snap model.MetricSnapshot
	var pillarStr, fieldsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, period, pillar, fields, created_at
		 FROM metric_snapshots
		 WHERE company_id = ? AND period = ? AND pillar = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		companyID, period, string(pillar),
	).Scan(&snap.ID, &snap.CompanyID, &snap.Period, &pillarStr, &fieldsJSON, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get latest %s snapshot for %s", pillar, companyID)
	}
	snap.Pillar = model.Pillar(pillarStr)
	if err := json.Unmarshal([]byte(fieldsJSON), &snap.Fields); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal fields")
	}
	return &snap, nil
}

func (s *SQLiteStore) AddEvidence(ctx context.Context, rec *model.EvidenceRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evidence (id, company_id, evidence_type, file_name, expiry_date, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CompanyID, rec.EvidenceType, rec.FileName, rec.ExpiryDate, rec.UploadedAt,
	)
	return eris.Wrapf(err, "sqlite: insert evidence for %s", rec.CompanyID)
}

func (s *SQLiteStore) ListEvidence(ctx context.Context, companyID string) ([]model.EvidenceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, evidence_type, file_name, expiry_date, uploaded_at
		 FROM evidence WHERE company_id = ? ORDER BY uploaded_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list evidence for %s", companyID)
	}
	defer rows.Close()

	var out []model.EvidenceRecord
	for rows.Next() {
		var e model.EvidenceRecord
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.EvidenceType, &e.FileName, &e.ExpiryDate, &e.UploadedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan evidence")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list evidence iterate")
}

func (s *SQLiteStore) UpsertScore(ctx context.Context, res *model.ScoreResult) error {
	warningsJSON, err := json.Marshal(res.Warnings)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal warnings")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO esg_scores (company_id, period, environmental, social, governance, overall, warnings, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (company_id, period) DO UPDATE SET
			environmental = excluded.environmental,
			social = excluded.social,
			governance = excluded.governance,
			overall = excluded.overall,
			warnings = excluded.warnings,
			computed_at = excluded.computed_at`,
		res.CompanyID, res.Period, res.Environmental, res.Social, res.Governance,
		res.Overall, string(warningsJSON), res.ComputedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert score for %s %s", res.CompanyID, res.Period)
}

func (s *SQLiteStore) GetScore(ctx context.Context, companyID, period string) (*model.ScoreResult, error) {
	var res model.ScoreResult
	var warningsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT company_id, period, environmental, social, governance, overall, warnings, computed_at
		 FROM esg_scores WHERE company_id = ? AND period = ?`,
		companyID, period,
	).Scan(&res.CompanyID, &res.Period, &res.Environmental, &res.Social, &res.Governance,
		&res.Overall, &warningsJSON, &res.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get score for %s %s", companyID, period)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &res.Warnings); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal warnings")
	}
	return &res, nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, t model.Task) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tasks (id, company_id, user_id, title, pillar, priority, status, due_date, source, source_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CompanyID, t.UserID, t.Title, string(t.Pillar), string(t.Priority),
		string(t.Status), t.DueDate, string(t.Source), t.SourceID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: insert task %s", t.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context, companyID string, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT id, company_id, user_id, title, pillar, priority, status, due_date, source, source_id, created_at, updated_at, completed_at
		 FROM tasks WHERE company_id = ?`
	args := []any{companyID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	if filter.Pillar != "" {
		query += ` AND pillar = ?`
		args = append(args, string(filter.Pillar))
	}
	query += ` ORDER BY due_date ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list tasks for %s", companyID)
	}
	defer rows.Close()
	return scanSQLiteTasks(rows)
}

func (s *SQLiteStore) ListOpenAutoTasks(ctx context.Context, companyID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, user_id, title, pillar, priority, status, due_date, source, source_id, created_at, updated_at, completed_at
		 FROM tasks
		 WHERE company_id = ? AND status IN ('pending', 'in_progress') AND source <> 'manual'
		 ORDER BY created_at ASC`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list open auto tasks for %s", companyID)
	}
	defer rows.Close()
	return scanSQLiteTasks(rows)
}

func scanSQLiteTasks(rows *sql.Rows) ([]model.Task, error) {
	var out []model.Task
	for rows.Next() {
		var t model.Task
		var pillar, priority, status, source string
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.UserID, &t.Title, &pillar, &priority,
			&status, &t.DueDate, &source, &t.SourceID, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan task")
		}
		t.Pillar = model.Pillar(pillar)
		t.Priority = model.TaskPriority(priority)
		t.Status = model.TaskStatus(status)
		t.Source = model.TaskSource(source)
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list tasks iterate")
}

func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, taskID string, status model.TaskStatus) error {
	now := time.Now().UTC()
	var completedAt *time.Time
	if status == model.TaskStatusCompleted {
		completedAt = &now
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		string(status), now, completedAt, taskID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update task status %s", taskID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("task not found: %s", taskID)
	}
	return nil
}

func (s *SQLiteStore) MarkOverdue(ctx context.Context, companyID string, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = 'overdue', updated_at = ?
		 WHERE company_id = ? AND status IN ('pending', 'in_progress') AND due_date < ?`,
		now, companyID, now,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: mark overdue for %s", companyID)
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
