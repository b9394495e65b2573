// Package engine orchestrates the scoring, completeness, readiness and
// task-sync operations over a Store. It owns no persistence of results:
// callers decide what to upsert.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/completeness"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/compliance"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/config"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/scoring"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/tasks"
)

// Engine wires the pure calculators to a Store.
type Engine struct {
	store store.Store
	cfg   config.EngineConfig
	now   func() time.Time
}

// New creates an Engine. Zero config values fall back to the documented
// defaults.
func New(st store.Store, cfg config.EngineConfig) *Engine {
	if cfg.FallbackEmployeeCount <= 0 {
		cfg.FallbackEmployeeCount = config.DefaultFallbackEmployeeCount
	}
	if cfg.EvidenceExpiryWindowDays <= 0 {
		cfg.EvidenceExpiryWindowDays = config.DefaultEvidenceExpiryWindowDays
	}
	if cfg.MaxNextSteps <= 0 {
		cfg.MaxNextSteps = compliance.DefaultMaxNextSteps
	}
	return &Engine{store: st, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// RecordSnapshot normalizes the raw field map (legacy aliases folded,
// derived fields computed) and persists it as the newest snapshot for
// the pillar. Normalization happens here, once, so every downstream
// reader sees canonical keys only.
func (e *Engine) RecordSnapshot(ctx context.Context, companyID, period string, pillar model.Pillar, fields map[string]any) (*model.MetricSnapshot, error) {
	if !pillar.Valid() {
		return nil, eris.Errorf("engine: unknown pillar %q", pillar)
	}
	snap := &model.MetricSnapshot{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Period:    period,
		Pillar:    pillar,
		Fields:    model.NormalizeFields(fields),
		CreatedAt: e.now(),
	}
	if err := e.store.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// AddEvidence stores an uploaded evidence document.
func (e *Engine) AddEvidence(ctx context.Context, companyID, evidenceType, fileName string, expiry *time.Time) (*model.EvidenceRecord, error) {
	rec := &model.EvidenceRecord{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		EvidenceType: evidenceType,
		FileName:     fileName,
		ExpiryDate:   expiry,
		UploadedAt:   e.now(),
	}
	if err := e.store.AddEvidence(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// fetchInputs loads the three latest pillar snapshots and the company
// profile concurrently.
func (e *Engine) fetchInputs(ctx context.Context, companyID, period string) (compliance.PillarSnapshots, *model.CompanyProfile, error) {
	var snaps compliance.PillarSnapshots
	var profile *model.CompanyProfile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snaps.Environmental, err = e.store.GetLatestSnapshot(gctx, companyID, period, model.PillarEnvironmental)
		return err
	})
	g.Go(func() (err error) {
		snaps.Social, err = e.store.GetLatestSnapshot(gctx, companyID, period, model.PillarSocial)
		return err
	})
	g.Go(func() (err error) {
		snaps.Governance, err = e.store.GetLatestSnapshot(gctx, companyID, period, model.PillarGovernance)
		return err
	})
	g.Go(func() (err error) {
		profile, err = e.store.GetCompany(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return compliance.PillarSnapshots{}, nil, eris.Wrapf(err, "engine: fetch inputs for %s %s", companyID, period)
	}
	return snaps, profile, nil
}

// ComputeScores calculates the four ESG scores from the latest
// snapshots. The result is not persisted.
func (e *Engine) ComputeScores(ctx context.Context, companyID, period string) (*model.ScoreResult, error) {
	snaps, profile, err := e.fetchInputs(ctx, companyID, period)
	if err != nil {
		return nil, err
	}
	return scoring.Compute(scoring.Input{
		CompanyID:     companyID,
		Period:        period,
		Environmental: snaps.Environmental,
		Social:        snaps.Social,
		Governance:    snaps.Governance,
		Company:       profile,
	}, e.cfg.FallbackEmployeeCount)
}

// PillarCompleteness pairs the field-level completeness breakdown with
// the score-impact explanation for one pillar.
type PillarCompleteness struct {
	completeness.Result
	Impact string `json:"impact,omitempty"`
}

// Completeness analyzes data completeness for all three pillars. When
// scores are computable the per-pillar impact explanation is attached;
// a scoring failure leaves Impact empty rather than failing the
// analysis.
func (e *Engine) Completeness(ctx context.Context, companyID, period string) (map[model.Pillar]PillarCompleteness, error) {
	snaps, profile, err := e.fetchInputs(ctx, companyID, period)
	if err != nil {
		return nil, err
	}

	out := make(map[model.Pillar]PillarCompleteness, 3)
	for _, p := range model.Pillars() {
		out[p] = PillarCompleteness{Result: completeness.Analyze(p, snaps.ForPillar(p))}
	}

	score, err := scoring.Compute(scoring.Input{
		CompanyID:     companyID,
		Period:        period,
		Environmental: snaps.Environmental,
		Social:        snaps.Social,
		Governance:    snaps.Governance,
		Company:       profile,
	}, e.cfg.FallbackEmployeeCount)
	if err != nil {
		zap.L().Debug("completeness without impact, scores unavailable",
			zap.String("company_id", companyID),
			zap.String("period", period),
			zap.Error(err))
		return out, nil
	}

	pillarScore := map[model.Pillar]float64{
		model.PillarEnvironmental: score.Environmental,
		model.PillarSocial:        score.Social,
		model.PillarGovernance:    score.Governance,
	}
	for p, pc := range out {
		pc.Impact = completeness.ImpactExplanation(p, pillarScore[p], pc.MissingCritical)
		out[p] = pc
	}
	return out, nil
}

// Readiness evaluates BRSR disclosure readiness from the latest
// snapshots and the evidence library.
func (e *Engine) Readiness(ctx context.Context, companyID, period string) (*compliance.ReadinessResult, error) {
	snaps, _, err := e.fetchInputs(ctx, companyID, period)
	if err != nil {
		return nil, err
	}
	evidence, err := e.store.ListEvidence(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return compliance.AggregateReadiness(companyID, period, snaps, evidence, e.cfg.MaxNextSteps), nil
}

// SyncReport summarizes one task synchronization run.
type SyncReport struct {
	CompanyID string   `json:"company_id"`
	Period    string   `json:"period"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Overdue   int      `json:"overdue"`
	Failures  []string `json:"failures,omitempty"`
}

// SyncTasks regenerates the automatic task backlog for one
// company+period. Generated tasks are attributed to userID, which may
// be empty for unattended runs. Each generator block is isolated: a
// failing block is logged and recorded on the report while the others
// still apply. Manual tasks are never touched.
func (e *Engine) SyncTasks(ctx context.Context, companyID, userID, period string) (*SyncReport, error) {
	now := e.now()
	report := &SyncReport{CompanyID: companyID, Period: period}
	var generated []model.Task

	snaps, _, snapErr := e.fetchInputs(ctx, companyID, period)
	if snapErr != nil {
		// The compliance and missing-data generators need snapshots;
		// the evidence generator and the overdue sweep still run.
		zap.L().Error("task sync: snapshot fetch failed",
			zap.String("company_id", companyID), zap.Error(snapErr))
		report.Failures = append(report.Failures, "snapshot fetch: "+snapErr.Error())
	}
	evidence, evErr := e.store.ListEvidence(ctx, companyID)
	if evErr != nil {
		zap.L().Error("task sync: evidence list failed",
			zap.String("company_id", companyID), zap.Error(evErr))
		report.Failures = append(report.Failures, "evidence list: "+evErr.Error())
		evidence = nil
	}

	if snapErr == nil {
		readiness := compliance.AggregateReadiness(companyID, period, snaps, evidence, e.cfg.MaxNextSteps)
		generated = append(generated, tasks.FromNextSteps(companyID, userID, readiness.NextSteps, now)...)
		generated = append(generated, tasks.FromMissingCriticalData(companyID, userID, snaps, now)...)
	}
	if evErr == nil {
		window := time.Duration(e.cfg.EvidenceExpiryWindowDays) * 24 * time.Hour
		generated = append(generated, tasks.FromExpiringEvidence(companyID, userID, evidence, now, window)...)
	}

	existing, err := e.store.ListOpenAutoTasks(ctx, companyID)
	if err != nil {
		// The store-level unique index still guards against duplicates,
		// so apply with an empty view rather than dropping the run.
		zap.L().Error("task sync: open task list failed",
			zap.String("company_id", companyID), zap.Error(err))
		report.Failures = append(report.Failures, "open task list: "+err.Error())
		existing = nil
	}

	plan := tasks.Reconcile(generated, existing)
	report.Skipped = plan.Skipped
	for _, t := range plan.Create {
		created, err := e.store.CreateTask(ctx, t)
		if err != nil {
			zap.L().Error("task sync: create failed",
				zap.String("company_id", companyID),
				zap.String("source_id", t.SourceID), zap.Error(err))
			report.Failures = append(report.Failures, "create "+t.SourceID+": "+err.Error())
			continue
		}
		if created {
			report.Created++
		} else {
			report.Skipped++
		}
	}

	overdue, err := e.store.MarkOverdue(ctx, companyID, now)
	if err != nil {
		zap.L().Error("task sync: overdue sweep failed",
			zap.String("company_id", companyID), zap.Error(err))
		report.Failures = append(report.Failures, "overdue sweep: "+err.Error())
	}
	report.Overdue = overdue

	zap.L().Info("task sync complete",
		zap.String("company_id", companyID),
		zap.String("period", period),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("overdue", report.Overdue),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}
