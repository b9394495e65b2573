package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/config"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/engine"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	return newMux(engine.New(st, config.EngineConfig{}), st)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestServeHealth(t *testing.T) {
	mux := newTestMux(t)

	rr := doJSON(t, mux, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServeScoresRequiresAllPillars(t *testing.T) {
	mux := newTestMux(t)

	rr := doJSON(t, mux, http.MethodGet, "/companies/co-1/scores?period=2024-25", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "environmental")
}

func TestServeScoresMissingPeriod(t *testing.T) {
	mux := newTestMux(t)

	rr := doJSON(t, mux, http.MethodGet, "/companies/co-1/scores", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServeEndToEnd(t *testing.T) {
	mux := newTestMux(t)

	rr := doJSON(t, mux, http.MethodPut, "/companies/co-1", map[string]any{
		"name":           "Acme Textiles",
		"industry":       "manufacturing",
		"plan_tier":      "growth",
		"employee_count": 150,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Legacy field names must be accepted and folded at ingestion.
	rr = doJSON(t, mux, http.MethodPost, "/companies/co-1/metrics/environmental", map[string]any{
		"period": "2024-25",
		"fields": map[string]any{"energyConsumptionKwh": 45000.0, "renewablePercent": 20.0},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var snap model.MetricSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.True(t, snap.Present("electricityUsageKwh"))

	rr = doJSON(t, mux, http.MethodPost, "/companies/co-1/metrics/social", map[string]any{
		"period": "2024-25",
		"fields": map[string]any{"totalEmployees": 150.0, "femaleEmployeePercent": 32.0},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, mux, http.MethodPost, "/companies/co-1/metrics/governance", map[string]any{
		"period": "2024-25",
		"fields": map[string]any{"boardMembers": 5.0, "independentDirectors": 3.0},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	expiry := time.Now().UTC().Add(10 * 24 * time.Hour)
	rr = doJSON(t, mux, http.MethodPost, "/companies/co-1/evidence", map[string]any{
		"evidence_type": "ISO 14001 certificate",
		"file_name":     "iso14001.pdf",
		"expiry_date":   expiry,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, mux, http.MethodGet, "/companies/co-1/scores?period=2024-25", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var score model.ScoreResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &score))
	assert.InDelta(t, 98.0, score.Environmental, 0.001)
	assert.Empty(t, score.Warnings)

	rr = doJSON(t, mux, http.MethodGet, "/companies/co-1/readiness?period=2024-25", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var readiness struct {
		OverallPercent int `json:"overall_percent"`
		Pillars        map[model.Pillar]struct {
			Covered int `json:"covered"`
			Total   int `json:"total"`
		} `json:"pillars"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &readiness))
	assert.Greater(t, readiness.OverallPercent, 0)
	assert.Equal(t, 3, readiness.Pillars[model.PillarEnvironmental].Covered)

	rr = doJSON(t, mux, http.MethodGet, "/companies/co-1/completeness?period=2024-25", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, mux, http.MethodPost, "/companies/co-1/tasks/sync?period=2024-25&user=user-42", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var sync engine.SyncReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sync))
	assert.Greater(t, sync.Created, 0)

	rr = doJSON(t, mux, http.MethodGet, "/companies/co-1/tasks?status=pending", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	assert.Len(t, tasks, sync.Created)
	for _, task := range tasks {
		assert.Equal(t, "user-42", task.UserID, "sync attributes tasks to the requesting user")
	}

	// Second sync run is idempotent.
	rr = doJSON(t, mux, http.MethodPost, "/companies/co-1/tasks/sync?period=2024-25", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sync))
	assert.Zero(t, sync.Created)
}

func TestServeRejectsUnknownPillar(t *testing.T) {
	mux := newTestMux(t)

	rr := doJSON(t, mux, http.MethodPost, "/companies/co-1/metrics/financial", map[string]any{
		"period": "2024-25",
		"fields": map[string]any{"x": 1.0},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
