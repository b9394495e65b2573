package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/namitkumarsingh97/ecotrack-product-server/internal/engine"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/model"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/scoring"
	"github.com/namitkumarsingh97/ecotrack-product-server/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newMux(eng, st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newMux(eng *engine.Engine, st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("PUT /companies/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name          string `json:"name"`
			Industry      string `json:"industry"`
			PlanTier      string `json:"plan_tier"`
			EmployeeCount int    `json:"employee_count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		now := time.Now().UTC()
		c := model.CompanyProfile{
			ID:            r.PathValue("id"),
			Name:          req.Name,
			Industry:      req.Industry,
			PlanTier:      model.PlanTier(req.PlanTier),
			EmployeeCount: req.EmployeeCount,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := st.UpsertCompany(r.Context(), c); err != nil {
			serveInternalError(w, "upsert company", err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	})

	mux.HandleFunc("POST /companies/{id}/metrics/{pillar}", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Period string         `json:"period"`
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Period == "" {
			writeError(w, http.StatusBadRequest, "period is required")
			return
		}
		pillar := model.Pillar(r.PathValue("pillar"))
		if !pillar.Valid() {
			writeError(w, http.StatusBadRequest, "unknown pillar")
			return
		}
		snap, err := eng.RecordSnapshot(r.Context(), r.PathValue("id"), req.Period, pillar, req.Fields)
		if err != nil {
			serveInternalError(w, "record snapshot", err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	})

	mux.HandleFunc("POST /companies/{id}/evidence", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EvidenceType string     `json:"evidence_type"`
			FileName     string     `json:"file_name"`
			ExpiryDate   *time.Time `json:"expiry_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.EvidenceType == "" {
			writeError(w, http.StatusBadRequest, "evidence_type is required")
			return
		}
		rec, err := eng.AddEvidence(r.Context(), r.PathValue("id"), req.EvidenceType, req.FileName, req.ExpiryDate)
		if err != nil {
			serveInternalError(w, "add evidence", err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	})

	mux.HandleFunc("GET /companies/{id}/scores", func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			writeError(w, http.StatusBadRequest, "period query parameter is required")
			return
		}
		res, err := eng.ComputeScores(r.Context(), r.PathValue("id"), period)
		if err != nil {
			var missing *scoring.MissingMetricsError
			if errors.As(err, &missing) {
				writeError(w, http.StatusUnprocessableEntity, missing.Error())
				return
			}
			serveInternalError(w, "compute scores", err)
			return
		}
		if err := st.UpsertScore(r.Context(), res); err != nil {
			serveInternalError(w, "persist scores", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("GET /companies/{id}/completeness", func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			writeError(w, http.StatusBadRequest, "period query parameter is required")
			return
		}
		res, err := eng.Completeness(r.Context(), r.PathValue("id"), period)
		if err != nil {
			serveInternalError(w, "analyze completeness", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("GET /companies/{id}/readiness", func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			writeError(w, http.StatusBadRequest, "period query parameter is required")
			return
		}
		res, err := eng.Readiness(r.Context(), r.PathValue("id"), period)
		if err != nil {
			serveInternalError(w, "evaluate readiness", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	mux.HandleFunc("POST /companies/{id}/tasks/sync", func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			writeError(w, http.StatusBadRequest, "period query parameter is required")
			return
		}
		report, err := eng.SyncTasks(r.Context(), r.PathValue("id"), r.URL.Query().Get("user"), period)
		if err != nil {
			serveInternalError(w, "sync tasks", err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	mux.HandleFunc("GET /companies/{id}/tasks", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tasks, err := st.ListTasks(r.Context(), r.PathValue("id"), store.TaskFilter{
			Status: model.TaskStatus(q.Get("status")),
			Source: model.TaskSource(q.Get("source")),
			Pillar: model.Pillar(q.Get("pillar")),
		})
		if err != nil {
			serveInternalError(w, "list tasks", err)
			return
		}
		if tasks == nil {
			tasks = []model.Task{}
		}
		writeJSON(w, http.StatusOK, tasks)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func serveInternalError(w http.ResponseWriter, op string, err error) {
	zap.L().Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, op+" failed")
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
