package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ethica/domain/core"
	"ethica/internal/logging"
	"ethica/ports"
)

// AuditApp is the read-only audit trail HTTP surface
type AuditApp struct {
	router *chi.Mux
	store  ports.AuditStore
	logger *logging.Logger
}

// NewAuditApp creates the audit router over the given store
func NewAuditApp(store ports.AuditStore, logger *logging.Logger) *AuditApp {
	a := &AuditApp{
		router: chi.NewRouter(),
		store:  store,
		logger: logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *AuditApp) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

func (a *AuditApp) setupRoutes() {
	a.router.Get("/audit/decisions", a.handleDecisions)
	a.router.Get("/audit/decisions/{id}", a.handleDecisionByID)
	a.router.Get("/audit/incidents", a.handleIncidents)
	a.router.Get("/audit/incidents/{id}", a.handleIncidentByID)
}

// Handler exposes the router for tests and custom servers
func (a *AuditApp) Handler() http.Handler {
	return a.router
}

// Start runs the audit server on the given address
func (a *AuditApp) Start(addr string) error {
	a.logger.Info("audit API listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *AuditApp) handleDecisions(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r, ports.KindDecision)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.query(w, r, filters)
}

func (a *AuditApp) handleIncidents(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r, ports.KindIncident)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.query(w, r, filters)
}

func (a *AuditApp) handleDecisionByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := a.queryOne(r, ports.AuditFilters{Kind: ports.KindDecision, ID: id})
	if err != nil {
		a.renderLookupError(w, err, core.NewDecisionNotFoundError(core.DecisionID(id)))
		return
	}
	writeJSON(w, record)
}

func (a *AuditApp) handleIncidentByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := a.queryOne(r, ports.AuditFilters{Kind: ports.KindIncident, ID: id})
	if err != nil {
		a.renderLookupError(w, err, core.NewIncidentNotFoundError(core.IncidentID(id)))
		return
	}
	writeJSON(w, record)
}

// queryOne returns the single record matching the filters, or ErrNotFound
func (a *AuditApp) queryOne(r *http.Request, filters ports.AuditFilters) (ports.AuditRecord, error) {
	records, err := a.store.Query(r.Context(), filters)
	if err != nil {
		return ports.AuditRecord{}, err
	}
	if len(records) == 0 {
		return ports.AuditRecord{}, core.ErrNotFound
	}
	return records[0], nil
}

func (a *AuditApp) renderLookupError(w http.ResponseWriter, err, notFound error) {
	if core.IsNotFoundError(err) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	a.logger.Error("audit lookup failed: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (a *AuditApp) query(w http.ResponseWriter, r *http.Request, filters ports.AuditFilters) {
	records, err := a.store.Query(r.Context(), filters)
	if err != nil {
		a.logger.Error("audit query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, map[string]any{
		"count":   len(records),
		"records": records,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func parseFilters(r *http.Request, kind ports.RecordKind) (ports.AuditFilters, error) {
	q := r.URL.Query()
	filters := ports.AuditFilters{
		Kind:     kind,
		Severity: q.Get("severity"),
		Status:   q.Get("status"),
	}

	if v := q.Get("model_id"); v != "" {
		id, err := core.ParseModelID(v)
		if err != nil {
			return filters, err
		}
		filters.ModelID = id
	}
	if v := q.Get("from"); v != "" {
		t, err := core.ParseISO8601(v)
		if err != nil {
			return filters, err
		}
		filters.From = t.Time()
	}
	if v := q.Get("to"); v != "" {
		t, err := core.ParseISO8601(v)
		if err != nil {
			return filters, err
		}
		filters.To = t.Time()
	}
	return filters, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
