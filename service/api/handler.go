// Package api exposes the planner runtime over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/viant/mvplanning"
	"github.com/viant/mvplanning/model"
	"github.com/viant/mvplanning/policy"
	"github.com/viant/mvplanning/progress"
	"github.com/viant/mvplanning/service/allocator"
	"github.com/viant/mvplanning/service/catalog"
	"github.com/viant/mvplanning/service/dao"
	"github.com/viant/mvplanning/service/dao/assignment"
)

// SubmitRequest is the body of POST /tasks. Profile takes precedence over ProfileID.
type SubmitRequest struct {
	PlanID    string          `json:"planId"`
	ProfileID string          `json:"profileId,omitempty"`
	Profile   *model.Profile  `json:"profile,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Policy    *policy.Config  `json:"policy,omitempty"`
}

// SubmitResponse is returned by POST /tasks
type SubmitResponse struct {
	PlanID  string        `json:"planId"`
	Outcome model.Outcome `json:"outcome"`
}

// Stats is returned by GET /stats
type Stats struct {
	progress.Snapshot
	Available []string `json:"available"`
	Profiles  []string `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the control API
type Handler struct {
	runtime  *mvplanning.Runtime
	gatherer prometheus.Gatherer
	logger   *logrus.Entry
	router   *chi.Mux
}

// New creates a handler
func New(runtime *mvplanning.Runtime, gatherer prometheus.Gatherer, logger *logrus.Entry) *Handler {
	ret := &Handler{runtime: runtime, gatherer: gatherer, logger: logger}
	ret.router = ret.routes()
	return ret
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(h.logRequests)

	router.Post("/tasks", h.submit)
	router.Post("/vehicles/{id}/available", h.setAvailable(true))
	router.Post("/vehicles/{id}/unavailable", h.setAvailable(false))
	router.Get("/pending", h.pending)
	router.Get("/deadletters", h.deadLetters)
	router.Get("/assignments", h.assignments)
	router.Get("/profiles", h.profiles)
	router.Get("/profiles/{id}/roster", h.roster)
	router.Get("/stats", h.stats)
	if h.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return router
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"elapsed":   time.Since(started).String(),
			"requestId": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	request := &SubmitRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := r.Context()
	if request.Policy != nil {
		ctx = policy.WithPolicy(ctx, policy.FromConfig(request.Policy))
	}
	var outcome model.Outcome
	var err error
	if request.Profile != nil {
		outcome, err = h.runtime.Submit(ctx, model.NewPlanTask(request.PlanID, request.Profile, request.Payload))
	} else {
		outcome, err = h.runtime.SubmitByProfile(ctx, request.PlanID, request.ProfileID, request.Payload)
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, &SubmitResponse{PlanID: request.PlanID, Outcome: outcome})
	case errors.Is(err, allocator.ErrInvalidTask):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, catalog.ErrUnknownProfile):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) setAvailable(available bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.runtime.SetAvailable(r.Context(), chi.URLParam(r, "id"), available)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, mvplanning.ErrNoTracker):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, allocator.ErrInvalidVehicle):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runtime.Pending())
}

func (h *Handler) deadLetters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runtime.DeadLetters())
}

func (h *Handler) assignments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var parameters []*dao.Parameter
	for name, param := range map[string]string{"plan": assignment.ParamPlanID, "profile": assignment.ParamProfileID, "vehicle": assignment.ParamVehicle} {
		if values, ok := query[name]; ok && len(values) > 0 {
			parameters = append(parameters, dao.NewParameter(param, values...))
		}
	}
	records, err := h.runtime.Assignments(r.Context(), parameters...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []*model.Assignment{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) profiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runtime.Profiles())
}

func (h *Handler) roster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	roster, ok := h.runtime.Roster(id)
	if !ok {
		writeError(w, http.StatusNotFound, catalog.ErrUnknownProfile)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": id, "vehicles": roster})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats := &Stats{Snapshot: h.runtime.Progress(), Available: h.runtime.AvailableVehicles()}
	for _, profile := range h.runtime.Profiles() {
		stats.Profiles = append(stats.Profiles, profile.ID)
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, &errorResponse{Error: err.Error()})
}
