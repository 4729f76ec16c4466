package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/narwhalmedia/marquee/internal/application/dashboard"
	"github.com/narwhalmedia/marquee/internal/catalog"
	"github.com/narwhalmedia/marquee/internal/owned/domain"
	ownservice "github.com/narwhalmedia/marquee/internal/owned/service"
	apperrors "github.com/narwhalmedia/marquee/pkg/errors"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// DashboardService is the read side the API serves from.
type DashboardService interface {
	Metrics(ctx context.Context, refresh bool) (*catalog.AggregatedMetrics, error)
	Lists(ctx context.Context, refresh bool) (*catalog.MovieLists, error)
	Collections(ctx context.Context) ([]dashboard.Section, error)
	Explain(ctx context.Context, title string) (string, error)
}

var _ DashboardService = (*dashboard.Service)(nil)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the dashboard JSON API
type Handler struct {
	dashboard DashboardService
	store     ownservice.StoreInterface
	checks    map[string]ReadinessCheck
	logger    interfaces.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	dashboardSvc DashboardService,
	store ownservice.StoreInterface,
	checks map[string]ReadinessCheck,
	logger interfaces.Logger,
) *Handler {
	return &Handler{
		dashboard: dashboardSvc,
		store:     store,
		checks:    checks,
		logger:    logger,
	}
}

func refreshParam(r *http.Request) bool {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return refresh
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready runs every readiness check
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	results := make(map[string]string, len(h.checks))
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := map[string]interface{}{"status": "ready", "checks": results}
	if status != http.StatusOK {
		body["status"] = "not ready"
	}
	writeJSON(w, status, body)
}

// Metrics returns the dashboard summary
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboard.Metrics(r.Context(), refreshParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// Lists returns the catalog lists
func (h *Handler) Lists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.dashboard.Lists(r.Context(), refreshParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// Collections returns the movies page sections
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.dashboard.Collections(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sections": sections})
}

// Vocabulary returns the genre choices of the movie form
func (h *Handler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"genres": domain.Vocabulary})
}

type explanationRequest struct {
	Title string `json:"title"`
}

type explanationResponse struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

// Explain returns a storyteller paragraph for a movie title
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var req explanationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	text, err := h.dashboard.Explain(r.Context(), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explanationResponse{Title: req.Title, Explanation: text})
}

// ListOwnMovies returns the own collection
func (h *Handler) ListOwnMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

type ownMovieResponse struct {
	Movie domain.OwnMovie        `json:"movie"`
	Form  domain.MovieFormValues `json:"form"`
}

// GetOwnMovie returns one own movie with its editable values
func (h *Handler) GetOwnMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ownMovieResponse{Movie: movie, Form: movie.Form})
}

// CreateOwnMovie validates and stores a new own movie
func (h *Handler) CreateOwnMovie(w http.ResponseWriter, r *http.Request) {
	var form domain.MovieFormValues
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	movie, err := h.store.Create(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/own-movies/"+movie.ID)
	writeJSON(w, http.StatusCreated, movie)
}

// UpdateOwnMovie merges the form into an existing own movie
func (h *Handler) UpdateOwnMovie(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var form domain.MovieFormValues
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	movie, updated, err := h.store.Update(r.Context(), id, form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !updated {
		writeError(w, r, apperrors.Wrap(apperrors.ErrorTypeNotFound, "own movie not found", domain.ErrOwnMovieNotFound))
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// DeleteOwnMovie removes an own movie. Deleting a missing id succeeds.
func (h *Handler) DeleteOwnMovie(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
