package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter constructs the API router with its middleware chain.
func NewRouter(h *Handler, allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()

	r.Use(
		recoveryMiddleware,
		requestIDMiddleware(h.logger),
		loggingMiddleware,
		corsMiddleware(allowedOrigins),
	)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/dashboard/metrics", h.Metrics).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/movies/lists", h.Lists).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/movies/collections", h.Collections).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/genres/vocabulary", h.Vocabulary).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/explanations", h.Explain).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/own-movies", h.ListOwnMovies).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/own-movies", h.CreateOwnMovie).Methods(http.MethodPost)
	api.HandleFunc("/own-movies/{id}", h.GetOwnMovie).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/own-movies/{id}", h.UpdateOwnMovie).Methods(http.MethodPut)
	api.HandleFunc("/own-movies/{id}", h.DeleteOwnMovie).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found", Code: "NOT_FOUND"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Code: "BAD_REQUEST"})
	})

	return r
}
