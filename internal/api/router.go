// Package api exposes a read-only JSON view of the registry for tooling.
// Game state only changes through the TCP protocol; there are no mutation
// endpoints here.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/askgod-go/internal/api/response"
	"github.com/mcoot/askgod-go/internal/middleware"
	"github.com/mcoot/askgod-go/internal/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *registry.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := &handlers{registry: cfg.Registry}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/status", h.Status).Methods(http.MethodGet)
	api.HandleFunc("/scoreboard", h.Scoreboard).Methods(http.MethodGet)
	api.HandleFunc("/challenges", h.Challenges).Methods(http.MethodGet)

	return r
}

type handlers struct {
	registry *registry.Service
}

func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) Status(w http.ResponseWriter, r *http.Request) {
	counts, err := h.registry.Counts(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, response.StatusFromCounts(counts))
}

func (h *handlers) Scoreboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.registry.Scoreboard(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, response.ScoreboardFromScores(scores))
}

func (h *handlers) Challenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.registry.Challenges(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, response.ChallengesFromModel(challenges))
}
