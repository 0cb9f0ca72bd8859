package handlers

import (
	"net/http"
	"strconv"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/leaderboard"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/logger"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	service *leaderboard.Service
	logger  *logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *leaderboard.Service, log *logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  log,
	}
}

// UsersResponse is the raw user population
type UsersResponse struct {
	Users []contracts.UserRank `json:"users"`
	Total int                  `json:"total"`
	Stale bool                 `json:"stale"`
}

// TeamsResponse is the raw team population
type TeamsResponse struct {
	Teams []contracts.TeamRank `json:"teams"`
	Total int                  `json:"total"`
	Stale bool                 `json:"stale"`
}

// GetBoard returns the active leaderboard for the query
// GET /api/leaderboard?viewer=&scope=individual|team&teamScope=intra|inter&filter=&value=&detailed=
func (h *LeaderboardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := leaderboard.Query{
		ViewerID:  params.Get("viewer"),
		Scope:     params.Get("scope"),
		TeamScope: params.Get("teamScope"),
		Filter:    params.Get("filter"),
		Value:     params.Get("value"),
	}
	if raw := params.Get("detailed"); raw != "" {
		detailed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "detailed must be a boolean")
			return
		}
		q.Detailed = detailed
	}

	board, err := h.service.Board(r.Context(), q)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to build leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// GetUsers returns every ranked user
// GET /api/leaderboard/users
func (h *LeaderboardHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	pop := h.service.Population(r.Context())

	respondJSON(w, http.StatusOK, UsersResponse{
		Users: pop.Users,
		Total: len(pop.Users),
		Stale: pop.Stale,
	})
}

// GetTeams returns every ranked team
// GET /api/leaderboard/teams
func (h *LeaderboardHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	pop := h.service.Population(r.Context())

	respondJSON(w, http.StatusOK, TeamsResponse{
		Teams: pop.Teams,
		Total: len(pop.Teams),
		Stale: pop.Stale,
	})
}

// Snapshot re-ranks the population now
// POST /api/leaderboard/snapshot
func (h *LeaderboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Snapshot(r.Context())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to take ranking snapshot")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
