package handler

import (
	"net/http"
	"strconv"

	"github.com/pocketarcade/coinledger/internal/api/response"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
)

// LeaderboardHandler handles the public leaderboard endpoint
type LeaderboardHandler struct {
	ledger *ledger.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(ledgerService *ledger.Service) *LeaderboardHandler {
	return &LeaderboardHandler{ledger: ledgerService}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.ledger.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}
