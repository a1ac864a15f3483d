package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pocketarcade/coinledger/internal/api/request"
	"github.com/pocketarcade/coinledger/internal/api/response"
	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
)

// AuthHandler handles the authentication endpoint
type AuthHandler struct {
	ledger *ledger.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(ledgerService *ledger.Service) *AuthHandler {
	return &AuthHandler{ledger: ledgerService}
}

// Authenticate handles POST /api/v1/auth
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req request.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var (
		result *ledger.AuthResult
		err    error
	)
	switch {
	case req.InitData != "":
		result, err = h.ledger.Authenticate(r.Context(), req.InitData)
	case req.TelegramID != 0:
		result, err = h.ledger.AuthenticateTrusted(r.Context(), model.TelegramID(req.TelegramID), req.DisplayName)
	default:
		WriteError(w, NewInvalidRequestError("init_data or telegram_id is required"))
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromResult(result))
}
