package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pocketarcade/coinledger/internal/api/middleware"
	"github.com/pocketarcade/coinledger/internal/api/request"
	"github.com/pocketarcade/coinledger/internal/api/response"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
)

// AccountHandler handles authenticated account endpoints
type AccountHandler struct {
	ledger *ledger.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(ledgerService *ledger.Service) *AccountHandler {
	return &AccountHandler{ledger: ledgerService}
}

// GetMe handles GET /api/v1/accounts/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	acct, err := h.ledger.CurrentAccount(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(acct))
}

// ClaimBonus handles POST /api/v1/accounts/me/bonus
func (h *AccountHandler) ClaimBonus(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	result, err := h.ledger.ClaimDailyBonus(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BonusResponseFromResult(result))
}

// AdjustBalance handles POST /api/v1/accounts/me/balance
func (h *AccountHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	delta, err := req.Delta.Int64()
	if err != nil {
		WriteError(w, NewInvalidRequestError("delta must be an integer"))
		return
	}

	acct, err := h.ledger.AdjustBalance(r.Context(), id, delta)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BalanceResponse{Account: response.AccountFromModel(acct)})
}
