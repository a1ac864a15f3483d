package response

import (
	"time"

	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
)

// Account represents an account in API responses
type Account struct {
	TelegramID  int64      `json:"telegram_id"`
	DisplayName string     `json:"display_name"`
	Balance     int64      `json:"balance"`
	LastBonusAt *time.Time `json:"last_bonus_at"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		TelegramID:  int64(a.ID),
		DisplayName: a.DisplayName,
		Balance:     a.Balance,
		LastBonusAt: a.LastBonusAt,
	}
}

// AuthResponse is the response for the authentication endpoint
type AuthResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// AuthResponseFromResult creates an AuthResponse from an auth result
func AuthResponseFromResult(r *ledger.AuthResult) AuthResponse {
	return AuthResponse{
		Token:   r.Token,
		Account: AccountFromModel(r.Account),
	}
}

// BonusResponse is the response for a daily bonus claim
type BonusResponse struct {
	Awarded bool    `json:"awarded"`
	Account Account `json:"account"`
}

// BonusResponseFromResult creates a BonusResponse from a bonus result
func BonusResponseFromResult(r *model.BonusResult) BonusResponse {
	return BonusResponse{
		Awarded: r.Awarded,
		Account: AccountFromModel(r.Account),
	}
}

// BalanceResponse wraps the account after a balance adjustment
type BalanceResponse struct {
	Account Account `json:"account"`
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
}

// LeaderboardResponse is the response for the leaderboard endpoint
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts leaderboard entries
func LeaderboardFromModel(entries []model.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{DisplayName: e.DisplayName, Balance: e.Balance}
	}
	return LeaderboardResponse{Entries: out}
}
