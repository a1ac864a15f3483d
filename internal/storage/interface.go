package storage

import (
	"context"
	"time"

	"github.com/pocketarcade/coinledger/internal/model"
)

// Storage defines the interface for the account store.
//
// Every mutating operation is atomic with respect to concurrent callers
// on the same identity: two concurrent bonus claims must never both
// award, and concurrent deltas must never lose an update. Operations on
// different identities proceed independently.
type Storage interface {
	// ResolveOrCreate returns the account for id, creating it with the
	// starting balance if it does not exist yet. Concurrent first-time
	// calls for the same identity must produce exactly one account.
	// A non-empty displayName refreshes the stored name.
	ResolveOrCreate(ctx context.Context, id model.TelegramID, displayName string) (*model.Account, error)

	// GetAccount returns the account for id or model.ErrAccountNotFound
	GetAccount(ctx context.Context, id model.TelegramID) (*model.Account, error)

	// ApplyDelta atomically adds delta to the balance and returns the
	// updated account. A delta that would drive the balance negative is
	// rejected with model.ErrInsufficientBalance and leaves the account
	// unchanged.
	ApplyDelta(ctx context.Context, id model.TelegramID, delta int64) (*model.Account, error)

	// GrantBonusIfEligible awards amount if the last grant is older than
	// window (or absent). The eligibility check and the write are one
	// atomic unit: at most one grant per window per account, no matter
	// how many callers race.
	GrantBonusIfEligible(ctx context.Context, id model.TelegramID, amount int64, window time.Duration) (*model.BonusResult, error)

	// Leaderboard returns up to limit entries ordered by balance
	// descending. Ties break in backend-stable order.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}
