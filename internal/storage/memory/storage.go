package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pocketarcade/coinledger/internal/dependencies/clock"
	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/storage"
)

// Storage is an in-memory implementation of the account store.
//
// Each account carries its own mutex so that mutations on different
// identities never contend; the outer mutex only guards the map itself.
type Storage struct {
	clock clock.Clock

	mu       sync.RWMutex
	accounts map[model.TelegramID]*entry
}

type entry struct {
	mu      sync.Mutex
	account model.Account
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:    clk,
		accounts: make(map[model.TelegramID]*entry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ResolveOrCreate(ctx context.Context, id model.TelegramID, displayName string) (*model.Account, error) {
	s.mu.Lock()
	e, ok := s.accounts[id]
	if !ok {
		name := displayName
		if name == "" {
			name = model.DefaultDisplayName(id)
		}
		e = &entry{account: model.Account{
			ID:          id,
			DisplayName: name,
			Balance:     model.StartingBalance,
			CreatedAt:   s.clock.Now(),
		}}
		s.accounts[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if displayName != "" && e.account.DisplayName != displayName {
		e.account.DisplayName = displayName
	}
	return snapshot(&e.account), nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.TelegramID) (*model.Account, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(&e.account), nil
}

func (s *Storage) ApplyDelta(ctx context.Context, id model.TelegramID, delta int64) (*model.Account, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.account.Balance+delta < 0 {
		return nil, model.ErrInsufficientBalance
	}
	e.account.Balance += delta
	return snapshot(&e.account), nil
}

func (s *Storage) GrantBonusIfEligible(ctx context.Context, id model.TelegramID, amount int64, window time.Duration) (*model.BonusResult, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := s.clock.Now()
	if e.account.LastBonusAt != nil && now.Sub(*e.account.LastBonusAt) < window {
		return &model.BonusResult{Awarded: false, Account: snapshot(&e.account)}, nil
	}

	e.account.Balance += amount
	e.account.LastBonusAt = &now
	return &model.BonusResult{Awarded: true, Account: snapshot(&e.account)}, nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return []model.LeaderboardEntry{}, nil
	}

	s.mu.RLock()
	entries := make([]model.LeaderboardEntry, 0, len(s.accounts))
	for _, e := range s.accounts {
		e.mu.Lock()
		entries = append(entries, model.LeaderboardEntry{
			DisplayName: e.account.DisplayName,
			Balance:     e.account.Balance,
		})
		e.mu.Unlock()
	}
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Balance > entries[j].Balance
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// lookup finds the live entry for id without taking its lock
func (s *Storage) lookup(id model.TelegramID) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return e, nil
}

// snapshot copies an account so callers never alias live state
func snapshot(a *model.Account) *model.Account {
	out := *a
	if a.LastBonusAt != nil {
		t := *a.LastBonusAt
		out.LastBonusAt = &t
	}
	return &out
}
