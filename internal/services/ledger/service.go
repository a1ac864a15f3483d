package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/services/token"
	"github.com/pocketarcade/coinledger/internal/storage"
	"github.com/pocketarcade/coinledger/internal/telegram"
)

// Errors
var (
	ErrInsecureAuthDisabled = errors.New("insecure authentication is disabled")
)

// Leaderboard limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// AuthResult is the outcome of a successful authentication
type AuthResult struct {
	Token   string
	Account *model.Account
}

// Service orchestrates identity resolution, credential issuance and
// balance operations. Verification failures never reach the store:
// every balance operation takes an identity that the credential layer
// has already validated.
type Service struct {
	verifier *telegram.Verifier
	tokens   *token.Service
	store    storage.Storage
	logger   *slog.Logger

	// allowInsecure gates the reduced-trust fallback that accepts a raw
	// identity without a signature check
	allowInsecure bool
}

// New creates a ledger Service
func New(verifier *telegram.Verifier, tokens *token.Service, store storage.Storage, allowInsecure bool, logger *slog.Logger) *Service {
	return &Service{
		verifier:      verifier,
		tokens:        tokens,
		store:         store,
		logger:        logger,
		allowInsecure: allowInsecure,
	}
}

// Authenticate verifies a signed identity assertion, resolves or
// creates the account, and issues a session credential
func (s *Service) Authenticate(ctx context.Context, initData string) (*AuthResult, error) {
	if !s.verifier.VerifyInitData(initData) {
		return nil, model.ErrSignatureInvalid
	}

	user, err := telegram.ParseUser(initData)
	if err != nil {
		// Signature checked out but the payload carried no usable user
		return nil, model.ErrSignatureInvalid
	}

	return s.establish(ctx, user.ID, user.DisplayName)
}

// AuthenticateTrusted resolves an account from a raw identity with no
// signature check. Only reachable when the service was configured to
// allow insecure auth; intended for local development.
func (s *Service) AuthenticateTrusted(ctx context.Context, id model.TelegramID, displayName string) (*AuthResult, error) {
	if !s.allowInsecure {
		return nil, ErrInsecureAuthDisabled
	}
	if id <= 0 {
		return nil, model.ErrSignatureInvalid
	}

	s.logger.Warn("trusted-mode authentication", slog.Int64("telegram_id", int64(id)))
	return s.establish(ctx, id, displayName)
}

func (s *Service) establish(ctx context.Context, id model.TelegramID, displayName string) (*AuthResult, error) {
	acct, err := s.store.ResolveOrCreate(ctx, id, displayName)
	if err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue(acct.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: tok, Account: acct}, nil
}

// CurrentAccount fetches the account for a validated identity
func (s *Service) CurrentAccount(ctx context.Context, id model.TelegramID) (*model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// ClaimDailyBonus attempts the once-per-window bonus grant.
// Safe to re-call after any failure: eligibility is re-checked from
// persisted state every time, so a retry can never double-grant.
func (s *Service) ClaimDailyBonus(ctx context.Context, id model.TelegramID) (*model.BonusResult, error) {
	result, err := s.store.GrantBonusIfEligible(ctx, id, model.BonusAmount, model.BonusWindow)
	if errors.Is(err, model.ErrAccountNotFound) {
		// A valid credential implies the account exists
		s.logger.Warn("bonus claim for missing account", slog.Int64("telegram_id", int64(id)))
	}
	return result, err
}

// AdjustBalance applies a signed delta to the account balance
func (s *Service) AdjustBalance(ctx context.Context, id model.TelegramID, delta int64) (*model.Account, error) {
	acct, err := s.store.ApplyDelta(ctx, id, delta)
	if errors.Is(err, model.ErrAccountNotFound) {
		s.logger.Warn("balance adjustment for missing account", slog.Int64("telegram_id", int64(id)))
	}
	return acct, err
}

// Leaderboard returns the top balances, with limit clamped to
// [1, MaxLeaderboardLimit] and defaulted when unset
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	return s.store.Leaderboard(ctx, limit)
}
