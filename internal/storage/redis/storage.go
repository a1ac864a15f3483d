package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pocketarcade/coinledger/internal/dependencies/clock"
	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/storage"
)

// Storage is a Redis-backed implementation of the account store
type Storage struct {
	client *redis.Client
	clock  clock.Clock
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config, clk clock.Clock) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, clock: clk, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Storage {
	return &Storage{client: client, clock: clk, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ResolveOrCreate(ctx context.Context, id model.TelegramID, displayName string) (*model.Account, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	reply, err := resolveOrCreateScript.Run(ctx, s.client,
		[]string{accountKey(id), leaderboardKey()},
		int64(id), displayName, model.DefaultDisplayName(id),
		model.StartingBalance, s.clock.Now().Unix(),
	).Result()
	if err != nil {
		return nil, err
	}

	_, acct, err := parseScriptReply(id, reply)
	return acct, err
}

func (s *Storage) GetAccount(ctx context.Context, id model.TelegramID) (*model.Account, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	fields, err := s.client.HMGet(ctx, accountKey(id),
		"display_name", "balance", "last_bonus", "created_at").Result()
	if err != nil {
		return nil, err
	}
	if fields[0] == nil {
		return nil, model.ErrAccountNotFound
	}

	return accountFromFields(id, fields)
}

func (s *Storage) ApplyDelta(ctx context.Context, id model.TelegramID, delta int64) (*model.Account, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	reply, err := applyDeltaScript.Run(ctx, s.client,
		[]string{accountKey(id), leaderboardKey()},
		int64(id), delta,
	).Result()
	if err != nil {
		return nil, err
	}

	_, acct, err := parseScriptReply(id, reply)
	return acct, err
}

func (s *Storage) GrantBonusIfEligible(ctx context.Context, id model.TelegramID, amount int64, window time.Duration) (*model.BonusResult, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	reply, err := grantBonusScript.Run(ctx, s.client,
		[]string{accountKey(id), leaderboardKey()},
		int64(id), amount, int64(window.Seconds()), s.clock.Now().Unix(),
	).Result()
	if err != nil {
		return nil, err
	}

	code, acct, err := parseScriptReply(id, reply)
	if err != nil {
		return nil, err
	}

	return &model.BonusResult{Awarded: code == codeAwarded, Account: acct}, nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return []model.LeaderboardEntry{}, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	ranked, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return []model.LeaderboardEntry{}, nil
	}

	// Resolve display names in one round trip
	pipe := s.client.Pipeline()
	names := make([]*redis.StringCmd, len(ranked))
	for i, z := range ranked {
		memberID, err := strconv.ParseInt(fmt.Sprint(z.Member), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad leaderboard member %q: %w", z.Member, err)
		}
		names[i] = pipe.HGet(ctx, accountKey(model.TelegramID(memberID)), "display_name")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		name, err := names[i].Result()
		if errors.Is(err, redis.Nil) {
			continue // account hash vanished under us
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, model.LeaderboardEntry{
			DisplayName: name,
			Balance:     int64(z.Score),
		})
	}
	return entries, nil
}

// bound applies the per-operation timeout from config
func (s *Storage) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}

// parseScriptReply decodes the {code, fields...} array the scripts return
func parseScriptReply(id model.TelegramID, reply any) (int64, *model.Account, error) {
	arr, ok := reply.([]any)
	if !ok || len(arr) == 0 {
		return 0, nil, fmt.Errorf("unexpected script reply %T", reply)
	}

	code, ok := arr[0].(int64)
	if !ok {
		return 0, nil, fmt.Errorf("unexpected script status %T", arr[0])
	}

	switch code {
	case codeNotFound:
		return code, nil, model.ErrAccountNotFound
	case codeInsufficient:
		return code, nil, model.ErrInsufficientBalance
	}

	if len(arr) != 5 {
		return 0, nil, fmt.Errorf("unexpected script reply length %d", len(arr))
	}

	acct, err := accountFromFields(id, arr[1:])
	return code, acct, err
}

// accountFromFields decodes an HMGET of (display_name, balance,
// last_bonus, created_at) into an Account
func accountFromFields(id model.TelegramID, fields []any) (*model.Account, error) {
	name, err := fieldString(fields[0])
	if err != nil {
		return nil, err
	}
	balance, err := fieldInt(fields[1])
	if err != nil {
		return nil, err
	}
	lastBonus, err := fieldInt(fields[2])
	if err != nil {
		return nil, err
	}
	createdAt, err := fieldInt(fields[3])
	if err != nil {
		return nil, err
	}

	acct := &model.Account{
		ID:          id,
		DisplayName: name,
		Balance:     balance,
		CreatedAt:   time.Unix(createdAt, 0).UTC(),
	}
	if lastBonus != 0 {
		t := time.Unix(lastBonus, 0).UTC()
		acct.LastBonusAt = &t
	}
	return acct, nil
}

func fieldString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected hash field %T", v)
	}
	return s, nil
}

func fieldInt(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected hash field %T", v)
	}
}
