package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pocketarcade/coinledger/internal/dependencies/clock"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
	"github.com/pocketarcade/coinledger/internal/services/token"
	"github.com/pocketarcade/coinledger/internal/storage"
	"github.com/pocketarcade/coinledger/internal/storage/memory"
	redisstorage "github.com/pocketarcade/coinledger/internal/storage/redis"
	"github.com/pocketarcade/coinledger/internal/telegram"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Verifier      *telegram.Verifier
	TokenService  *token.Service
	LedgerService *ledger.Service
}

// Config holds configuration for the application factory
type Config struct {
	// BotToken is the identity-assertion verification secret
	BotToken string
	// TokenConfig holds credential signing settings
	TokenConfig token.Config
	// AllowInsecureAuth enables the reduced-trust auth fallback
	AllowInsecureAuth bool
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, clk)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	verifier := telegram.NewVerifier(cfg.BotToken)
	tokenService := token.New(cfg.TokenConfig, clk)
	ledgerService := ledger.New(verifier, tokenService, store, cfg.AllowInsecureAuth, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Verifier:      verifier,
		TokenService:  tokenService,
		LedgerService: ledgerService,
	}, nil
}
