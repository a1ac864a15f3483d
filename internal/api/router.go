package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pocketarcade/coinledger/internal/api/handler"
	"github.com/pocketarcade/coinledger/internal/api/middleware"
	"github.com/pocketarcade/coinledger/internal/services/ledger"
	"github.com/pocketarcade/coinledger/internal/services/token"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	LedgerService *ledger.Service
	TokenService  *token.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.LedgerService)
	accountHandler := handler.NewAccountHandler(cfg.LedgerService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LedgerService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.TokenService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/auth", authHandler.Authenticate).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Account routes (all require a valid credential)
	accounts := api.PathPrefix("/accounts").Subrouter()
	accounts.Use(authMiddleware)
	accounts.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)
	accounts.HandleFunc("/me/bonus", accountHandler.ClaimBonus).Methods(http.MethodPost)
	accounts.HandleFunc("/me/balance", accountHandler.AdjustBalance).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
