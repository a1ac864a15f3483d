package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketarcade/coinledger/internal/api/apierr"
	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/services/token"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth creates authentication middleware that validates the bearer
// credential and resolves the caller's identity into the context.
// Validation failures never reach the handlers.
func Auth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := tokens.Validate(extractToken(r))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer credential from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) (model.TelegramID, bool) {
	id, ok := ctx.Value(identityContextKey).(model.TelegramID)
	return id, ok
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) model.TelegramID {
	id, ok := GetIdentity(ctx)
	if !ok {
		panic("no identity in context - auth middleware not applied?")
	}
	return id
}
