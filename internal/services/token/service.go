package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pocketarcade/coinledger/internal/dependencies/clock"
	"github.com/pocketarcade/coinledger/internal/model"
)

// Errors
var (
	ErrTokenMissing   = errors.New("no credential presented")
	ErrTokenMalformed = errors.New("credential malformed or signature invalid")
	ErrTokenExpired   = errors.New("credential expired")
)

// DefaultTTL is how long an issued credential stays valid.
// Revocation before expiry is not supported: the credential is a
// stateless signed capsule with no server-side session table.
const DefaultTTL = 30 * 24 * time.Hour

const issuer = "coinledger"

// Service issues and validates bearer session credentials.
// A credential carries only the identity and the expiry pair;
// balance and profile data are always re-read from storage.
type Service struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// Config holds configuration for the token service
type Config struct {
	Secret string
	TTL    time.Duration
}

// New creates a token Service
func New(cfg Config, clk clock.Clock) *Service {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		clock:  clk,
	}
}

// Issue mints a signed credential bound to the given identity
func (s *Service) Issue(id model.TelegramID) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(int64(id), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Validate checks a credential and returns the identity it is bound to.
// Fails with ErrTokenMissing, ErrTokenExpired or ErrTokenMalformed;
// callers at the boundary must present all three identically to end
// users.
func (s *Service) Validate(credential string) (model.TelegramID, error) {
	if credential == "" {
		return 0, ErrTokenMissing
	}

	parsed, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return 0, ErrTokenMalformed
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrTokenMalformed
	}

	return model.TelegramID(id), nil
}
