package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pocketarcade/coinledger/internal/dependencies/mocks"
	"github.com/pocketarcade/coinledger/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(Config{Secret: "test-signing-secret"}, s.clock)
}

func (s *ServiceSuite) TestIssuedTokenValidates() {
	tok, err := s.service.Issue(42)
	s.Require().NoError(err)
	s.NotEmpty(tok)

	id, err := s.service.Validate(tok)
	s.Require().NoError(err)
	s.Equal(model.TelegramID(42), id)
}

func (s *ServiceSuite) TestMissingToken() {
	_, err := s.service.Validate("")
	s.ErrorIs(err, ErrTokenMissing)
}

func (s *ServiceSuite) TestTamperedTokenIsMalformed() {
	tok, err := s.service.Issue(42)
	s.Require().NoError(err)

	// Flip one byte of the payload section
	tampered := []byte(tok)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = s.service.Validate(string(tampered))
	s.ErrorIs(err, ErrTokenMalformed)
}

func (s *ServiceSuite) TestGarbageTokenIsMalformed() {
	_, err := s.service.Validate("not.a.jwt")
	s.ErrorIs(err, ErrTokenMalformed)
}

func (s *ServiceSuite) TestWrongSecretIsMalformed() {
	other := New(Config{Secret: "different-secret"}, s.clock)
	tok, err := other.Issue(42)
	s.Require().NoError(err)

	_, err = s.service.Validate(tok)
	s.ErrorIs(err, ErrTokenMalformed)
}

func (s *ServiceSuite) TestTokenExpiresAfterTTL() {
	tok, err := s.service.Issue(42)
	s.Require().NoError(err)

	s.clock.Advance(DefaultTTL + time.Minute)

	_, err = s.service.Validate(tok)
	s.ErrorIs(err, ErrTokenExpired)
}

func (s *ServiceSuite) TestTokenStillValidJustBeforeExpiry() {
	tok, err := s.service.Issue(42)
	s.Require().NoError(err)

	s.clock.Advance(DefaultTTL - time.Minute)

	id, err := s.service.Validate(tok)
	s.Require().NoError(err)
	s.Equal(model.TelegramID(42), id)
}

func (s *ServiceSuite) TestCustomTTL() {
	short := New(Config{Secret: "test-signing-secret", TTL: time.Hour}, s.clock)
	tok, err := short.Issue(7)
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)

	_, err = short.Validate(tok)
	s.ErrorIs(err, ErrTokenExpired)
}
