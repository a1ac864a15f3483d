package ledger

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pocketarcade/coinledger/internal/dependencies/mocks"
	"github.com/pocketarcade/coinledger/internal/model"
	"github.com/pocketarcade/coinledger/internal/services/token"
	"github.com/pocketarcade/coinledger/internal/storage/memory"
	"github.com/pocketarcade/coinledger/internal/telegram"
	"github.com/pocketarcade/coinledger/internal/testutil"
)

const testBotToken = "7217342:AAFakeBotTokenForLedgerTests"

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	storage *memory.Storage
	tokens  *token.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock)
	s.tokens = token.New(token.Config{Secret: "test-signing-secret"}, s.clock)
	s.service = New(telegram.NewVerifier(testBotToken), s.tokens, s.storage, false, testutil.NopLogger())
	s.ctx = context.Background()
}

// initDataFor builds a correctly signed assertion for the given user
func initDataFor(id int64, username string) string {
	params := url.Values{}
	params.Set("user", fmt.Sprintf(`{"id":%d,"username":%q}`, id, username))
	params.Set("auth_date", "1712345678")

	lines := make([]string, 0, len(params))
	for key, values := range params {
		for _, value := range values {
			lines = append(lines, key+"="+value)
		}
	}
	sort.Strings(lines)

	key := sha256.Sum256([]byte(testBotToken))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(strings.Join(lines, "\n")))

	params.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return params.Encode()
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateCreatesAccountAndIssuesToken() {
	result, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)

	s.Equal(model.TelegramID(42), result.Account.ID)
	s.Equal("alice", result.Account.DisplayName)
	s.Equal(int64(model.StartingBalance), result.Account.Balance)

	id, err := s.tokens.Validate(result.Token)
	s.Require().NoError(err)
	s.Equal(model.TelegramID(42), id)
}

func (s *ServiceSuite) TestAuthenticateTwiceKeepsOneAccount() {
	first, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)

	_, err = s.service.AdjustBalance(s.ctx, first.Account.ID, 500)
	s.Require().NoError(err)

	second, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)
	s.Equal(int64(1500), second.Account.Balance)
}

func (s *ServiceSuite) TestAuthenticateRejectsForgedAssertion() {
	forged := strings.Replace(initDataFor(42, "alice"), "alice", "mallory", 1)

	_, err := s.service.Authenticate(s.ctx, forged)
	s.ErrorIs(err, model.ErrSignatureInvalid)
}

func (s *ServiceSuite) TestAuthenticateRejectsEmptyAssertion() {
	_, err := s.service.Authenticate(s.ctx, "")
	s.ErrorIs(err, model.ErrSignatureInvalid)
}

// AuthenticateTrusted tests

func (s *ServiceSuite) TestTrustedAuthDisabledByDefault() {
	_, err := s.service.AuthenticateTrusted(s.ctx, 42, "alice")
	s.ErrorIs(err, ErrInsecureAuthDisabled)
}

func (s *ServiceSuite) TestTrustedAuthWhenEnabled() {
	svc := New(telegram.NewVerifier(testBotToken), s.tokens, s.storage, true, testutil.NopLogger())

	result, err := svc.AuthenticateTrusted(s.ctx, 42, "alice")
	s.Require().NoError(err)
	s.Equal("alice", result.Account.DisplayName)

	id, err := s.tokens.Validate(result.Token)
	s.Require().NoError(err)
	s.Equal(model.TelegramID(42), id)
}

func (s *ServiceSuite) TestTrustedAuthRejectsNonPositiveID() {
	svc := New(telegram.NewVerifier(testBotToken), s.tokens, s.storage, true, testutil.NopLogger())

	_, err := svc.AuthenticateTrusted(s.ctx, 0, "alice")
	s.ErrorIs(err, model.ErrSignatureInvalid)
}

// CurrentAccount tests

func (s *ServiceSuite) TestCurrentAccount() {
	result, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)

	acct, err := s.service.CurrentAccount(s.ctx, result.Account.ID)
	s.Require().NoError(err)
	s.Equal("alice", acct.DisplayName)
}

func (s *ServiceSuite) TestCurrentAccountNotFound() {
	_, err := s.service.CurrentAccount(s.ctx, 99)
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// ClaimDailyBonus tests

func (s *ServiceSuite) TestClaimDailyBonusScenario() {
	result, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)

	// First claim awards and lands at 1100
	bonus, err := s.service.ClaimDailyBonus(s.ctx, result.Account.ID)
	s.Require().NoError(err)
	s.True(bonus.Awarded)
	s.Equal(int64(1100), bonus.Account.Balance)

	// Immediate second claim is refused at 1100
	again, err := s.service.ClaimDailyBonus(s.ctx, result.Account.ID)
	s.Require().NoError(err)
	s.False(again.Awarded)
	s.Equal(int64(1100), again.Account.Balance)
}

// AdjustBalance tests

func (s *ServiceSuite) TestAdjustBalanceScenario() {
	result, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)

	bonus, err := s.service.ClaimDailyBonus(s.ctx, result.Account.ID)
	s.Require().NoError(err)
	s.Equal(int64(1100), bonus.Account.Balance)

	acct, err := s.service.AdjustBalance(s.ctx, result.Account.ID, -50)
	s.Require().NoError(err)
	s.Equal(int64(1050), acct.Balance)
}

func (s *ServiceSuite) TestAdjustBalanceRejectsOverdraft() {
	result, err := s.service.Authenticate(s.ctx, initDataFor(42, "alice"))
	s.Require().NoError(err)

	_, err = s.service.AdjustBalance(s.ctx, result.Account.ID, -(model.StartingBalance + 1))
	s.ErrorIs(err, model.ErrInsufficientBalance)
}

// Leaderboard tests

func (s *ServiceSuite) TestLeaderboardScenario() {
	for i, balance := range []int64{500, 1500, 1000} {
		id := model.TelegramID(i + 1)
		_, err := s.service.Authenticate(s.ctx, initDataFor(int64(id), fmt.Sprintf("player%d", id)))
		s.Require().NoError(err)
		_, err = s.service.AdjustBalance(s.ctx, id, balance-model.StartingBalance)
		s.Require().NoError(err)
	}

	entries, err := s.service.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)

	s.Require().Len(entries, 2)
	s.Equal(int64(1500), entries[0].Balance)
	s.Equal(int64(1000), entries[1].Balance)
}

func (s *ServiceSuite) TestLeaderboardDefaultsAndClampsLimit() {
	for i := 0; i < 15; i++ {
		_, err := s.service.Authenticate(s.ctx, initDataFor(int64(i+1), fmt.Sprintf("player%d", i+1)))
		s.Require().NoError(err)
	}

	entries, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(entries, DefaultLeaderboardLimit)

	entries, err = s.service.Leaderboard(s.ctx, 1_000_000)
	s.Require().NoError(err)
	s.Len(entries, 15)
}
