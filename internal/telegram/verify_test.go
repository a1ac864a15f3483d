package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pocketarcade/coinledger/internal/model"
)

const testBotToken = "7217342:AAFakeBotTokenForVerifierTests"

type VerifierSuite struct {
	suite.Suite
	verifier *Verifier
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) SetupTest() {
	s.verifier = NewVerifier(testBotToken)
}

// signInitData builds an initData string signed the way Telegram signs it:
// HMAC-SHA256 over the sorted key=value lines, keyed with SHA-256(bot token)
func signInitData(botToken string, params url.Values) string {
	lines := make([]string, 0, len(params))
	for key, values := range params {
		for _, value := range values {
			lines = append(lines, key+"="+value)
		}
	}
	sort.Strings(lines)

	key := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(strings.Join(lines, "\n")))

	params.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return params.Encode()
}

func validInitData() string {
	params := url.Values{}
	params.Set("user", `{"id":42,"username":"alice","first_name":"Alice"}`)
	params.Set("auth_date", "1712345678")
	params.Set("query_id", "AAE5Kq0RAAAAADkqrRFzIppr")
	return signInitData(testBotToken, params)
}

func (s *VerifierSuite) TestValidSignatureVerifies() {
	s.True(s.verifier.VerifyInitData(validInitData()))
}

func (s *VerifierSuite) TestTamperedFieldFailsVerification() {
	data := validInitData()
	tampered := strings.Replace(data, "1712345678", "1712345679", 1)
	s.NotEqual(data, tampered)
	s.False(s.verifier.VerifyInitData(tampered))
}

func (s *VerifierSuite) TestTamperedHashFailsVerification() {
	params, err := url.ParseQuery(validInitData())
	s.Require().NoError(err)

	hash := params.Get("hash")
	flipped := "0" + hash[1:]
	if flipped == hash {
		flipped = "1" + hash[1:]
	}
	params.Set("hash", flipped)

	s.False(s.verifier.VerifyInitData(params.Encode()))
}

func (s *VerifierSuite) TestWrongBotTokenFailsVerification() {
	other := NewVerifier("some-other-token")
	s.False(other.VerifyInitData(validInitData()))
}

func (s *VerifierSuite) TestEmptyInputFailsVerification() {
	s.False(s.verifier.VerifyInitData(""))
}

func (s *VerifierSuite) TestMissingHashFailsVerification() {
	params := url.Values{}
	params.Set("user", `{"id":42}`)
	params.Set("auth_date", "1712345678")
	s.False(s.verifier.VerifyInitData(params.Encode()))
}

func (s *VerifierSuite) TestNonHexHashFailsVerification() {
	params := url.Values{}
	params.Set("user", `{"id":42}`)
	params.Set("hash", "not-hex-at-all")
	s.False(s.verifier.VerifyInitData(params.Encode()))
}

func (s *VerifierSuite) TestUnconfiguredVerifierRejectsEverything() {
	unconfigured := NewVerifier("")
	s.False(unconfigured.VerifyInitData(validInitData()))
}

// ParseUser tests

func (s *VerifierSuite) TestParseUserPrefersUsername() {
	user, err := ParseUser(validInitData())
	s.Require().NoError(err)
	s.Equal(model.TelegramID(42), user.ID)
	s.Equal("alice", user.DisplayName)
}

func (s *VerifierSuite) TestParseUserFallsBackToFirstName() {
	params := url.Values{}
	params.Set("user", `{"id":7,"first_name":"Bob"}`)

	user, err := ParseUser(params.Encode())
	s.Require().NoError(err)
	s.Equal(model.TelegramID(7), user.ID)
	s.Equal("Bob", user.DisplayName)
}

func (s *VerifierSuite) TestParseUserGeneratesPlaceholderName() {
	params := url.Values{}
	params.Set("user", `{"id":99}`)

	user, err := ParseUser(params.Encode())
	s.Require().NoError(err)
	s.Equal("Player99", user.DisplayName)
}

func (s *VerifierSuite) TestParseUserMissingUser() {
	params := url.Values{}
	params.Set("auth_date", "1712345678")

	_, err := ParseUser(params.Encode())
	s.ErrorIs(err, ErrNoUser)
}

func (s *VerifierSuite) TestParseUserMalformedJSON() {
	params := url.Values{}
	params.Set("user", `{"id":`)

	_, err := ParseUser(params.Encode())
	s.Error(err)
}
