package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/pocketarcade/coinledger/internal/model"
)

// ErrNoUser is returned when initData carries no user descriptor
var ErrNoUser = errors.New("init data contains no user")

// User is the identity extracted from a verified initData payload
type User struct {
	ID          model.TelegramID
	DisplayName string
}

// Verifier validates Telegram WebApp initData against the bot token.
// The zero-value (unconfigured) verifier rejects everything.
type Verifier struct {
	key []byte
}

// NewVerifier creates a Verifier for the given bot token.
// An empty token yields a verifier that never authenticates.
func NewVerifier(botToken string) *Verifier {
	if botToken == "" {
		return &Verifier{}
	}
	key := sha256.Sum256([]byte(botToken))
	return &Verifier{key: key[:]}
}

// VerifyInitData reports whether initData carries a valid signature.
// It never returns an error: unconfigured secret, empty input and a
// missing hash field are all simply "not authenticated".
func (v *Verifier) VerifyInitData(initData string) bool {
	if len(v.key) == 0 || initData == "" {
		return false
	}

	params, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	hash := params.Get("hash")
	if hash == "" {
		return false
	}
	params.Del("hash")

	want, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(dataCheckString(params)))

	return hmac.Equal(mac.Sum(nil), want)
}

// dataCheckString builds the canonical signing input: every key=value
// pair on its own line, lines sorted lexicographically
func dataCheckString(params url.Values) string {
	lines := make([]string, 0, len(params))
	for key, values := range params {
		for _, value := range values {
			lines = append(lines, key+"="+value)
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// ParseUser extracts the user descriptor embedded in initData.
// Callers must have verified the payload first; ParseUser does not
// check the signature.
func ParseUser(initData string) (User, error) {
	params, err := url.ParseQuery(initData)
	if err != nil {
		return User{}, err
	}

	raw := params.Get("user")
	if raw == "" {
		return User{}, ErrNoUser
	}

	var descriptor struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	}
	if err := json.Unmarshal([]byte(raw), &descriptor); err != nil {
		return User{}, err
	}
	if descriptor.ID == 0 {
		return User{}, ErrNoUser
	}

	id := model.TelegramID(descriptor.ID)

	name := descriptor.Username
	if name == "" {
		name = descriptor.FirstName
	}
	if name == "" {
		name = model.DefaultDisplayName(id)
	}

	return User{ID: id, DisplayName: name}, nil
}
