package redis

import (
	"fmt"

	"github.com/pocketarcade/coinledger/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "coinledger"

// accountKey returns the Redis key for an account hash
func accountKey(id model.TelegramID) string {
	return fmt.Sprintf("%s:acct:%d", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the balance ZSET
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
