package model

import (
	"fmt"
	"time"
)

// TelegramID uniquely identifies a player, as assigned by Telegram
type TelegramID int64

// Economy constants shared by all storage backends
const (
	// StartingBalance is credited to every newly created account
	StartingBalance = 1000
	// BonusAmount is credited by a successful daily bonus claim
	BonusAmount = 100
	// BonusWindow is the minimum time between two successful bonus claims
	BonusWindow = 24 * time.Hour
)

// Account represents one player's coin balance
type Account struct {
	ID          TelegramID
	DisplayName string
	Balance     int64
	LastBonusAt *time.Time // nil until the first bonus claim
	CreatedAt   time.Time
}

// BonusResult reports the outcome of a daily bonus claim
type BonusResult struct {
	Awarded bool
	Account *Account
}

// LeaderboardEntry is one row of the balance leaderboard
type LeaderboardEntry struct {
	DisplayName string
	Balance     int64
}

// DefaultDisplayName returns the placeholder name for an account
// whose identity assertion carried no username
func DefaultDisplayName(id TelegramID) string {
	return fmt.Sprintf("Player%d", id)
}
