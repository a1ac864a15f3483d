package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case BonusResult:
		o.printBonusResult(v)
	case BalanceResult:
		o.printBalanceResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	TelegramID  int64      `json:"telegram_id"`
	DisplayName string     `json:"display_name"`
	Balance     int64      `json:"balance"`
	LastBonusAt *time.Time `json:"last_bonus_at"`
}

// AuthResult combines account and token
type AuthResult struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// BonusResult response type
type BonusResult struct {
	Awarded bool    `json:"awarded"`
	Account Account `json:"account"`
}

// BalanceResult response type
type BalanceResult struct {
	Account Account `json:"account"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	fmt.Printf("Account: %s (%d)\n", a.DisplayName, a.TelegramID)
	fmt.Printf("Balance: %d\n", a.Balance)
	if a.LastBonusAt != nil {
		fmt.Printf("Last Bonus: %s\n", a.LastBonusAt.Format(time.RFC3339))
	} else {
		fmt.Println("Last Bonus: never")
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printBonusResult(b BonusResult) {
	if b.Awarded {
		fmt.Println("Bonus awarded!")
	} else {
		fmt.Println("Bonus not available yet")
	}
	o.printAccount(b.Account)
}

func (o *Output) printBalanceResult(b BalanceResult) {
	o.printAccount(b.Account)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard (%d):\n", len(l.Entries))
	for i, e := range l.Entries {
		fmt.Printf("  %d. %s - %d\n", i+1, e.DisplayName, e.Balance)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
