package request

import "encoding/json"

// AuthRequest is the request body for authentication.
// Either InitData (signed assertion) or TelegramID/DisplayName
// (trusted mode, normally disabled) is set.
type AuthRequest struct {
	InitData    string `json:"init_data,omitempty"`
	TelegramID  int64  `json:"telegram_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// AdjustBalanceRequest is the request body for a balance adjustment.
// Delta is a json.Number so a fractional or non-numeric value fails
// request parsing rather than being silently truncated.
type AdjustBalanceRequest struct {
	Delta json.Number `json:"delta"`
}
