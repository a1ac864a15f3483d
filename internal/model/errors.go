package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Authentication errors
	ErrSignatureInvalid = errors.New("identity assertion signature invalid")
)
