package service

import "errors"

// Typed failures returned by the ledger core. The front end matches on
// these with errors.Is to choose user-facing text; anything else is an
// internal failure it reports generically.
var (
	// ErrInvalidAmount is returned for a non-positive amount
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrInsufficientFunds is returned when a debit would drive a balance negative
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrUserNotFound is returned when a transfer target cannot be resolved
	ErrUserNotFound = errors.New("user not found")

	// ErrSelfTransfer is returned when source and resolved target are the same identity
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrStoreUnavailable tags failures of the underlying persistence layer
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrAlreadyCredited is returned when the daily credit has already run for the day
	ErrAlreadyCredited = errors.New("daily credit already applied for this date")

	// ErrCreditRunInProgress is returned when a trigger fires while a run is still active
	ErrCreditRunInProgress = errors.New("daily credit run already in progress")
)
