package store

import "errors"

// Domain-level storage error sentinels.
var (
	// Series errors
	ErrSeriesNotFound = errors.New("series not found")

	// Keyword errors
	ErrEmptyKeyword = errors.New("keyword is empty")

	// Wallet errors
	ErrEmptyWalletAddress = errors.New("wallet address is empty")
)
