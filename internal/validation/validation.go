package validation

import (
	"regexp"
	"strings"
)

// MaxKeywordLength caps search keywords at the longest query the counts API accepts.
const MaxKeywordLength = 512

// WalletPattern defines the valid wallet address format: alphanumeric, 4 to 128 chars.
var WalletPattern = regexp.MustCompile(`^[a-zA-Z0-9]{4,128}$`)

// ValidateKeyword checks that a search keyword is usable after trimming.
func ValidateKeyword(keyword string) (bool, string) {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return false, "Please enter a keyword to search"
	}
	if len(trimmed) > MaxKeywordLength {
		return false, "Keyword is too long"
	}
	return true, ""
}

// NormalizeKeyword lowercases a keyword and collapses runs of whitespace so
// "Bitcoin" and " bitcoin  " resolve to the same history entry and series file.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// NormalizeWalletAddress strips surrounding whitespace from a wallet address.
func NormalizeWalletAddress(address string) string {
	return strings.TrimSpace(address)
}

// ValidateWalletAddress checks that a wallet address matches the allowed pattern.
func ValidateWalletAddress(address string) (bool, string) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return false, "Wallet address is required"
	}
	if !WalletPattern.MatchString(trimmed) {
		return false, "Wallet address must be 4-128 alphanumeric characters"
	}
	return true, ""
}
