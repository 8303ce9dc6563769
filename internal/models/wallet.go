package models

import "time"

// WalletAccount pairs a wallet address with its accumulated points balance.
type WalletAccount struct {
	Address string `json:"wallet_address"`
	Points  int64  `json:"points"`
}

// WalletConnection records an active session's wallet and when it connected.
type WalletConnection struct {
	Address     string    `json:"wallet_address"`
	ConnectedAt time.Time `json:"connected_at"`
}
