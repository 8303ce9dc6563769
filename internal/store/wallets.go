package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"buzzboard/internal/models"
)

// RegisterWallet records a wallet in the registry the first time it connects
// and makes sure it has a ledger row. Returns true for a first connect.
func (s *FileStore) RegisterWallet(ctx context.Context, address string, at time.Time) (bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return false, ErrEmptyWalletAddress
	}

	s.walletsMu.Lock()
	wallets, err := s.readWalletsLocked()
	if err != nil {
		s.walletsMu.Unlock()
		return false, err
	}

	isNew := true
	for _, w := range wallets {
		if w.Address == address {
			isNew = false
			break
		}
	}
	if isNew {
		row := []string{address, at.UTC().Format(models.TimestampLayout)}
		if err := appendCSV(s.walletsPath(), row); err != nil {
			s.walletsMu.Unlock()
			return false, err
		}
	}
	s.walletsMu.Unlock()

	// Seed the ledger row so the wallet shows up with zero points.
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	ledger, err := s.readLedgerLocked()
	if err != nil {
		return false, err
	}
	if _, ok := ledger[address]; !ok {
		ledger[address] = 0
		if err := s.writeLedgerLocked(ledger); err != nil {
			return false, err
		}
	}
	return isNew, nil
}

// Wallets returns every registered wallet in registration order.
func (s *FileStore) Wallets(ctx context.Context) ([]models.WalletConnection, error) {
	s.walletsMu.Lock()
	defer s.walletsMu.Unlock()

	return s.readWalletsLocked()
}

// CreditPoints adds one point to the wallet and returns its new total. The
// read-modify-write runs under the points mutex so concurrent credits to the
// same wallet cannot lose updates.
func (s *FileStore) CreditPoints(ctx context.Context, address string) (int64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, ErrEmptyWalletAddress
	}

	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	ledger, err := s.readLedgerLocked()
	if err != nil {
		return 0, err
	}

	total := ledger[address] + 1
	ledger[address] = total
	if err := s.writeLedgerLocked(ledger); err != nil {
		return 0, err
	}
	return total, nil
}

// Points returns the wallet's current total, zero for unseen wallets.
func (s *FileStore) Points(ctx context.Context, address string) (int64, error) {
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	ledger, err := s.readLedgerLocked()
	if err != nil {
		return 0, err
	}
	return ledger[strings.TrimSpace(address)], nil
}

// AllPoints returns the whole ledger ordered by wallet address.
func (s *FileStore) AllPoints(ctx context.Context) ([]models.WalletAccount, error) {
	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	ledger, err := s.readLedgerLocked()
	if err != nil {
		return nil, err
	}

	accounts := make([]models.WalletAccount, 0, len(ledger))
	for address, points := range ledger {
		accounts = append(accounts, models.WalletAccount{Address: address, Points: points})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Address < accounts[j].Address })
	return accounts, nil
}

func (s *FileStore) readWalletsLocked() ([]models.WalletConnection, error) {
	rows, err := readCSV(s.walletsPath())
	if err != nil {
		return nil, err
	}

	var wallets []models.WalletConnection
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ts, err := time.Parse(models.TimestampLayout, row[1])
		if err != nil {
			continue
		}
		wallets = append(wallets, models.WalletConnection{Address: row[0], ConnectedAt: ts})
	}
	return wallets, nil
}

func (s *FileStore) readLedgerLocked() (map[string]int64, error) {
	rows, err := readCSV(s.pointsPath())
	if err != nil {
		return nil, err
	}

	ledger := make(map[string]int64, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		points, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			continue
		}
		ledger[row[0]] = points
	}
	return ledger, nil
}

// writeLedgerLocked rewrites the ledger sorted by address so the file is
// deterministic across credits.
func (s *FileStore) writeLedgerLocked(ledger map[string]int64) error {
	addresses := make([]string, 0, len(ledger))
	for address := range ledger {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	rows := make([][]string, 0, len(addresses))
	for _, address := range addresses {
		rows = append(rows, []string{address, strconv.FormatInt(ledger[address], 10)})
	}
	return s.writeCSV(s.pointsPath(), []string{"wallet_address", "points"}, rows)
}
