// Package transactions persists the transaction list as one JSON document
// under a fixed key of a key-value store.
package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"gofinances/internal/core"
	"gofinances/internal/kv"
)

// Store is append-only: records are never updated or removed. Appends are
// serialised within the process; concurrent writers in other processes can
// still lose updates.
type Store struct {
	kv  kv.Store
	key string
	mu  sync.Mutex
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store, key: kv.TransactionsKey}
}

// Append adds record at the end of the stored list and writes the whole list
// back with a single Set. Stored entries are written back byte for byte,
// including single records this version cannot decode. A missing list starts
// empty. A value that is not a JSON array at all also starts empty, but it is
// first copied to kv.MalformedTransactionsKey so it can be recovered by hand.
func (s *Store) Append(ctx context.Context, record core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, items, intact, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !intact {
		if err := s.kv.Set(ctx, kv.MalformedTransactionsKey, raw); err != nil {
			return fmt.Errorf("back up malformed transactions: %w", err)
		}
		slog.WarnContext(ctx, "Replacing malformed transaction data",
			"component", "transactions",
			"key", s.key,
			"backup_key", kv.MalformedTransactionsKey)
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	next := make([]json.RawMessage, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, encoded)

	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	return nil
}

// ReadAll returns the stored records in insertion order. An absent key or a
// value that is not a JSON array yields an empty list; single records that do
// not decode are skipped. Only a failing read is an error.
func (s *Store) ReadAll(ctx context.Context) ([]core.Transaction, error) {
	_, items, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]core.Transaction, 0, len(items))
	for i, item := range items {
		var r core.Transaction
		if err := json.Unmarshal(item, &r); err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction record",
				"component", "transactions",
				"key", s.key,
				"index", i,
				"error", err)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// load splits the stored list into its raw entries. intact is false when a
// value is stored but is not a JSON array.
func (s *Store) load(ctx context.Context) (raw string, items []json.RawMessage, intact bool, err error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return "", nil, false, fmt.Errorf("read transactions: %w", err)
	}
	if !ok || raw == "" {
		return raw, nil, true, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.WarnContext(ctx, "Ignoring malformed transaction data",
			"component", "transactions",
			"key", s.key,
			"error", err)
		return raw, nil, false, nil
	}
	return raw, items, true, nil
}
