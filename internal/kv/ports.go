package kv

import (
	"context"
	"errors"
)

// Well-known keys of the persisted state.
const (
	TransactionsKey = "@gofinances:transactions"
	UserKey         = "@gofinances:user"

	// MalformedTransactionsKey keeps the last unreadable transaction list
	// that an append replaced.
	MalformedTransactionsKey = "@gofinances:transactions:malformed"
)

var ErrClosed = errors.New("store closed")

// Ports for the persistent key-value store. Values are opaque strings; the
// store offers no transactions and no querying.
type (
	Getter interface {
		// Get returns the value under key; ok is false when the key is absent.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
	}

	Setter interface {
		Set(ctx context.Context, key, value string) error
	}

	Remover interface {
		Remove(ctx context.Context, key string) error
	}

	Store interface {
		Getter
		Setter
		Remover
	}
)

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
