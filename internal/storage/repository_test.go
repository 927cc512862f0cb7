package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gofinances/internal/kv"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "test.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, ok, err := s.Get(ctx, kv.TransactionsKey); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, kv.TransactionsKey, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, kv.TransactionsKey, `[{"id":"a"}]`); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	v, ok, err := s.Get(ctx, kv.TransactionsKey)
	if err != nil || !ok || v != `[{"id":"a"}]` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", v, ok, err)
	}
	if err := s.Remove(ctx, kv.TransactionsKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, kv.TransactionsKey); ok {
		t.Fatalf("expected key removed")
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	if err := s.Set(ctx, kv.UserKey, `{"id":"u1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, kv.UserKey)
	if err != nil || !ok || v != `{"id":"u1"}` {
		t.Fatalf("value lost across reopen: %q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteStoreClosed(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
	if _, _, err := s.Get(context.Background(), "k"); !errors.Is(err, kv.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := s.Set(context.Background(), "k", "v"); !errors.Is(err, kv.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
