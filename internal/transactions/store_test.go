package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gofinances/internal/core"
	"gofinances/internal/kv"
	"gofinances/internal/kv/memory"
)

func record(id string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Type:     core.Expense,
		Name:     "item " + id,
		Amount:   "10",
		Category: "food",
		Date:     time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

type failingKV struct {
	getErr error
	setErr error
	kv.Store
}

func (f failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f failingKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func TestReadAllEmpty(t *testing.T) {
	s := NewStore(memory.New())
	got, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReadAllMalformed(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":"a"}`, "null"} {
		mem := memory.New()
		_ = mem.Set(ctx, kv.TransactionsKey, raw)
		got, err := NewStore(mem).ReadAll(ctx)
		if err != nil {
			t.Fatalf("%q: malformed data must not fail: %v", raw, err)
		}
		if len(got) != 0 {
			t.Fatalf("%q: expected empty list, got %+v", raw, got)
		}
	}
}

func TestAppendThenReadAll(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Append(ctx, record(id)); err != nil {
			t.Fatalf("Append %s: %v", id, err)
		}
	}
	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, id := range []string{"a", "b", "c"} {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if !got[0].Date.Equal(record("a").Date) || got[0].Amount != "10" {
		t.Fatalf("record not preserved: %+v", got[0])
	}
}

func TestAppendOverMalformedStartsFresh(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	_ = mem.Set(ctx, kv.TransactionsKey, "garbage")
	s := NewStore(mem)

	if err := s.Append(ctx, record("x")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, _ := s.ReadAll(ctx)
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected a fresh list with one record, got %+v", got)
	}
	backup, ok, err := mem.Get(ctx, kv.MalformedTransactionsKey)
	if err != nil || !ok || backup != "garbage" {
		t.Fatalf("replaced data must be backed up, got %q %v %v", backup, ok, err)
	}
}

func TestAppendKeepsHistoryAroundBadRecord(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	stored := `[
		{"id":"a","type":"negative","name":"Pizza","amount":"10","category":"food","date":"2023-01-15T12:00:00Z"},
		{"id":"b","type":"negative","name":"Cinema","amount":"20","category":"leisure","date":"2023-01-16"},
		{"id":"c","type":"negative","name":"Broken","amount":"5","category":"food","date":"someday"}
	]`
	_ = mem.Set(ctx, kv.TransactionsKey, stored)
	s := NewStore(mem)

	before, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(before) != 2 || before[1].ID != "b" || before[1].Date.Day() != 16 {
		t.Fatalf("expected the two readable records, got %+v", before)
	}

	if err := s.Append(ctx, record("new")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	after, _ := s.ReadAll(ctx)
	if len(after) != 3 || after[0].ID != "a" || after[1].ID != "b" || after[2].ID != "new" {
		t.Fatalf("history must survive an append, got %+v", after)
	}
	raw, _, _ := mem.Get(ctx, kv.TransactionsKey)
	if !strings.Contains(raw, `"someday"`) {
		t.Fatalf("undecodable record must be written back unchanged, got %s", raw)
	}
	if _, ok, _ := mem.Get(ctx, kv.MalformedTransactionsKey); ok {
		t.Fatalf("a readable list must not be backed up")
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	s := NewStore(failingKV{Store: memory.New(), getErr: boom})
	if _, err := s.ReadAll(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if err := s.Append(ctx, record("a")); !errors.Is(err, boom) {
		t.Fatalf("expected append to surface read error, got %v", err)
	}

	mem := memory.New()
	s = NewStore(failingKV{Store: mem, setErr: boom})
	if err := s.Append(ctx, record("a")); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
	if _, ok, _ := mem.Get(ctx, kv.TransactionsKey); ok {
		t.Fatalf("nothing must be written on failure")
	}
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Append(ctx, record(fmt.Sprintf("r%d", i))); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := s.ReadAll(ctx)
	if len(got) != 20 {
		t.Fatalf("expected 20 records, got %d", len(got))
	}
}
