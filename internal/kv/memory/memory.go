package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gofinances/internal/kv"
)

type Store struct {
	mu     sync.Mutex
	values map[string]string
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// NewFromDir seeds the store from files named after keys in base. Each file
// "<name>.json" is loaded under the key "@gofinances:<name>". Missing or
// unreadable files are skipped.
func NewFromDir(base string) *Store {
	s := New()
	for _, key := range []string{kv.TransactionsKey, kv.UserKey} {
		name := strings.TrimPrefix(key, "@gofinances:") + ".json"
		if v, ok := readFile(filepath.Join(base, name)); ok {
			s.values[key] = v
		}
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns the stored keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	return out
}

func readFile(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(b))
	return v, v != ""
}
