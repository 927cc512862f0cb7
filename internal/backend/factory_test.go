package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gofinances/internal/config"
	"gofinances/internal/kv"
)

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "transactions.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
		seeded  bool
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "memory seeded", config: Config{Type: MemoryBackend, DataDirectory: dir}, seeded: true},
		{name: "sqlite", config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "kv.db")}},
		{name: "sqlite without path", config: Config{Type: SQLiteBackend}, wantErr: true},
		{name: "unknown", config: Config{Type: "sheets"}, wantErr: true},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(ctx, tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			if res.Cleanup != nil {
				defer res.Cleanup()
			}
			_, ok, err := res.Store.Get(ctx, kv.TransactionsKey)
			if err != nil || ok != tt.seeded {
				t.Fatalf("unexpected seed state ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "nope"}); err == nil {
		t.Fatalf("expected error for invalid backend")
	} else if !strings.Contains(err.Error(), "[sqlite memory]") {
		t.Fatalf("error should list the valid backends, got %v", err)
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", SeedDirectory: "seed"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || cfg.DataDirectory != "seed" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
