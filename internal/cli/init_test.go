package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gofinances/internal/config"
	"gofinances/internal/log"
)

func TestLoadTaxonomy(t *testing.T) {
	tax, err := LoadTaxonomy(&config.Config{})
	if err != nil {
		t.Fatalf("LoadTaxonomy: %v", err)
	}
	if tax.Len() != 6 {
		t.Fatalf("expected built-in categories, got %d", tax.Len())
	}

	path := filepath.Join(t.TempDir(), "categories.json")
	content := `[{"key":"pets","name":"Pets","icon":"github","color":"#123456"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	tax, err = LoadTaxonomy(&config.Config{TaxonomyFile: path})
	if err != nil {
		t.Fatalf("LoadTaxonomy(file): %v", err)
	}
	if c, ok := tax.Lookup("pets"); !ok || c.Name != "Pets" {
		t.Fatalf("expected pets category, got %+v", c)
	}

	if _, err := LoadTaxonomy(&config.Config{TaxonomyFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestOpenStore(t *testing.T) {
	logger := SetupLogger(log.ComponentApp, "error")
	ctx := context.Background()

	store, cleanup, err := OpenStore(ctx, logger, &config.Config{DataBackend: config.BackendMemory})
	if err != nil {
		t.Fatalf("OpenStore(memory): %v", err)
	}
	defer cleanup()
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "gofinances.db")
	store, cleanupSQLite, err := OpenStore(ctx, logger, &config.Config{DataBackend: config.BackendSQLite, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("OpenStore(sqlite): %v", err)
	}
	defer cleanupSQLite()
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set(sqlite): %v", err)
	}
	if got, ok, err := store.Get(ctx, "k"); err != nil || !ok || got != "v" {
		t.Fatalf("Get(sqlite) = %q %v %v", got, ok, err)
	}

	if _, _, err := OpenStore(ctx, logger, &config.Config{DataBackend: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
