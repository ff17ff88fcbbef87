package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory ok", Config{Type: MemoryBackend}, false},
		{"sqlite ok", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"postgres ok", Config{Type: PostgresBackend, PostgresURL: "postgres://localhost/x"}, false},
		{"postgres missing url", Config{Type: PostgresBackend}, true},
		{"unknown type", Config{Type: "redis"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				var ice *InvalidConfigError
				if !errors.As(err, &ice) {
					t.Errorf("error type = %T, want *InvalidConfigError", err)
				}
			}
		})
	}
}

func TestFactoryCreatesMemoryBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, SeedDemoData: true})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()

	all, err := res.Repository.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(all) != 25 {
		t.Errorf("seeded memory backend has %d transactions, want 25", len(all))
	}
}

func TestFactoryCreatesSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()

	cats, err := res.Repository.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 13 {
		t.Errorf("got %d categories, want 13", len(cats))
	}
}
