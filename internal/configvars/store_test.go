package configvars

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(map[string]string{RCONIP: "10.0.0.1"})

	if err := m.Set(ctx, BootRestoreWeek, "042a"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, RCONIP, "203.0.113.5"); err != nil {
		t.Fatal(err)
	}

	want := []Write{{BootRestoreWeek, "042a"}, {RCONIP, "203.0.113.5"}}
	if diff := cmp.Diff(want, m.Writes()); diff != "" {
		t.Errorf("Writes() mismatch (-want +got):\n%s", diff)
	}

	if _, err := m.Get(ctx, "MISSING"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(MISSING) error = %v, want ErrNotFound", err)
	}

	m.Err = errors.New("platform down")
	if err := m.Set(ctx, RCONIP, "x"); err == nil {
		t.Error("expected Set error")
	}
	if len(m.Writes()) != 2 {
		t.Error("failed write should not be recorded")
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := s.Get(ctx, RCONIP); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, RCONIP, "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, RCONIP, "203.0.113.5"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, BootRestoreWeek, "042a"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, RCONIP)
	if err != nil {
		t.Fatal(err)
	}
	if got != "203.0.113.5" {
		t.Errorf("Get(RCON_IP) = %q, want upserted value", got)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{RCONIP: "203.0.113.5", BootRestoreWeek: "042a"}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{BootRestoreWeek, RCONIP}, SortedKeys(all)); diff != "" {
		t.Errorf("SortedKeys() mismatch (-want +got):\n%s", diff)
	}
}
