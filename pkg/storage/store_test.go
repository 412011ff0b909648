package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

func newTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	s, err := New(Config{Path: filepath.Join(t.TempDir(), "nested", "history.db"), MaxEntries: maxEntries})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotNamed(name string, conditions ...interfaces.ConditionScore) *interfaces.Snapshot {
	el := interfaces.Element{ID: "e1", Name: name}
	for i, c := range conditions {
		el.Reports = append(el.Reports, interfaces.InspectionReport{ID: string(rune('a' + i)), Condition: c})
	}
	return &interfaces.Snapshot{Version: interfaces.SnapshotVersion, Elements: []interfaces.Element{el}}
}

func TestStore_SaveAndLatest(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty history, got %v", err)
	}

	if err := s.Save(ctx, snapshotNamed("Roof", 2, 5)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, snapshotNamed("Roof v2", 3)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Elements[0].Name != "Roof v2" {
		t.Errorf("expected latest snapshot, got %q", latest.Elements[0].Name)
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID <= entries[1].ID {
		t.Error("expected newest entry first")
	}
	older := entries[1]
	if older.Elements != 1 || older.Reports != 2 || older.Worst != 5 {
		t.Errorf("unexpected entry metadata %+v", older)
	}
	if older.Digest == "" || older.SavedAt.IsZero() {
		t.Errorf("expected digest and timestamp, got %+v", older)
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Elements[0].Name != "Roof" || len(got.Elements[0].Reports) != 2 {
		t.Errorf("unexpected snapshot %+v", got)
	}

	if _, err := s.Get(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SkipsUnchangedContent(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Save(ctx, snapshotNamed("Roof", 1)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected identical saves to collapse into 1 entry, got %d", len(entries))
	}
}

func TestStore_PrunesToMaxEntries(t *testing.T) {
	s := newTestStore(t, 2)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		if err := s.Save(ctx, snapshotNamed(name)); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	entries, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after pruning, got %d", len(entries))
	}
	first, err := s.Get(ctx, entries[1].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.Elements[0].Name != "c" {
		t.Errorf("expected oldest kept entry to be c, got %q", first.Elements[0].Name)
	}
}

func TestStore_NegativeMaxEntriesKeepsEverything(t *testing.T) {
	s := newTestStore(t, -1)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, snapshotNamed(name)); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}
	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected all 3 entries kept, got %d", len(entries))
	}
}

func TestStore_ListLimit(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, snapshotNamed(name)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestStore_UsesClock(t *testing.T) {
	s := newTestStore(t, 0)
	fixed := time.Date(2026, time.October, 17, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || !entries[0].SavedAt.Equal(fixed) {
		t.Errorf("expected saved_at %v, got %+v", fixed, entries)
	}
}

func TestStore_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := New(Config{Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save(ctx, snapshotNamed("Roof", 4)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s, err = New(Config{Path: path})
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Elements[0].Reports[0].Condition != 4 {
		t.Errorf("unexpected snapshot after reopen %+v", latest)
	}
}

func TestNew_OpenError(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("injected")
	}

	if _, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db")}); err == nil {
		t.Fatal("expected error from injected openDB")
	}
}
