package persist

import (
	"testing"

	"github.com/tttak/shogicore/internal/search"
	"github.com/tttak/shogicore/internal/shogi"
)

func TestStoreSaveLoadTTRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	tt := search.NewTranspositionTable(1)
	const key = uint64(0xABCD1234) << 32
	entry, _ := tt.Probe(key)
	move := shogi.NewDropMove(7, shogi.Silver)
	tt.Store(entry, key, search.Score(123), true, search.BoundExact, 6, move, search.Score(50))

	if err := store.SaveTT(tt); err != nil {
		t.Fatalf("SaveTT: %v", err)
	}

	fresh := search.NewTranspositionTable(1)
	if err := store.LoadTT(fresh); err != nil {
		t.Fatalf("LoadTT: %v", err)
	}

	got, hit := fresh.Probe(key)
	if !hit {
		t.Fatal("expected the restored table to report a hit for the saved key")
	}
	if got.Move() != move {
		t.Fatalf("restored move = %v, want %v", got.Move(), move)
	}
	if got.Value() != search.Score(123) {
		t.Fatalf("restored value = %v, want 123", got.Value())
	}
	if got.Depth() != 6 {
		t.Fatalf("restored depth = %v, want 6", got.Depth())
	}
}

func TestStoreLoadTTIsNoOpWhenNothingSaved(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	tt := search.NewTranspositionTable(1)
	if err := store.LoadTT(tt); err != nil {
		t.Fatalf("LoadTT on an empty store should not error: %v", err)
	}
	if tt.NumClusters() == 0 {
		t.Fatal("LoadTT must not have torn down the table")
	}
}

func TestDefaultDataDirIsNonEmpty(t *testing.T) {
	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir: %v", err)
	}
	if dir == "" {
		t.Fatal("DefaultDataDir() returned an empty path")
	}
}
