package search

import (
	"testing"

	"github.com/tttak/shogicore/internal/shogi"
)

func TestTranspositionTableProbeStoreRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1122334455667788)

	entry, hit := tt.Probe(key)
	if hit {
		t.Fatal("probe on an empty table must miss")
	}

	move := shogi.NewBoardMove(3, 10, false, shogi.Silver, shogi.NoPieceType)
	tt.Store(entry, key, Score(250), true, BoundExact, 6, move, Score(200))

	entry2, hit2 := tt.Probe(key)
	if !hit2 {
		t.Fatal("probe after store must hit")
	}
	if entry2.Move() != move {
		t.Fatalf("entry.Move() = %v, want %v", entry2.Move(), move)
	}
	if entry2.Value() != 250 {
		t.Fatalf("entry.Value() = %d, want 250", entry2.Value())
	}
	if entry2.Bound() != BoundExact {
		t.Fatalf("entry.Bound() = %v, want BoundExact", entry2.Bound())
	}
	if !entry2.IsPV() {
		t.Fatal("entry.IsPV() should be true")
	}
}

func TestTranspositionTableDistinctKeysDoNotCollideInTinyTable(t *testing.T) {
	tt := NewTranspositionTable(1)

	keyA := uint64(0x0000000100000000)
	keyB := uint64(0x0000000200000000)

	entryA, _ := tt.Probe(keyA)
	tt.Store(entryA, keyA, 10, false, BoundExact, 2, shogi.None, ScoreNone)

	_, hitB := tt.Probe(keyB)
	if hitB {
		t.Fatal("a different key32 must not report a hit from another entry's slot")
	}
}

func TestTranspositionTableClearResetsHitRate(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0xAABBCCDDEEFF0011)
	entry, _ := tt.Probe(key)
	tt.Store(entry, key, 5, false, BoundLower, 3, shogi.None, ScoreNone)
	tt.Probe(key)

	if tt.HitRate() == 0 {
		t.Fatal("expected a nonzero hit rate before Clear")
	}
	tt.Clear()
	if tt.HitRate() != 0 {
		t.Fatalf("HitRate after Clear = %v, want 0", tt.HitRate())
	}
	if _, hit := tt.Probe(key); hit {
		t.Fatal("Clear must evict all entries")
	}
}

func TestTranspositionTableSnapshotRestoreRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1234000000000000)
	move := shogi.NewBoardMove(4, 12, true, shogi.Bishop, shogi.Pawn)

	entry, _ := tt.Probe(key)
	tt.Store(entry, key, 77, false, BoundUpper, 5, move, 60)

	snap := tt.Snapshot()
	if len(snap) == 0 {
		t.Fatal("expected at least one snapshot entry")
	}

	tt2 := NewTranspositionTable(1)
	tt2.Restore(snap)

	restored, hit := tt2.Probe(key)
	if !hit {
		t.Fatal("restored table must report a hit for the persisted key")
	}
	if restored.Move() != move || restored.Value() != 77 {
		t.Fatalf("restored entry = %+v, want move=%v value=77", restored, move)
	}
}
