package search

import (
	"testing"

	"github.com/tttak/shogicore/internal/shogi"
)

func TestGravityUpdateStaysWithinBound(t *testing.T) {
	const bound = int32(10692)
	v := int16(0)
	for i := 0; i < 10000; i++ {
		v = gravityUpdate(v, 2000, bound)
		if int32(v) > bound || int32(v) < -bound {
			t.Fatalf("gravityUpdate escaped bound after %d updates: v=%d, bound=%d", i, v, bound)
		}
	}
	if v <= 0 {
		t.Fatalf("repeated positive bonus should leave v positive, got %d", v)
	}
}

func TestGravityUpdateConvergesTowardBonusSign(t *testing.T) {
	v := int16(5000)
	for i := 0; i < 200; i++ {
		v = gravityUpdate(v, -3000, 10692)
	}
	if v >= 0 {
		t.Fatalf("repeated negative bonus should eventually push v negative, got %d", v)
	}
}

func TestHistoryMainHistoryUpdateAndClear(t *testing.T) {
	h := NewHistory()
	h.updateMainHistory(42, shogi.Black, 1200)
	if got := h.mainHistoryScore(42, shogi.Black); got <= 0 {
		t.Fatalf("expected positive main history score after positive bonus, got %d", got)
	}
	if got := h.mainHistoryScore(42, shogi.White); got != 0 {
		t.Fatalf("update must not cross colors, got %d for White", got)
	}

	h.Clear()
	if got := h.mainHistoryScore(42, shogi.Black); got != 0 {
		t.Fatalf("Clear must zero main history, got %d", got)
	}
}

func TestHistoryAgeHalvesAndClearsCounterMoves(t *testing.T) {
	h := NewHistory()
	h.updateMainHistory(10, shogi.Black, 4000)
	before := h.mainHistoryScore(10, shogi.Black)

	h.setCounterMove(shogi.Square(5), shogi.Pawn, shogi.NewBoardMove(1, 2, false, shogi.Pawn, shogi.NoPieceType))

	h.Age()

	after := h.mainHistoryScore(10, shogi.Black)
	if after != before/2 {
		t.Fatalf("Age should halve main history: before=%d after=%d", before, after)
	}
	if got := h.counterMove(shogi.Square(5), shogi.Pawn); got != shogi.None {
		t.Fatalf("Age should clear counter moves, got %v", got)
	}
}

func TestPieceToHistoryNilIsReadSafe(t *testing.T) {
	var p *PieceToHistory
	if got := p.get(shogi.Pawn, shogi.Square(0)); got != 0 {
		t.Fatalf("nil PieceToHistory.get must return 0, got %d", got)
	}
	p.update(shogi.Pawn, shogi.Square(0), 500) // must not panic
}

func TestContHistIndexIsDistinctPerSelector(t *testing.T) {
	seen := map[int]bool{}
	for _, inCheck := range []bool{false, true} {
		for _, capture := range []bool{false, true} {
			idx := contHistIndex(inCheck, capture)
			if seen[idx] {
				t.Fatalf("duplicate contHistIndex %d for inCheck=%v capture=%v", idx, inCheck, capture)
			}
			seen[idx] = true
		}
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct selectors, got %d", len(seen))
	}
}

func TestStatBonusDecreasesPastDepth15(t *testing.T) {
	if got := statBonus(16); got != -8 {
		t.Fatalf("statBonus(16) = %d, want -8", got)
	}
	if got := statBonus(1); got <= 0 {
		t.Fatalf("statBonus(1) should be positive, got %d", got)
	}
}
