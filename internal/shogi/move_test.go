package shogi

import "testing"

func TestBoardMoveRoundTrip(t *testing.T) {
	m := NewBoardMove(Square(10), Square(40), true, Rook, Bishop)

	if m.IsDrop() {
		t.Fatal("a board move must not report IsDrop")
	}
	if got := m.From(); got != Square(10) {
		t.Fatalf("From() = %v, want 10", got)
	}
	if got := m.To(); got != Square(40) {
		t.Fatalf("To() = %v, want 40", got)
	}
	if !m.IsPromotion() {
		t.Fatal("expected IsPromotion() true")
	}
	if got := m.PieceTypeFrom(); got != Rook {
		t.Fatalf("PieceTypeFrom() = %v, want Rook", got)
	}
	if got := m.CapturedPieceType(); got != Bishop {
		t.Fatalf("CapturedPieceType() = %v, want Bishop", got)
	}
	if !m.IsCapture() {
		t.Fatal("expected IsCapture() true")
	}
}

func TestDropMoveRoundTrip(t *testing.T) {
	m := NewDropMove(Square(30), Silver)

	if !m.IsDrop() {
		t.Fatal("a drop move must report IsDrop")
	}
	if got := m.DropPieceType(); got != Silver {
		t.Fatalf("DropPieceType() = %v, want Silver", got)
	}
	if got := m.To(); got != Square(30) {
		t.Fatalf("To() = %v, want 30", got)
	}
	if m.IsCapture() {
		t.Fatal("a drop can never capture")
	}
}

func TestFromToIndexIsDenseAndDistinct(t *testing.T) {
	board := NewBoardMove(5, 12, false, Pawn, NoPieceType)
	drop := NewDropMove(12, Pawn)

	if board.FromToIndex() == drop.FromToIndex() {
		t.Fatal("a board move and a drop move landing on the same square must not share a FromToIndex")
	}
	maxIndex := (NumSquares + NumDroppablePieceTypes) * NumSquares
	if idx := board.FromToIndex(); idx < 0 || idx >= maxIndex {
		t.Fatalf("FromToIndex() = %d out of expected range [0,%d)", idx, maxIndex)
	}
}

func TestNoneMoveStringer(t *testing.T) {
	if None.String() != "none" {
		t.Fatalf("None.String() = %q, want \"none\"", None.String())
	}
}

func TestIsCaptureOrPawnPromotion(t *testing.T) {
	capture := NewBoardMove(1, 2, false, Silver, Gold)
	if !capture.IsCaptureOrPawnPromotion() {
		t.Fatal("a capture must report IsCaptureOrPawnPromotion")
	}
	pawnPromo := NewBoardMove(1, 2, true, Pawn, NoPieceType)
	if !pawnPromo.IsCaptureOrPawnPromotion() {
		t.Fatal("a pawn promotion must report IsCaptureOrPawnPromotion")
	}
	silverPromo := NewBoardMove(1, 2, true, Silver, NoPieceType)
	if silverPromo.IsCaptureOrPawnPromotion() {
		t.Fatal("a quiet silver promotion must not report IsCaptureOrPawnPromotion")
	}
}
