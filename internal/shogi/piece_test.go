package shogi

import "testing"

func TestPieceRoundTrip(t *testing.T) {
	for pt := Pawn; pt < NoPieceType; pt++ {
		for _, c := range []Color{Black, White} {
			p := NewPiece(pt, c)
			if p.Type() != pt {
				t.Fatalf("NewPiece(%v,%v).Type() = %v, want %v", pt, c, p.Type(), pt)
			}
			if p.Color() != c {
				t.Fatalf("NewPiece(%v,%v).Color() = %v, want %v", pt, c, p.Color(), c)
			}
		}
	}
}

func TestNewPieceRejectsOutOfRangeInputs(t *testing.T) {
	p := NewPiece(NoPieceType, Black)
	if p != NoPiece {
		t.Fatalf("NewPiece(NoPieceType, Black) = %v, want NoPiece", p)
	}
	p2 := NewPiece(Pawn, NoColor)
	if p2 != NoPiece {
		t.Fatalf("NewPiece(Pawn, NoColor) = %v, want NoPiece", p2)
	}
}

func TestPromotedRoundTrip(t *testing.T) {
	cases := map[PieceType]PieceType{
		ProPawn:   Pawn,
		ProLance:  Lance,
		ProKnight: Knight,
		ProSilver: Silver,
		Horse:     Bishop,
		Dragon:    Rook,
	}
	for promoted, base := range cases {
		if !promoted.IsPromoted() {
			t.Fatalf("%v.IsPromoted() = false, want true", promoted)
		}
		if got := promoted.Unpromoted(); got != base {
			t.Fatalf("%v.Unpromoted() = %v, want %v", promoted, got, base)
		}
	}
	if Gold.IsPromoted() {
		t.Fatal("Gold must never be considered promoted (it cannot promote)")
	}
	if Pawn.Unpromoted() != Pawn {
		t.Fatal("Unpromoted() on a non-promoted piece must be the identity")
	}
}

func TestColorOther(t *testing.T) {
	if Black.Other() != White {
		t.Fatalf("Black.Other() = %v, want White", Black.Other())
	}
	if White.Other() != Black {
		t.Fatalf("White.Other() = %v, want Black", White.Other())
	}
}
