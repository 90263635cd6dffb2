package search

import "testing"

func TestScoreToTTRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		s    Score
		ply  int
	}{
		{"plain score", 123, 5},
		{"negative plain score", -77, 12},
		{"mate score", MateIn(3), 4},
		{"mated score", MatedIn(7), 9},
		{"zero ply", MateIn(1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stored := ScoreToTT(tc.s, tc.ply)
			got := ScoreFromTT(stored, tc.ply)
			if got != tc.s {
				t.Fatalf("round trip: got %d, want %d (stored=%d)", got, tc.s, stored)
			}
		})
	}
}

func TestScoreFromTTPassesThroughScoreNone(t *testing.T) {
	if got := ScoreFromTT(ScoreNone, 3); got != ScoreNone {
		t.Fatalf("ScoreFromTT(ScoreNone) = %d, want ScoreNone", got)
	}
}

func TestScoreToTTPanicsOnScoreNone(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling ScoreToTT with ScoreNone")
		}
	}()
	ScoreToTT(ScoreNone, 1)
}

func TestMateDistanceOrdering(t *testing.T) {
	if MateIn(1) <= MateIn(3) {
		t.Fatalf("a shorter mate must score higher: MateIn(1)=%d, MateIn(3)=%d", MateIn(1), MateIn(3))
	}
	if MatedIn(1) >= MatedIn(3) {
		t.Fatalf("being mated sooner must score lower: MatedIn(1)=%d, MatedIn(3)=%d", MatedIn(1), MatedIn(3))
	}
	if MateIn(1) <= KnownWin {
		t.Fatalf("a mate score must exceed KnownWin")
	}
}
