package search

import (
	"testing"

	"github.com/tttak/shogicore/internal/shogi"
)

func TestSkipThisDepthMainThreadNeverSkips(t *testing.T) {
	for d := OnePly; d < 40; d++ {
		if skipThisDepth(0, d, 0) {
			t.Fatalf("main thread (idx 0) must never skip depth %d", d)
		}
	}
}

func TestSkipThisDepthIsDeterministic(t *testing.T) {
	for idx := 1; idx < 8; idx++ {
		for d := OnePly; d < 40; d++ {
			a := skipThisDepth(idx, d, 17)
			b := skipThisDepth(idx, d, 17)
			if a != b {
				t.Fatalf("skipThisDepth(%d, %d, 17) is not deterministic", idx, d)
			}
		}
	}
}

func TestVoteBestThreadPrefersShorterMate(t *testing.T) {
	shortMateMove := shogi.NewBoardMove(0, 1, false, shogi.Rook, shogi.NoPieceType)
	longMateMove := shogi.NewBoardMove(2, 3, false, shogi.Bishop, shogi.NoPieceType)

	wShort := &worker{rootMoves: []RootMove{{PV: []shogi.Move{shortMateMove}, Score: MateIn(2)}}}
	wLong := &worker{rootMoves: []RootMove{{PV: []shogi.Move{longMateMove}, Score: MateIn(8)}}}

	winner := voteBestThread([]*worker{wLong, wShort})
	if winner != wShort {
		t.Fatalf("voteBestThread must prefer the shorter mate")
	}
}

func TestVoteBestThreadSumsVotesWhenNoMate(t *testing.T) {
	moveA := shogi.NewBoardMove(0, 1, false, shogi.Rook, shogi.NoPieceType)
	moveB := shogi.NewBoardMove(2, 3, false, shogi.Bishop, shogi.NoPieceType)

	// Two workers agree on moveA at decent depth, one outlier prefers
	// moveB; the majority vote should win even though the outlier's raw
	// score is numerically a little higher.
	w1 := &worker{rootMoves: []RootMove{{PV: []shogi.Move{moveA}, Score: 100}}}
	w2 := &worker{rootMoves: []RootMove{{PV: []shogi.Move{moveA}, Score: 90}}}
	w3 := &worker{rootMoves: []RootMove{{PV: []shogi.Move{moveB}, Score: 110}}}

	winner := voteBestThread([]*worker{w1, w2, w3})
	if winner == nil || winner.rootMoves[0].PV[0] != moveA {
		t.Fatalf("expected the majority move to win the vote")
	}
}

func TestVoteBestThreadHandlesSingleWorker(t *testing.T) {
	move := shogi.NewBoardMove(0, 1, false, shogi.Pawn, shogi.NoPieceType)
	w := &worker{rootMoves: []RootMove{{PV: []shogi.Move{move}, Score: 20}}}
	if got := voteBestThread([]*worker{w}); got != w {
		t.Fatalf("single-worker vote must return that worker")
	}
}
