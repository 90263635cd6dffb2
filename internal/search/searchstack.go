package search

import "github.com/tttak/shogicore/internal/shogi"

// SearchStack holds the per-ply state threaded through negamax (spec
// §3 "Search Stack"). One array of these is allocated per worker and
// indexed by ply for the whole lifetime of a search.
type SearchStack struct {
	currentMove     shogi.Move
	excludedMove    shogi.Move
	killers         [2]shogi.Move
	staticEval      Score
	staticEvalRaw   any // opaque differential-eval cache owned by the Evaluator (spec §9)
	moveCount       int
	ply             int
	inCheck         bool
	statScore       int
	pv              []shogi.Move // ply-local PV buffer slice
	contHist        *PieceToHistory
	movedPiece      shogi.PieceType
	reduction       Depth
	cutoffCount     int
	ttPv            bool
}

func newSearchStackArray(n int) []SearchStack {
	ss := make([]SearchStack, n)
	for i := range ss {
		ss[i].ply = i
		ss[i].currentMove = shogi.None
		ss[i].excludedMove = shogi.None
		ss[i].killers = [2]shogi.Move{shogi.None, shogi.None}
	}
	return ss
}

func (ss *SearchStack) reset() {
	ss.currentMove = shogi.None
	ss.excludedMove = shogi.None
	ss.killers = [2]shogi.Move{shogi.None, shogi.None}
	ss.staticEval = ScoreNone
	ss.staticEvalRaw = nil
	ss.moveCount = 0
	ss.inCheck = false
	ss.statScore = 0
	ss.contHist = nil
	ss.movedPiece = shogi.NoPieceType
	ss.reduction = 0
	ss.cutoffCount = 0
	ss.ttPv = false
}

// RootMove is one candidate move at the root of the search tree (spec
// §3 "Root Move").
type RootMove struct {
	PV            []shogi.Move
	Score         Score
	PreviousScore Score
	SelDepth      int
}

func newRootMove(m shogi.Move) RootMove {
	return RootMove{PV: []shogi.Move{m}, Score: -Infinite, PreviousScore: -Infinite}
}
