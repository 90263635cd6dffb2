package search

import (
	"sync/atomic"

	"github.com/tttak/shogicore/internal/shogi"
)

// worker is one Lazy-SMP search worker (component F/G, the "per-thread"
// half of the thread pool in component H). Each worker owns its
// position copy, history tables, and search stack; it shares the
// transposition table and breadcrumb table with every other worker in
// the pool (spec §3 "Lifecycle", §5).
type worker struct {
	id int

	pos  shogi.Position
	gen  shogi.MoveGenerator
	eval shogi.Evaluator

	tt          *TranspositionTable
	breadcrumbs *BreadcrumbTable
	history     *History

	stack []SearchStack

	pvLength [MaxPly + 1]int
	pvTable  [MaxPly + 1][MaxPly]shogi.Move

	rootMoves     []RootMove
	rootPvIdx     int
	rootPvLast    int
	bestMoveChanges int

	nodes    atomic.Uint64
	stopFlag *atomic.Bool

	callsCnt  int
	nodesLimit uint64

	nmpMinPly int
	nmpColor  shogi.Color

	rootDelta Score

	threadCount int // contributes to the LMR reduction table (spec §6 init())

	excludedRootMoves []shogi.Move
}

func newWorker(id int, tt *TranspositionTable, bc *BreadcrumbTable, stopFlag *atomic.Bool, threadCount int) *worker {
	return &worker{
		id:          id,
		tt:          tt,
		breadcrumbs: bc,
		history:     NewHistory(),
		stack:       newSearchStackArray(MaxPly + 16),
		stopFlag:    stopFlag,
		threadCount: threadCount,
	}
}

// reset prepares the worker for a fresh search of a new position.
func (w *worker) reset(pos shogi.Position, gen shogi.MoveGenerator, eval shogi.Evaluator, rootMoves []RootMove, nodesLimit uint64) {
	w.pos = pos
	w.gen = gen
	w.eval = eval
	w.rootMoves = rootMoves
	w.rootPvIdx = 0
	w.rootPvLast = len(rootMoves)
	w.nodes.Store(0)
	w.nmpMinPly = 0
	w.rootDelta = 0
	w.bestMoveChanges = 0
	w.callsCnt = 0
	w.nodesLimit = nodesLimit
	for i := range w.stack {
		w.stack[i].reset()
		w.stack[i].ply = i
	}
}

// pushMove records bookkeeping for the move about to be played at ply,
// mirroring spec §4.F step 18 ("update currentMove, continuationHistoryRef").
func (w *worker) pushMove(ply int, move shogi.Move) {
	ss := &w.stack[ply]
	inCheck := w.pos.InCheck()
	capture := move.IsCapture()
	piece := move.PieceTypeFrom()
	to := move.To()
	ss.currentMove = move
	ss.movedPiece = piece
	ss.contHist = w.history.continuationTable(inCheck, capture, piece, to)
}

func (w *worker) evaluate(ply int) Score {
	ss := &w.stack[ply]
	if ss.staticEvalRaw == nil {
		var blob any
		ss.staticEvalRaw = &blob
	}
	return w.eval.Evaluate(w.pos, ss.staticEvalRaw.(*any))
}

// fillContHist populates the 6-slot continuation-history window the
// move picker and LMR use: indices 0,1,3,5 are populated per spec §4.F
// "construct MovePicker with contHist = [stack[-1], stack[-2], null,
// stack[-4], null, stack[-6]]"; indices 2 and 4 are intentionally nil.
func fillContHist(stack []SearchStack, ply int, out *[6]*PieceToHistory) {
	idxs := [6]int{1, 2, 0, 4, 0, 6}
	for slot, back := range idxs {
		if slot == 2 || slot == 4 {
			out[slot] = nil
			continue
		}
		if ply-back < 0 || stack[ply-back].currentMove == shogi.None {
			out[slot] = nil
			continue
		}
		out[slot] = stack[ply-back].contHist
	}
}

func (w *worker) isMainThread() bool { return w.id == 0 }

// checkTime is invoked periodically from negamax (spec §4.F step 2).
// The actual deadline/time-budget decision lives in the shared
// SearchContext so every worker observes the same stop condition; this
// method only throttles how often that check happens.
func (w *worker) checkTime(ctx *SearchContext) {
	w.callsCnt++
	limit := 4096
	if w.nodesLimit > 0 && int(w.nodesLimit/1024) < limit {
		limit = int(w.nodesLimit / 1024)
		if limit < 1 {
			limit = 1
		}
	}
	if w.callsCnt < limit {
		return
	}
	w.callsCnt = 0
	if ctx.checkTimeUp(w.nodes.Load(), w.nodesLimit) {
		w.stopFlag.Store(true)
	}
}
