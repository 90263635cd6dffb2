package search

import "github.com/tttak/shogicore/internal/shogi"

// updateKillers implements spec §4.C step 1: shift in a new killer
// unless it's already the primary killer, preserving the invariant that
// killers[0] != killers[1] (spec §8 invariant 4).
func updateKillers(ss *SearchStack, move shogi.Move) {
	if ss.killers[0] != move {
		ss.killers[1] = ss.killers[0]
		ss.killers[0] = move
	}
}

// updateQuietStats implements spec §4.C "update_quiet_stats".
func (w *worker) updateQuietStats(ply int, move shogi.Move, bonus int32, depth Depth) {
	ss := &w.stack[ply]
	updateKillers(ss, move)

	us := w.pos.Turn()
	w.history.updateMainHistory(move.FromToIndex(), us, bonus)
	updateContinuationHistories(w.stack, ply, move.PieceTypeFrom(), move.To(), bonus)

	if ply > 0 {
		prev := &w.stack[ply-1]
		if prev.currentMove != shogi.None {
			w.history.setCounterMove(prev.currentMove.To(), prev.movedPiece, move)
		}
	}

	if depth > 12*OnePly && ss.ply < 4 {
		w.history.updateLowPly(ss.ply, move.FromToIndex(), statBonus(depth-7*OnePly))
	}
}

// maxBufferedQuiets / maxBufferedCaptures bound how many non-best moves are
// buffered for the penalty pass in updateAllStats (spec §4.F step 24:
// "up to 64" quiets, "up to 32" captures).
const (
	maxBufferedQuiets   = 64
	maxBufferedCaptures = 32
)

// updateAllStats implements spec §4.C "update_all_stats": called once a
// move loop finds a new bestMove, to reward it and penalize the
// alternatives searched before it.
func (w *worker) updateAllStats(ply int, bestMove shogi.Move, bestValue, beta Score, depth Depth,
	quietsSearched, capturesSearched []shogi.Move) {

	us := w.pos.Turn()
	bonus1 := statBonus(depth + OnePly)
	bonus2 := statBonus(depth)
	if bestValue > beta+128 {
		bonus2 = bonus1
	}

	isQuiet := !bestMove.IsCapture() && !(bestMove.IsPromotion() && bestMove.PieceTypeFrom() == shogi.Pawn)

	if isQuiet {
		w.updateQuietStats(ply, bestMove, bonus2, depth)
		for _, q := range quietsSearched {
			if q == bestMove {
				continue
			}
			w.history.updateMainHistory(q.FromToIndex(), us, -bonus2)
			updateContinuationHistories(w.stack, ply, q.PieceTypeFrom(), q.To(), -bonus2)
		}
	} else {
		w.history.updateCapture(bestMove.To(), bestMove.PieceTypeFrom(), bestMove.CapturedPieceType(), bonus1)
	}

	if ply > 0 {
		prev := &w.stack[ply-1]
		prevWasSingular := prev.moveCount == 1 || prev.currentMove == prev.killers[0]
		prevPrevCapture := ply >= 2 && w.stack[ply-2].currentMove != shogi.None && w.stack[ply-2].currentMove.IsCapture()
		if prevWasSingular && !prevPrevCapture && prev.currentMove != shogi.None {
			updateContinuationHistories(w.stack, ply-1, prev.movedPiece, prev.currentMove.To(), -bonus1)
		}
	}

	for _, c := range capturesSearched {
		if c == bestMove {
			continue
		}
		w.history.updateCapture(c.To(), c.PieceTypeFrom(), c.CapturedPieceType(), -bonus1)
	}
}
