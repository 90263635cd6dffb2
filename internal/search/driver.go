package search

import (
	"sort"

	"github.com/tttak/shogicore/internal/shogi"
)

// skipSize / skipPhase are the fixed Lazy-SMP depth-skip tables (spec
// §4.G step 1, GLOSSARY): helper thread idx>0 skips rootDepth d whenever
// ((d + gamePly + skipPhase[i]) / skipSize[i]) is odd, i = (idx-1) mod 20.
var skipSize = [20]int{1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4}
var skipPhase = [20]int{0, 1, 0, 1, 2, 3, 0, 1, 2, 3, 4, 5, 0, 1, 2, 3, 4, 5, 6, 7}

// skipThisDepth implements the Lazy-SMP skip rule for a helper worker.
func skipThisDepth(workerIdx int, rootDepth Depth, gamePly int) bool {
	if workerIdx == 0 {
		return false
	}
	i := (workerIdx - 1) % 20
	return ((int(rootDepth)+gamePly+skipPhase[i])/skipSize[i])%2 == 1
}

// iterate runs the iterative-deepening driver for one worker (spec
// §4.G) until SearchContext signals stop or the depth limit is
// reached. It is invoked once per worker by the thread pool; the main
// worker (id 0) additionally drives time management and PV reporting.
func (w *worker) iterate(ctx *SearchContext) {
	gamePly := w.pos.GamePly()
	maxDepth := Depth(MaxPly - 1)
	if ctx.Limits.Depth > 0 && ctx.Limits.Depth < maxDepth {
		maxDepth = Depth(ctx.Limits.Depth)
	}

	multiPV := ctx.Limits.MultiPV
	if multiPV < 1 {
		multiPV = 1
	}
	if multiPV > len(w.rootMoves) {
		multiPV = len(w.rootMoves)
	}

	stabilityCount := 0
	var prevBestMove shogi.Move

	for rootDepth := OnePly; rootDepth <= maxDepth; rootDepth++ {
		if ctx.StopRequested() {
			break
		}
		if skipThisDepth(w.id, rootDepth, gamePly) {
			continue
		}

		for i := range w.rootMoves {
			w.rootMoves[i].PreviousScore = w.rootMoves[i].Score
		}

		w.bestMoveChanges = 0

		for pvIdx := 0; pvIdx < multiPV; pvIdx++ {
			w.rootPvIdx = pvIdx
			w.rootPvLast = len(w.rootMoves)

			score := w.searchWithAspiration(ctx, rootDepth, pvIdx)
			w.rootMoves[pvIdx].Score = score

			sort.SliceStable(w.rootMoves[pvIdx:w.rootPvLast], func(a, b int) bool {
				return w.rootMoves[pvIdx+a].Score > w.rootMoves[pvIdx+b].Score
			})

			if ctx.StopRequested() {
				break
			}
		}

		if ctx.StopRequested() {
			break
		}

		if w.isMainThread() {
			logger.Debug().
				Int("depth", rootDepth).
				Int("score", int(w.rootMoves[0].Score)).
				Uint64("nodes", w.nodes.Load()).
				Msg("depth-completed")

			if len(w.rootMoves) > 0 {
				if w.rootMoves[0].PV[0] == prevBestMove {
					stabilityCount++
				} else {
					stabilityCount = 0
					prevBestMove = w.rootMoves[0].PV[0]
				}
			}

			if ctx.TimeMan != nil && !ctx.Limits.Infinite && !ctx.Limits.Ponder &&
				(ctx.Limits.MoveTime > 0 || ctx.Limits.Time[0] > 0 || ctx.Limits.Time[1] > 0) {

				if w.bestMoveChanges > 0 {
					ctx.TimeMan.AdjustForInstability(w.bestMoveChanges)
				} else {
					ctx.TimeMan.AdjustForStability(stabilityCount)
				}
				if ctx.TimeMan.PastOptimum() {
					ctx.Stop()
					break
				}
			}
		}
	}
}

// searchWithAspiration runs the aspiration-window loop around one
// rootDepth/pvIdx search (spec §4.G step 3).
func (w *worker) searchWithAspiration(ctx *SearchContext, rootDepth Depth, pvIdx int) Score {
	alpha, beta := -Infinite, Infinite
	delta := Score(0)

	prev := w.rootMoves[pvIdx].PreviousScore
	if rootDepth >= 5*OnePly {
		delta = 21
		alpha = maxScore(prev-delta, -Infinite)
		beta = minScore(prev+delta, Infinite)
		w.rootDelta = beta - alpha
	}

	for {
		if ctx.StopRequested() {
			return w.rootMoves[pvIdx].Score
		}

		w.callsCnt = 0
		w.checkTime(ctx)
		if ctx.StopRequested() {
			return w.rootMoves[pvIdx].Score
		}

		score := w.negamax(0, alpha, beta, rootDepth, false)

		if ctx.StopRequested() {
			return score
		}

		if score <= alpha {
			beta = (alpha + beta) / 2
			alpha = maxScore(score-delta, -Infinite)
		} else if score >= beta {
			beta = minScore(score+delta, Infinite)
		} else {
			return score
		}

		delta += delta/4 + 5
	}
}

func maxScore(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

func minScore(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// voteBestThread implements the best-thread voting rule (spec §4.G
// "Best-thread voting"): prefer a shorter mate; otherwise sum
// (score-minScore+14)*pvLength votes per candidate move across workers
// and pick the highest total. pvLength is the length of the worker's
// rootMoves[0].PV; the vote is not weighted by a completed search depth,
// since no per-worker completed depth is recorded.
func voteBestThread(workers []*worker) *worker {
	if len(workers) == 0 {
		return nil
	}
	best := workers[0]
	minScoreSeen := workers[0].rootMoves[0].Score
	for _, w := range workers[1:] {
		if len(w.rootMoves) == 0 {
			continue
		}
		if w.rootMoves[0].Score < minScoreSeen {
			minScoreSeen = w.rootMoves[0].Score
		}
	}

	for _, w := range workers {
		if len(w.rootMoves) == 0 {
			continue
		}
		if w.rootMoves[0].Score >= MateInMaxPly && w.rootMoves[0].Score > best.rootMoves[0].Score {
			best = w
		}
	}
	if best.rootMoves[0].Score >= MateInMaxPly {
		return best
	}

	votes := make(map[shogi.Move]int64)
	for _, w := range workers {
		if len(w.rootMoves) == 0 {
			continue
		}
		completed := len(w.rootMoves[0].PV)
		for _, rm := range w.rootMoves {
			if len(rm.PV) == 0 {
				continue
			}
			votes[rm.PV[0]] += int64(rm.Score-minScoreSeen+14) * int64(completed)
		}
	}

	var bestMove shogi.Move
	var bestVote int64 = -1
	for m, v := range votes {
		if v > bestVote {
			bestVote = v
			bestMove = m
		}
	}
	for _, w := range workers {
		if len(w.rootMoves) > 0 && w.rootMoves[0].PV[0] == bestMove {
			return w
		}
	}
	return best
}
