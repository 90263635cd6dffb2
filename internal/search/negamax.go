package search

import (
	"math"

	"github.com/tttak/shogicore/internal/shogi"
)

// reductionTable holds R[i] = floor((24.8 + ln(threadCount)) * ln(i))
// for i in [1, len), filled once by InitReductions (spec §6 init()).
var reductionTable [600]float64

// InitReductions (re)computes the shared LMR reduction table for a
// pool of the given thread count (spec §6 "init()"). Call once before
// starting a search; safe to call again if the thread count changes.
func InitReductions(threadCount int) {
	if threadCount < 1 {
		threadCount = 1
	}
	base := 24.8 + math.Log(float64(threadCount))
	reductionTable[0] = 0
	for i := 1; i < len(reductionTable); i++ {
		reductionTable[i] = math.Floor(base * math.Log(float64(i)))
	}
}

func reductionRaw(i int) float64 {
	if i <= 0 {
		return 0
	}
	if i >= len(reductionTable) {
		i = len(reductionTable) - 1
	}
	return reductionTable[i]
}

// reduction implements the depth/moveCount-to-ply reduction formula
// used by LMR (spec §4.F step 19).
func reduction(improving bool, depth Depth, moveCount int, delta, rootDelta Score) Depth {
	r := reductionRaw(depth) * reductionRaw(moveCount)
	red := (int64(r*1000) + 511000) / 1024000
	if !improving && r > 1007 {
		red++
	}
	_ = delta
	_ = rootDelta
	return Depth(red) * OnePly
}

func clampDepth(d, lo, hi Depth) Depth {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

const counterMovePruneThreshold = 0

// negamax implements component F (spec §4.F). cutNode marks a node
// expected to fail high (an "all node"'s child in the classic
// PVS/NegaScout sense); pvNode is true iff beta-alpha > 1.
func (w *worker) negamax(ply int, alpha, beta Score, depth Depth, cutNode bool) Score {
	pvNode := beta-alpha > 1
	rootNode := ply == 0

	if depth <= 0 {
		return w.qsearch(ply, alpha, beta, 0)
	}

	w.nodes.Add(1)

	if w.stopFlag.Load() {
		return ScoreZero
	}

	ss := &w.stack[ply]
	ss.moveCount = 0
	if ply+2 < len(w.stack) {
		w.stack[ply+1].killers = [2]shogi.Move{shogi.None, shogi.None}
	}

	if !rootNode {
		switch rep := w.pos.IsDraw(16); rep {
		case shogi.RepetitionDraw:
			return ScoreDraw
		case shogi.RepetitionWin:
			return MateIn(ply)
		case shogi.RepetitionLose:
			return MatedIn(ply)
		case shogi.RepetitionSuperior:
			if ply != 2 {
				return MateInMaxPly
			}
		case shogi.RepetitionInferior:
			if ply != 2 {
				return MatedInMaxPly
			}
		}

		if alpha < MatedIn(ply) {
			alpha = MatedIn(ply)
		}
		if beta > MateIn(ply+1) {
			beta = MateIn(ply + 1)
		}
		if beta <= alpha {
			return alpha
		}
	}

	ss.inCheck = w.pos.InCheck()
	ss.statScore = 0
	excludedMove := ss.excludedMove

	posKey := w.pos.Key()
	ttKey := posKey
	if excludedMove != shogi.None {
		ttKey ^= uint64(excludedMove) << 1
	}

	entry, ttHit := w.tt.Probe(ttKey)
	var ttMove shogi.Move
	var ttScore Score = ScoreNone
	ttPv := pvNode
	if ttHit {
		ttMove = entry.Move()
		ttScore = ScoreFromTT(entry.Value(), ply)
		ttPv = ttPv || entry.IsPV()
		if ttMove != shogi.None && !w.pos.MoveIsPseudoLegal(ttMove) {
			ttMove = shogi.None
		}
	}
	ss.ttPv = ttPv

	if !pvNode && ttHit && excludedMove == shogi.None &&
		entry.Depth() >= depth && ttScore != ScoreNone {

		consistent := (entry.Bound()&BoundLower != 0 && ttScore >= beta) ||
			(entry.Bound()&BoundUpper != 0 && ttScore <= alpha)
		if consistent {
			if ttMove != shogi.None {
				if ttScore >= beta {
					if !ttMove.IsCapture() {
						w.updateQuietStats(ply, ttMove, statBonus(depth), depth)
					}
					if ply > 0 && w.stack[ply-1].currentMove != shogi.None &&
						w.stack[ply-1].moveCount == 1 && !w.stack[ply-1].currentMove.IsCapture() {
						updateContinuationHistories(w.stack, ply-1, w.stack[ply-1].movedPiece,
							w.stack[ply-1].currentMove.To(), -statBonus(depth+OnePly))
					}
				} else if !ttMove.IsCapture() {
					penalty := -statBonus(depth)
					w.history.updateMainHistory(ttMove.FromToIndex(), w.pos.Turn(), penalty)
					updateContinuationHistories(w.stack, ply, ttMove.PieceTypeFrom(), ttMove.To(), penalty)
				}
			}
			return ttScore
		}
	}

	var eval, staticEval Score
	improving := false

	if ss.inCheck {
		staticEval = ScoreNone
		eval = ScoreNone
		ss.staticEval = ScoreNone
	} else {
		staticEval = w.evaluate(ply)
		ss.staticEval = staticEval
		eval = staticEval
		if ttHit && ttScore != ScoreNone {
			if entry.Bound() == BoundExact ||
				(entry.Bound() == BoundLower && ttScore > eval) ||
				(entry.Bound() == BoundUpper && ttScore < eval) {
				eval = ttScore
			}
		}

		if !rootNode && depth == OnePly && eval+531 <= alpha {
			return w.qsearch(ply, alpha, alpha+1, 0)
		}

		improving = func() bool {
			if ply >= 2 && w.stack[ply-2].staticEval != ScoreNone {
				return staticEval > w.stack[ply-2].staticEval
			}
			if ply >= 4 && w.stack[ply-4].staticEval != ScoreNone {
				return staticEval > w.stack[ply-4].staticEval
			}
			return true
		}()

		if !pvNode && depth < 6*OnePly &&
			eval-Score(217*(int(depth)-boolToInt(improving))) >= beta && eval < KnownWin {
			return eval
		}

		if !pvNode &&
			(ply == 0 || w.stack[ply-1].currentMove != shogi.None) &&
			ss.statScore < 23397 &&
			eval >= beta &&
			eval >= staticEval &&
			staticEval >= beta-Score(32*depth)-Score(30*boolToInt(improving))+Score(120*boolToInt(ttPv))+292 &&
			excludedMove == shogi.None &&
			(ply >= w.nmpMinPly || w.pos.Turn() != w.nmpColor) {

			r := (854 + 68*depth) / 258
			r += minInt(int(eval-beta)/192, 3)
			rPly := Depth(r)
			if rPly < 1 {
				rPly = 1
			}
			if rPly > depth {
				rPly = depth
			}

			ss.currentMove = shogi.None
			ss.contHist = nil
			w.pos.DoNullMove()
			nullScore := -w.negamax(ply+1, -beta, -beta+1, depth-rPly, !cutNode)
			w.pos.UndoNullMove()

			if nullScore >= beta {
				if nullScore >= MateInMaxPly {
					nullScore = beta
				}
				if w.nmpMinPly > 0 || (absScore(beta) < KnownWin && depth < 13*OnePly) {
					return nullScore
				}
				w.nmpMinPly = ply + 3*int(depth-rPly)/4
				w.nmpColor = w.pos.Turn()
				verify := w.negamax(ply, beta-1, beta, depth-rPly, false)
				w.nmpMinPly = 0
				if verify >= beta {
					return nullScore
				}
			}
		}

		if !pvNode && depth >= 5*OnePly && absScore(beta) < MateInMaxPly {
			rbeta := beta + 189 - Score(45*boolToInt(improving))
			probCutCount := 2
			if cutNode {
				probCutCount += 2
			}
			pcMp := NewProbCutMovePicker(w.pos, w.gen, w.history, ttMove, rbeta-staticEval)
			tried := 0
			for tried < probCutCount {
				move := pcMp.Next()
				if move == shogi.None {
					break
				}
				if move == excludedMove || !w.pos.LegalityCheck(move) {
					continue
				}
				tried++
				w.pushMove(ply, move)
				w.pos.DoMove(move)
				score := -w.qsearch(ply+1, -rbeta, -rbeta+1, 0)
				if score >= rbeta {
					score = -w.negamax(ply+1, -rbeta, -rbeta+1, depth-4*OnePly, !cutNode)
				}
				w.pos.UndoMove(move)
				if score >= rbeta {
					e, _ := w.tt.Probe(ttKey)
					w.tt.Store(e, ttKey, ScoreToTT(score, ply), false, BoundLower, depth-3*OnePly, move, staticEval)
					return score
				}
			}
		}

		if pvNode && depth >= 7*OnePly && ttMove == shogi.None {
			w.negamax(ply, alpha, beta, depth-7*OnePly, cutNode)
			entry, ttHit = w.tt.Probe(ttKey)
			if ttHit {
				ttMove = entry.Move()
				if ttMove != shogi.None && !w.pos.MoveIsPseudoLegal(ttMove) {
					ttMove = shogi.None
				}
			}
		}
	}

	// Held for the rest of this node (the whole move loop below), not
	// just around the LMR check that reads it: a guard claimed and
	// released within a single LMR decision would never be observed by
	// another worker reaching this same position (spec §4.F step 19,
	// §4.I).
	th := NewThreadHolding(w.breadcrumbs, w, posKey, ply)
	defer th.Release()

	var contHist [6]*PieceToHistory
	fillContHist(w.stack, ply, &contHist)
	mp := NewMainMovePicker(w.pos, w.gen, w.history, ttMove, depth, ply, contHist, ss.killers, w.counterMoveFor(ply))

	var quietsSearched, capturesSearched []shogi.Move
	bestScore := -Infinite
	bestMove := shogi.None
	moveCount := 0
	formerPv := ttPv && !pvNode

	for {
		move := mp.Next()
		if move == shogi.None {
			break
		}
		if move == excludedMove {
			continue
		}
		if rootNode && !w.rootMoveAllowed(move) {
			continue
		}
		if !w.pos.LegalityCheck(move) {
			continue
		}

		moveCount++
		ss.moveCount = moveCount

		givesCheck := w.pos.GivesCheck(move)
		captureOrPromo := move.IsCapture() || move.IsPromotion()
		newDepth := depth - OnePly

		moveCountPruning := false
		if !rootNode {
			d2 := int(depth) * int(depth)
			denom := 2
			if improving {
				denom = 1
			}
			moveCountPruning = moveCount >= (4+d2)/denom
		}

		extension := Depth(0)
		singularLMR := false

		if !rootNode && bestScore > MatedInMaxPly {
			lmrDepth := maxDepth(newDepth-ss.reduction, 0)
			if !captureOrPromo && !givesCheck {
				cmh := historyForPrevMove(w.stack, w.history, ply, move, 1)
				fmh := historyForPrevMove(w.stack, w.history, ply, move, 2)
				if cmh < counterMovePruneThreshold && fmh < counterMovePruneThreshold && lmrDepth < 3*OnePly {
					continue
				}
				if lmrDepth < 6*OnePly &&
					staticEval+235+Score(172*lmrDepth) <= alpha &&
					cmh+fmh < 27400 {
					continue
				}
				thresh := -Score(minInt(32-minInt(int(lmrDepth), 18), 32)) * Score(lmrDepth) * Score(lmrDepth)
				if !w.pos.SeeGe(move, thresh) {
					continue
				}
			} else {
				if !givesCheck && lmrDepth < OnePly && move.IsCapture() {
					cap := w.history.captureScore(move.To(), move.PieceTypeFrom(), move.CapturedPieceType())
					if cap < 0 {
						continue
					}
				}
				if !w.pos.SeeGe(move, -Score(51*int(depth)*int(depth))) {
					continue
				}
			}
		}

		if !rootNode && depth >= 6*OnePly && move == ttMove && excludedMove == shogi.None &&
			absScore(ttScore) < KnownWin && entry.Bound()&BoundLower != 0 && entry.Depth() >= depth-3*OnePly {

			formerPvBonus := 0
			if formerPv {
				formerPvBonus = 4
			}
			singularBeta := ttScore - Score(formerPvBonus)*Score(depth)/2
			singularDepth := (depth - 1) / 2
			if formerPv {
				singularDepth = (depth - 1 + 3) / 2
			}

			ss.excludedMove = move
			s := w.negamax(ply, singularBeta-1, singularBeta, singularDepth, cutNode)
			ss.excludedMove = shogi.None

			if s < singularBeta {
				extension = OnePly
				singularLMR = true
			} else if singularBeta >= beta {
				return singularBeta
			} else if ttScore >= beta {
				s2 := -w.negamax(ply, -beta, -(beta - 1), (depth+3*OnePly)/2, true)
				if s2 >= beta {
					return beta
				}
			}
		} else if givesCheck && w.pos.SeeGe(move, 0) {
			extension = OnePly
		}

		w.pushMove(ply, move)
		w.pos.DoMove(move)

		didLMR := false
		doFullDepthSearch := !pvNode || moveCount > 1
		newDepth += extension
		score := ScoreZero

		if depth >= 3*OnePly && moveCount > 1+2*boolToInt(rootNode) &&
			(!captureOrPromo || moveCountPruning || cutNode || w.ttHitAverageLow()) {

			r := reduction(improving, depth, moveCount, 0, w.rootDelta)
			if ttPv {
				r -= 2
			}
			if th.Marked() {
				r += 1
			}
			if moveCountPruning && !formerPv {
				r += 1
			}
			if ply > 0 && w.stack[ply-1].moveCount > 14 {
				r -= 1
			}
			if singularLMR {
				r -= 1
				if formerPv {
					r -= 1
				}
			}

			if !captureOrPromo {
				if ttMove != shogi.None && ttMove.IsCapture() {
					r += 1
				}
				if cutNode {
					r += 2
				}
				statScore := w.history.mainHistoryScore(move.FromToIndex(), w.pos.Turn()) +
					int(contHist[0].get(move.PieceTypeFrom(), move.To())) +
					int(contHist[1].get(move.PieceTypeFrom(), move.To())) +
					int(contHist[3].get(move.PieceTypeFrom(), move.To())) - 4926
				ss.statScore = statScore
				if statScore < 0 {
					r += 1
				}
				r -= Depth(statScore / 16434)
			} else {
				if depth < 8*OnePly && moveCount > 2 {
					r += 1
				}
				if !givesCheck {
					capVal := Score(shogi.CapturePieceValue[move.CapturedPieceType()])
					if staticEval+capVal+Score(200*int(depth)) <= alpha {
						r += 1
					}
				}
			}

			d := clampDepth(newDepth-r, OnePly, newDepth)
			w.stack[ply+1].reduction = r
			score = -w.negamax(ply+1, -(alpha + 1), -alpha, d, true)
			w.stack[ply+1].reduction = 0
			if score > alpha && d != newDepth {
				doFullDepthSearch = true
				didLMR = true
			} else {
				doFullDepthSearch = false
			}
		}

		if doFullDepthSearch {
			if newDepth < OnePly {
				score = -w.qsearch(ply+1, -(alpha + 1), -alpha, 0)
			} else {
				score = -w.negamax(ply+1, -(alpha + 1), -alpha, newDepth, !cutNode)
			}
			if didLMR && !move.IsCapture() {
				bonus := statBonus(newDepth)
				if score <= alpha {
					bonus = -bonus
				}
				if move == ss.killers[0] {
					bonus += bonus / 4
				}
				updateContinuationHistories(w.stack, ply, move.PieceTypeFrom(), move.To(), bonus)
			}
		}

		if pvNode && (moveCount == 1 || (score > alpha && (rootNode || score < beta))) {
			if newDepth < OnePly {
				score = -w.qsearch(ply+1, -beta, -alpha, 0)
			} else {
				score = -w.negamax(ply+1, -beta, -alpha, newDepth, false)
			}
		}

		w.pos.UndoMove(move)

		if w.stopFlag.Load() {
			return ScoreZero
		}

		if rootNode {
			w.recordRootScore(move, score, ply)
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				bestMove = move
				if pvNode && !rootNode {
					w.updatePV(ply, move)
				}
				if pvNode && score < beta {
					alpha = score
				} else {
					break
				}
			}
		}

		if move != bestMove {
			if !captureOrPromo && len(quietsSearched) < maxBufferedQuiets {
				quietsSearched = append(quietsSearched, move)
			} else if captureOrPromo && len(capturesSearched) < maxBufferedCaptures {
				capturesSearched = append(capturesSearched, move)
			}
		}
	}

	if moveCount == 0 {
		if excludedMove != shogi.None {
			return alpha
		}
		return MatedIn(ply)
	} else if bestMove != shogi.None {
		w.updateAllStats(ply, bestMove, bestScore, beta, depth, quietsSearched, capturesSearched)
	} else if ply > 0 {
		prev := &w.stack[ply-1]
		prevWasCapture := prev.currentMove != shogi.None && prev.currentMove.IsCapture()
		if (depth >= 3*OnePly || pvNode) && !prevWasCapture && prev.currentMove != shogi.None {
			updateContinuationHistories(w.stack, ply-1, prev.movedPiece, prev.currentMove.To(), statBonus(depth))
		}
	}

	if excludedMove == shogi.None && !(rootNode && w.rootPvIdx > 0) {
		bound := BoundUpper
		if bestScore >= beta {
			bound = BoundLower
		} else if pvNode && bestMove != shogi.None {
			bound = BoundExact
		}
		e, _ := w.tt.Probe(ttKey)
		w.tt.Store(e, ttKey, ScoreToTT(bestScore, ply), pvNode, bound, depth, bestMove, staticEval)
	}

	return bestScore
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxDepth(a, b Depth) Depth {
	if a > b {
		return a
	}
	return b
}

// counterMoveFor looks up the counter-move table entry for the move
// played one ply above ply, or None at the root / after a null move.
func (w *worker) counterMoveFor(ply int) shogi.Move {
	if ply == 0 {
		return shogi.None
	}
	prev := &w.stack[ply-1]
	if prev.currentMove == shogi.None {
		return shogi.None
	}
	return w.history.counterMove(prev.currentMove.To(), prev.movedPiece)
}

// historyForPrevMove reads the continuation-history score a candidate
// move would get against the ancestor move `back` plies above ply
// (used by the late-move-pruning counter/follow-up check, spec §4.F
// step 15).
func historyForPrevMove(stack []SearchStack, hist *History, ply int, move shogi.Move, back int) int {
	if ply-back < 0 {
		return 0
	}
	anc := &stack[ply-back]
	if anc.currentMove == shogi.None || anc.contHist == nil {
		return 0
	}
	return int(anc.contHist.get(move.PieceTypeFrom(), move.To()))
}


// ttHitAverageLow stands in for Stockfish's running ttHitAverage
// statistic in the LMR gate (spec §4.F step 19). It always reports
// true: no running TT-hit statistic is kept, so this term never keeps a
// move out of LMR, and no "ttHitAverage large" adjustment is applied to
// the reduction.
func (w *worker) ttHitAverageLow() bool {
	return true
}

// rootMoveAllowed reports whether move is inside the current
// pvIdx..pvLast window of root moves being searched (spec §4.F step 13
// "at root, skip moves outside the current pvIdx..end window").
func (w *worker) rootMoveAllowed(move shogi.Move) bool {
	for i := w.rootPvIdx; i < w.rootPvLast && i < len(w.rootMoves); i++ {
		if w.rootMoves[i].PV[0] == move {
			return true
		}
	}
	return false
}

// recordRootScore updates the matching root move's score and bumps
// bestMoveChanges on the main thread when the best move changes (spec
// §4.F step 23).
func (w *worker) recordRootScore(move shogi.Move, score Score, ply int) {
	for i := range w.rootMoves {
		if w.rootMoves[i].PV[0] == move {
			rm := &w.rootMoves[i]
			if i == w.rootPvIdx && (score > rm.Score || rm.Score == -Infinite) {
				if w.isMainThread() && i == 0 && score != rm.Score {
					w.bestMoveChanges++
				}
				rm.Score = score
				rm.SelDepth = ply
				rm.PV = append(rm.PV[:1], w.pvTable[ply+1][:w.pvLength[ply+1]]...)
			} else if i == w.rootPvIdx {
				rm.Score = score
			}
			return
		}
	}
}

// updatePV copies the child's PV buffer up into ply's buffer behind
// move, matching Stockfish's Stack::pv update (spec §3 "PV buffer").
func (w *worker) updatePV(ply int, move shogi.Move) {
	w.pvTable[ply][0] = move
	childLen := w.pvLength[ply+1]
	copy(w.pvTable[ply][1:1+childLen], w.pvTable[ply+1][:childLen])
	w.pvLength[ply] = 1 + childLen
}
