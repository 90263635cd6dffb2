package search

import "github.com/tttak/shogicore/internal/shogi"

// qsearchFutilityMargin (spec §4.E item 3: "futilityBase = staticEval + 154").
const qsearchFutilityMargin = 154

// qsearch implements component E (spec §4.E). depth is <= QChecks(0).
func (w *worker) qsearch(ply int, alpha, beta Score, depth Depth) Score {
	if ply >= MaxPly {
		return ScoreDraw
	}

	pvNode := beta-alpha > 1
	ttDepth := QNoChecks
	if w.pos.InCheck() || depth >= QChecks {
		ttDepth = QChecks
	}

	origAlpha := alpha

	entry, hit := w.tt.Probe(w.pos.Key())
	var ttMove shogi.Move
	if hit {
		ttMove = entry.Move()
		if ttMove != shogi.None && !w.pos.MoveIsPseudoLegal(ttMove) {
			ttMove = shogi.None
		}
		if !pvNode && entry.Depth() >= ttDepth {
			ttScore := ScoreFromTT(entry.Value(), ply)
			if ttScore != ScoreNone {
				switch entry.Bound() {
				case BoundExact:
					return ttScore
				case BoundLower:
					if ttScore >= beta {
						return ttScore
					}
				case BoundUpper:
					if ttScore <= alpha {
						return ttScore
					}
				}
			}
		}
	}

	inCheck := w.pos.InCheck()
	var bestScore, staticEval Score
	var futilityBase Score

	if inCheck {
		bestScore = -Infinite
		staticEval = ScoreNone
	} else {
		if mate := w.pos.MateMoveIn1Ply(); mate != shogi.None {
			return MateIn(ply + 1)
		}
		if hit && entry.Eval() != ScoreNone {
			staticEval = entry.Eval()
		} else {
			staticEval = w.evaluate(ply)
		}
		bestScore = staticEval
		if bestScore >= beta {
			if !hit {
				e, _ := w.tt.Probe(w.pos.Key())
				w.tt.Store(e, w.pos.Key(), ScoreToTT(bestScore, ply), pvNode, BoundLower, ttDepth, shogi.None, staticEval)
			}
			return bestScore
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		futilityBase = staticEval + qsearchFutilityMargin
	}

	ss := &w.stack[ply]
	var contHist [6]*PieceToHistory
	fillContHist(w.stack, ply, &contHist)

	mp := NewQSearchMovePicker(w.pos, w.gen, w.history, ttMove, depth, ss.currentMove.To(), contHist)

	var bestMove shogi.Move
	movesTried := 0

	for {
		move := mp.Next()
		if move == shogi.None {
			break
		}
		if !w.pos.LegalityCheck(move) {
			continue
		}

		givesCheck := w.pos.GivesCheck(move)

		if !inCheck && !givesCheck && futilityBase > -KnownWin {
			capValue := Score(shogi.CapturePieceValue[move.CapturedPieceType()])
			if move.IsPromotion() {
				capValue += 200
			}
			if futilityBase+capValue <= alpha {
				if bestScore < futilityBase+capValue {
					bestScore = futilityBase + capValue
				}
				continue
			}
			if futilityBase <= alpha && !w.pos.SeeGe(move, 1) {
				if bestScore < futilityBase {
					bestScore = futilityBase
				}
				continue
			}
		}
		if !inCheck && !w.pos.SeeGe(move, 0) {
			continue
		}

		movesTried++
		w.pushMove(ply, move)
		w.pos.DoMove(move)
		score := -w.qsearch(ply+1, -beta, -alpha, minDepth(depth-OnePly, QNoChecks))
		w.pos.UndoMove(move)

		if score > bestScore {
			bestScore = score
			if score > alpha {
				bestMove = move
				if pvNode {
					alpha = score
				}
				if score >= beta {
					break
				}
			}
		}
	}

	if inCheck && movesTried == 0 {
		return MatedIn(ply)
	}

	bound := BoundUpper
	if pvNode && bestMove != shogi.None && bestScore > origAlpha {
		bound = BoundExact
	}
	e, _ := w.tt.Probe(w.pos.Key())
	w.tt.Store(e, w.pos.Key(), ScoreToTT(bestScore, ply), pvNode, bound, ttDepth, bestMove, staticEval)

	return bestScore
}

func minDepth(a, b Depth) Depth {
	if a < b {
		return a
	}
	return b
}
