package search

import "github.com/tttak/shogicore/internal/shogi"

// stage is the move picker's state machine state (spec §4.D).
type stage int

const (
	stageMainSearch stage = iota
	stageCapturesInit
	stageGoodCaptures
	stageKillers
	stageCountermove
	stageQuietInit
	stageQuiet
	stageBadCaptures

	stageEvasion
	stageEvasionsInit
	stageAllEvasions

	stageQSearchNoChecks
	stageQSearchInitNoChecks
	stageQSearchCaptures
	stageQSearchRecaptures
	stageQSearchInitRecaptures
	stageQSearchRecaptureCaptures

	stageProbCut
	stageProbCutInit
	stageProbCutCaptures

	stageEnd
)

// scoredMove pairs a move with its ordering score so the picker can do
// selection sort / partial insertion sort without recomputing scores.
type scoredMove struct {
	move  shogi.Move
	score int
}

// MovePicker is the staged move enumerator (spec §4.D). One is
// constructed per search node; Next() returns shogi.None once
// exhausted.
type MovePicker struct {
	pos      shogi.Position
	gen      shogi.MoveGenerator
	hist     *History
	stg      stage
	ttMove   shogi.Move
	depth    Depth
	ply      int
	contHist [6]*PieceToHistory // indices 0,1,3,5 used per spec scoring formula
	prevSq   shogi.Square
	prevOk   bool

	captures    []scoredMove
	quiets      []scoredMove
	badCaptures []scoredMove
	evasions    []scoredMove
	cur         int

	recaptureSq   shogi.Square
	probCutThresh Score

	skipQuiets bool
	buf        []shogi.Move

	killersSlot [2]shogi.Move
	counter     shogi.Move
}

// NewMainMovePicker builds the picker used by the main search (spec
// §4.D constructor 1).
func NewMainMovePicker(pos shogi.Position, gen shogi.MoveGenerator, hist *History, ttMove shogi.Move,
	depth Depth, ply int, contHist [6]*PieceToHistory, killers [2]shogi.Move, counter shogi.Move) *MovePicker {

	mp := &MovePicker{pos: pos, gen: gen, hist: hist, ttMove: ttMove, depth: depth, ply: ply, contHist: contHist,
		killersSlot: killers, counter: counter}
	if pos.InCheck() {
		mp.stg = stageEvasion
	} else {
		mp.stg = stageMainSearch
	}
	if ttMove != shogi.None && !pos.MoveIsPseudoLegal(ttMove) {
		mp.ttMove = shogi.None
		mp.advanceFromTTSkip()
	}
	return mp
}

// NewQSearchMovePicker builds the picker used by quiescence search
// (spec §4.D constructor 2).
func NewQSearchMovePicker(pos shogi.Position, gen shogi.MoveGenerator, hist *History, ttMove shogi.Move,
	depth Depth, recaptureSq shogi.Square, contHist [6]*PieceToHistory) *MovePicker {

	mp := &MovePicker{pos: pos, gen: gen, hist: hist, ttMove: ttMove, depth: depth, contHist: contHist, recaptureSq: recaptureSq}
	switch {
	case pos.InCheck():
		mp.stg = stageEvasion
	case depth > QRecaptures:
		mp.stg = stageQSearchNoChecks
	default:
		mp.stg = stageQSearchRecaptures
	}
	if ttMove != shogi.None && !pos.MoveIsPseudoLegal(ttMove) {
		mp.ttMove = shogi.None
	}
	return mp
}

// NewProbCutMovePicker builds the picker used by probcut (spec §4.D
// constructor 3): only a capture-or-pawn-promotion TT move whose SEE
// clears threshold is accepted as the initial move.
func NewProbCutMovePicker(pos shogi.Position, gen shogi.MoveGenerator, hist *History, ttMove shogi.Move, threshold Score) *MovePicker {
	mp := &MovePicker{pos: pos, gen: gen, hist: hist, stg: stageProbCut, probCutThresh: threshold}
	if ttMove != shogi.None && (!pos.MoveIsPseudoLegal(ttMove) || !ttMove.IsCaptureOrPawnPromotion() || !pos.SeeGe(ttMove, threshold)) {
		mp.ttMove = shogi.None
	} else {
		mp.ttMove = ttMove
	}
	return mp
}

func (mp *MovePicker) advanceFromTTSkip() {
	if mp.pos.InCheck() {
		mp.stg = stageEvasionsInit
	} else {
		mp.stg = stageCapturesInit
	}
}

// captureScore implements spec §4.D "Captures" scoring.
func (mp *MovePicker) captureScore(m shogi.Move) int {
	return shogi.CapturePieceValue[m.CapturedPieceType()]*6 + mp.hist.captureScore(m.To(), m.PieceTypeFrom(), m.CapturedPieceType())
}

// quietScore implements spec §4.D "Quiets" scoring.
func (mp *MovePicker) quietScore(m shogi.Move) int {
	us := mp.pos.Turn()
	s := mp.hist.mainHistoryScore(m.FromToIndex(), us)
	s += 2 * int(mp.contHist[0].get(m.PieceTypeFrom(), m.To()))
	s += 2 * int(mp.contHist[1].get(m.PieceTypeFrom(), m.To()))
	s += 2 * int(mp.contHist[3].get(m.PieceTypeFrom(), m.To()))
	s += int(mp.contHist[5].get(m.PieceTypeFrom(), m.To()))
	if mp.ply < 4 {
		s += 4 * mp.hist.lowPlyScore(mp.ply, m.FromToIndex())
	}
	return s
}

// evasionScore implements spec §4.D "Evasions" scoring.
func (mp *MovePicker) evasionScore(m shogi.Move) int {
	if m.IsCapture() {
		return shogi.CapturePieceValue[m.CapturedPieceType()] - shogi.LeastValuableAttackerScore[m.PieceTypeFrom()]
	}
	us := mp.pos.Turn()
	s := mp.hist.mainHistoryScore(m.FromToIndex(), us) + int(mp.contHist[0].get(m.PieceTypeFrom(), m.To()))
	return s - (1 << 28)
}

func scoreList(moves []shogi.Move, score func(shogi.Move) int) []scoredMove {
	out := make([]scoredMove, len(moves))
	for i, m := range moves {
		out[i] = scoredMove{move: m, score: score(m)}
	}
	return out
}

// selectBest performs one step of selection sort over list[from:],
// swapping the best-scoring element into list[from] and returning it
// (spec §4.D "GOOD_CAPTURES": "pop best by score each call").
func selectBest(list []scoredMove, from int) (scoredMove, bool) {
	if from >= len(list) {
		return scoredMove{}, false
	}
	best := from
	for i := from + 1; i < len(list); i++ {
		if list[i].score > list[best].score {
			best = i
		}
	}
	list[from], list[best] = list[best], list[from]
	return list[from], true
}

// partialInsertionSort moves the entries with score >= threshold to the
// front of list in descending score order; the entries below threshold
// follow them in no particular order (spec §4.D "QUIET_INIT": "partial
// insertion sort").
func partialInsertionSort(list []scoredMove, threshold int) {
	sortedEnd := 0
	for i := range list {
		if list[i].score < threshold {
			continue
		}
		v := list[i]
		list[i] = list[sortedEnd]
		j := sortedEnd - 1
		for ; j >= 0 && list[j].score < v.score; j-- {
			list[j+1] = list[j]
		}
		list[j+1] = v
		sortedEnd++
	}
}

// isDuplicate reports whether m equals the tt move or any slot already
// emitted in order to satisfy spec §8 invariant 5 (no move repeated
// across {KILLERS, COUNTERMOVE, QUIET} and the tt move).
func (mp *MovePicker) isDuplicate(m shogi.Move, already ...shogi.Move) bool {
	if m == mp.ttMove {
		return true
	}
	for _, a := range already {
		if m == a {
			return true
		}
	}
	return false
}

// SkipQuiets tells the picker to stop emitting quiet moves, typically
// set by the caller after late-move pruning decides the rest of the
// quiet stream isn't worth searching (spec §4.D "QUIET").
func (mp *MovePicker) SkipQuiets() { mp.skipQuiets = true }

// Next returns the next move to search, or shogi.None when exhausted.
func (mp *MovePicker) Next() shogi.Move {
	for {
		switch mp.stg {
		case stageMainSearch:
			mp.stg = stageCapturesInit
			if mp.ttMove != shogi.None {
				return mp.ttMove
			}

		case stageCapturesInit:
			mp.cur = 0
			caps := mp.gen.GenerateCaptures(mp.pos, mp.buf)
			mp.captures = scoreList(caps, mp.captureScore)
			mp.badCaptures = mp.badCaptures[:0]
			mp.stg = stageGoodCaptures

		case stageGoodCaptures:
			sm, ok := selectBest(mp.captures, mp.cur)
			if !ok {
				mp.cur = 0
				mp.stg = stageKillers
				continue
			}
			mp.cur++
			if mp.isDuplicate(sm.move) {
				continue
			}
			threshold := -55 * sm.score / 1024
			if mp.pos.SeeGe(sm.move, Score(threshold)) {
				return sm.move
			}
			mp.badCaptures = append(mp.badCaptures, sm)

		case stageKillers:
			ss := mp.currentKillers()
			if mp.cur >= len(ss) {
				mp.stg = stageCountermove
				continue
			}
			k := ss[mp.cur]
			mp.cur++
			if k == shogi.None || mp.isDuplicate(k) || (mp.cur == 2 && k == ss[0]) {
				continue
			}
			return k

		case stageCountermove:
			mp.stg = stageQuietInit
			cm := mp.counterMove()
			if cm != shogi.None && !mp.isDuplicate(cm, mp.killer0(), mp.killer1()) {
				return cm
			}

		case stageQuietInit:
			if !mp.skipQuiets {
				qs := mp.gen.GenerateQuiets(mp.pos, nil)
				drops := mp.gen.GenerateDrops(mp.pos, nil)
				all := append(qs, drops...)
				mp.quiets = scoreList(all, mp.quietScore)
				threshold := -3000 * int(mp.depth)
				partialInsertionSort(mp.quiets, threshold)
			} else {
				mp.quiets = nil
			}
			mp.cur = 0
			mp.stg = stageQuiet

		case stageQuiet:
			if mp.skipQuiets || mp.cur >= len(mp.quiets) {
				mp.cur = 0
				mp.stg = stageBadCaptures
				continue
			}
			sm := mp.quiets[mp.cur]
			mp.cur++
			if mp.isDuplicate(sm.move, mp.killer0(), mp.killer1(), mp.counterMove()) {
				continue
			}
			return sm.move

		case stageBadCaptures:
			if mp.cur >= len(mp.badCaptures) {
				mp.stg = stageEnd
				continue
			}
			sm := mp.badCaptures[mp.cur]
			mp.cur++
			return sm.move

		case stageEvasion:
			mp.stg = stageEvasionsInit
			if mp.ttMove != shogi.None {
				return mp.ttMove
			}

		case stageEvasionsInit:
			ev := mp.gen.GenerateEvasions(mp.pos, nil)
			mp.evasions = scoreList(ev, mp.evasionScore)
			mp.cur = 0
			mp.stg = stageAllEvasions

		case stageAllEvasions:
			sm, ok := selectBest(mp.evasions, mp.cur)
			if !ok {
				mp.stg = stageEnd
				continue
			}
			mp.cur++
			if mp.isDuplicate(sm.move) {
				continue
			}
			return sm.move

		case stageQSearchNoChecks:
			mp.stg = stageQSearchInitNoChecks
			if mp.ttMove != shogi.None {
				return mp.ttMove
			}

		case stageQSearchInitNoChecks:
			caps := mp.gen.GenerateCaptures(mp.pos, nil)
			mp.captures = scoreList(caps, mp.captureScore)
			mp.cur = 0
			mp.stg = stageQSearchCaptures

		case stageQSearchCaptures:
			sm, ok := selectBest(mp.captures, mp.cur)
			if !ok {
				mp.stg = stageEnd
				continue
			}
			mp.cur++
			if mp.isDuplicate(sm.move) {
				continue
			}
			return sm.move

		case stageQSearchRecaptures:
			mp.stg = stageQSearchInitRecaptures
			if mp.ttMove != shogi.None && mp.ttMove.To() == mp.recaptureSq {
				return mp.ttMove
			}

		case stageQSearchInitRecaptures:
			caps := mp.gen.GenerateCaptures(mp.pos, nil)
			mp.captures = scoreList(caps, mp.captureScore)
			mp.cur = 0
			mp.stg = stageQSearchRecaptureCaptures

		case stageQSearchRecaptureCaptures:
			sm, ok := selectBest(mp.captures, mp.cur)
			if !ok {
				mp.stg = stageEnd
				continue
			}
			mp.cur++
			if sm.move.To() != mp.recaptureSq || mp.isDuplicate(sm.move) {
				continue
			}
			return sm.move

		case stageProbCut:
			mp.stg = stageProbCutInit
			if mp.ttMove != shogi.None {
				return mp.ttMove
			}

		case stageProbCutInit:
			caps := mp.gen.GenerateCaptures(mp.pos, nil)
			mp.captures = scoreList(caps, mp.captureScore)
			mp.cur = 0
			mp.stg = stageProbCutCaptures

		case stageProbCutCaptures:
			sm, ok := selectBest(mp.captures, mp.cur)
			if !ok {
				mp.stg = stageEnd
				continue
			}
			mp.cur++
			if mp.isDuplicate(sm.move) || !mp.pos.SeeGe(sm.move, mp.probCutThresh) {
				continue
			}
			return sm.move

		case stageEnd:
			return shogi.None
		}
	}
}

// the picker needs read access to the ply's killer slots and the
// counter-move table; these small helpers keep Next()'s switch focused.
func (mp *MovePicker) currentKillers() [2]shogi.Move {
	return mp.killersSlot
}

func (mp *MovePicker) killer0() shogi.Move { return mp.killersSlot[0] }
func (mp *MovePicker) killer1() shogi.Move { return mp.killersSlot[1] }

func (mp *MovePicker) counterMove() shogi.Move { return mp.counter }
