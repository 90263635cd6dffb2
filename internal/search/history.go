package search

import "github.com/tttak/shogicore/internal/shogi"

// Gravity-update bounds (spec §3 "History tables").
const (
	mainHistoryBound   = 10692
	lowPlyHistoryBound = 10692
	captureHistoryBound = 10692
	continuationHistoryBound = 29952
)

// lowPlyHistoryDepth is how many plies from the root lowPlyHistory
// tracks (spec §3: "ply (<4)").
const lowPlyHistoryDepth = 4

// gravityUpdate applies the self-normalizing gravity rule (spec §3
// "gravity update rule"): v += bonus - v*|bonus|/D, using a wide
// intermediate so the multiplication never overflows before the divide
// (spec §9 "signed saturation").
func gravityUpdate(v int16, bonus int32, bound int32) int16 {
	absBonus := bonus
	if absBonus < 0 {
		absBonus = -absBonus
	}
	nv := int32(v) + bonus - int32(v)*absBonus/bound
	if nv > bound {
		nv = bound
	} else if nv < -bound {
		nv = -bound
	}
	return int16(nv)
}

// statBonus implements spec §4.C's bonus formula.
func statBonus(depth Depth) int32 {
	d := int32(depth)
	if d > 15 {
		return -8
	}
	return 19*d*d + 155*d - 132
}

// PieceToHistory is a [pieceType][toSquare] -> bounded score table,
// shared by the continuation-history and as the underlying shape of a
// counter-move/follow-up slot (spec §3).
type PieceToHistory struct {
	v [shogi.NoPieceType][shogi.NumSquares]int16
}

func (p *PieceToHistory) get(piece shogi.PieceType, to shogi.Square) int16 {
	if p == nil {
		return 0
	}
	return p.v[piece][to]
}

func (p *PieceToHistory) update(piece shogi.PieceType, to shogi.Square, bonus int32) {
	if p == nil {
		return
	}
	p.v[piece][to] = gravityUpdate(p.v[piece][to], bonus, continuationHistoryBound)
}

func (p *PieceToHistory) age() {
	for i := range p.v {
		for j := range p.v[i] {
			p.v[i][j] /= 2
		}
	}
}

// contHistIndex packs (inCheck, isCapture) into the 2x2 selector used
// by continuationHistory (spec §4.C "update_continuation_histories").
func contHistIndex(inCheck, capture bool) int {
	i := 0
	if inCheck {
		i |= 1
	}
	if capture {
		i |= 2
	}
	return i
}

// History is the full set of per-worker history tables (spec §3
// "History tables", thread-local per §5).
type History struct {
	mainHistory  [shogi.NumSquares * 88][2]int16 // [fromToIndex][color]
	lowPly       [lowPlyHistoryDepth][shogi.NumSquares * 88]int16
	counterMoves [shogi.NumSquares][shogi.NoPieceType]shogi.Move
	capture      [shogi.NumSquares][shogi.NoPieceType][shogi.NoPieceType + 1]int16 // [to][piece][captured]

	// continuation[capture<<1|inCheck][piece][to] is the PieceToHistory
	// table used to score a child move made after the move that landed
	// on (piece,to) at that ply (spec §3, §4.C).
	continuation [4][shogi.NoPieceType][shogi.NumSquares]PieceToHistory
}

// NewHistory allocates a zeroed set of history tables.
func NewHistory() *History {
	return &History{}
}

// Clear resets every table to zero (spec §3 "Lifecycle": cleared on new
// game) and then sets a single entry, v[0][0] of the
// continuation[0][NoPieceType-1][0] table, to
// counterMovePruneThreshold - 1.
func (h *History) Clear() {
	*h = History{}
	// Lookups against an absent previous move do not read this entry:
	// fillContHist hands them a nil table, whose get returns zero, and
	// historyForPrevMove returns zero for them directly.
	h.continuation[0][shogi.NoPieceType-1][0].v[0][0] = -1
}

// Age halves every score entry and resets every counter move to
// shogi.None. It halves scores instead of zeroing them, the way the teacher's
// MoveOrderer.Clear() ages (rather than erases) history between
// searches within the same game so history that's still informative
// survives across moves.
func (h *History) Age() {
	for i := range h.mainHistory {
		h.mainHistory[i][0] /= 2
		h.mainHistory[i][1] /= 2
	}
	for p := range h.lowPly {
		for i := range h.lowPly[p] {
			h.lowPly[p][i] /= 2
		}
	}
	for i := range h.counterMoves {
		for j := range h.counterMoves[i] {
			h.counterMoves[i][j] = shogi.None
		}
	}
	for i := range h.capture {
		for j := range h.capture[i] {
			for k := range h.capture[i][j] {
				h.capture[i][j][k] /= 2
			}
		}
	}
	for sel := range h.continuation {
		for piece := range h.continuation[sel] {
			for to := range h.continuation[sel][piece] {
				h.continuation[sel][piece][to].age()
			}
		}
	}
}

func (h *History) mainHistoryScore(fromTo int, us shogi.Color) int {
	return int(h.mainHistory[fromTo][us])
}

func (h *History) updateMainHistory(fromTo int, us shogi.Color, bonus int32) {
	h.mainHistory[fromTo][us] = gravityUpdate(h.mainHistory[fromTo][us], bonus, mainHistoryBound)
}

func (h *History) lowPlyScore(ply int, fromTo int) int {
	if ply >= lowPlyHistoryDepth {
		return 0
	}
	return int(h.lowPly[ply][fromTo])
}

func (h *History) updateLowPly(ply int, fromTo int, bonus int32) {
	if ply >= lowPlyHistoryDepth {
		return
	}
	h.lowPly[ply][fromTo] = gravityUpdate(h.lowPly[ply][fromTo], bonus, lowPlyHistoryBound)
}

func (h *History) captureScore(to shogi.Square, piece, captured shogi.PieceType) int {
	return int(h.capture[to][piece][captured])
}

func (h *History) updateCapture(to shogi.Square, piece, captured shogi.PieceType, bonus int32) {
	h.capture[to][piece][captured] = gravityUpdate(h.capture[to][piece][captured], bonus, captureHistoryBound)
}

func (h *History) counterMove(prevTo shogi.Square, prevPiece shogi.PieceType) shogi.Move {
	return h.counterMoves[prevTo][prevPiece]
}

func (h *History) setCounterMove(prevTo shogi.Square, prevPiece shogi.PieceType, m shogi.Move) {
	h.counterMoves[prevTo][prevPiece] = m
}

// continuationTable returns the PieceToHistory table selected by the
// move that was just made (its inCheck/capture context and its own
// piece/to), which children use to score their own move at (piece,to).
func (h *History) continuationTable(inCheck, capture bool, piece shogi.PieceType, to shogi.Square) *PieceToHistory {
	return &h.continuation[contHistIndex(inCheck, capture)][piece][to]
}

// updateContinuationHistories applies the gravity bonus to the
// continuation-history slots at plies 1, 2, 4 and 6 back, as long as
// that ancestor move was a real (legal) move and, if the current node
// is in check, only the closest two ancestors are updated (spec §4.C).
func updateContinuationHistories(stack []SearchStack, ply int, piece shogi.PieceType, to shogi.Square, bonus int32) {
	for _, i := range [...]int{1, 2, 4, 6} {
		if ply-i < 0 {
			continue
		}
		prev := &stack[ply-i]
		if prev.currentMove == shogi.None {
			continue
		}
		if stack[ply].inCheck && i > 2 {
			continue
		}
		prev.contHist.update(piece, to, bonus)
	}
}
