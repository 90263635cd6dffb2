// Package shogitest provides a minimal synthetic Position and
// MoveGenerator used only by internal/search's own unit tests. It is not
// a rules-complete shogi implementation — board representation and move
// generation are out of scope for this module (spec.md §1) — it exists
// solely so the search core's unit tests have something concrete to
// drive through DoMove/UndoMove, GenerateCaptures/Quiets, SeeGe, etc.
package shogitest

import (
	"math/rand"

	"github.com/tttak/shogicore/internal/shogi"
)

// Position is a synthetic game tree: each node has a deterministic set
// of child moves derived from a PRNG seeded by the Zobrist key, so the
// same (key) always generates the same moves and evaluation, letting
// tests assert on TT round-trips and repetition.
type Position struct {
	key       uint64
	ply       int
	turn      shogi.Color
	inCheck   bool
	history   []uint64
	branching int // moves generated per node
}

// NewPosition creates the synthetic root position.
func NewPosition(branching int) *Position {
	if branching < 1 {
		branching = 4
	}
	return &Position{key: 0x9E3779B97F4A7C15, turn: shogi.Black, branching: branching}
}

func (p *Position) Turn() shogi.Color { return p.turn }
func (p *Position) GamePly() int      { return p.ply }
func (p *Position) Key() uint64       { return p.key }
func (p *Position) InCheck() bool     { return p.inCheck }

func (p *Position) GivesCheck(m shogi.Move) bool {
	return p.childKey(m)%7 == 0
}

func (p *Position) MoveIsPseudoLegal(m shogi.Move) bool {
	return true
}

func (p *Position) LegalityCheck(m shogi.Move) bool {
	return true
}

func (p *Position) childKey(m shogi.Move) uint64 {
	h := p.key ^ uint64(m)*0x2545F4914F6CDD1D
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return h
}

func (p *Position) DoMove(m shogi.Move) {
	p.history = append(p.history, p.key)
	p.key = p.childKey(m)
	p.ply++
	p.turn = p.turn.Other()
	p.inCheck = p.childKey(m)%11 == 0
}

func (p *Position) UndoMove(m shogi.Move) {
	p.ply--
	p.turn = p.turn.Other()
	p.key = p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
	p.inCheck = false
}

func (p *Position) DoNullMove() {
	p.history = append(p.history, p.key)
	p.key ^= 0xABCDEF0123456789
	p.ply++
	p.turn = p.turn.Other()
}

func (p *Position) UndoNullMove() {
	p.ply--
	p.turn = p.turn.Other()
	p.key = p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]
}

func (p *Position) SeeGe(m shogi.Move, threshold shogi.Score) bool {
	r := rand.New(rand.NewSource(int64(p.childKey(m))))
	see := shogi.Score(r.Intn(400) - 150)
	return see >= threshold
}

func (p *Position) MovedPiece(m shogi.Move) shogi.PieceType {
	return m.PieceTypeFrom()
}

func (p *Position) CapturedPiece(m shogi.Move) shogi.PieceType {
	return m.CapturedPieceType()
}

func (p *Position) PieceAt(sq shogi.Square) shogi.Piece {
	return shogi.NewPiece(shogi.Pawn, p.turn)
}

func (p *Position) IsDraw(maxPly int) shogi.RepetitionResult {
	limit := maxPly
	if limit > len(p.history) {
		limit = len(p.history)
	}
	count := 0
	for i := 0; i < limit; i++ {
		if p.history[len(p.history)-1-i] == p.key {
			count++
		}
	}
	if count >= 2 {
		return shogi.RepetitionDraw
	}
	return shogi.NotRepetition
}

func (p *Position) MateMoveIn1Ply() shogi.Move { return shogi.None }
func (p *Position) Nyugyoku() bool             { return false }

// Evaluate is a trivial pure-function evaluator: a deterministic pseudo
// random value derived from the key, scaled to a plausible centipawn
// range, standing in for the real (out-of-scope) static evaluator.
func (p *Position) Evaluate(pos shogi.Position, staticEvalRaw *any) shogi.Score {
	sp := pos.(*Position)
	r := rand.New(rand.NewSource(int64(sp.key)))
	return shogi.Score(r.Intn(200) - 100)
}

// Generator is the synthetic MoveGenerator paired with Position.
type Generator struct{}

func (Generator) GenerateCaptures(pos shogi.Position, buf []shogi.Move) []shogi.Move {
	sp := pos.(*Position)
	out := buf
	n := sp.branching / 2
	for i := 0; i < n; i++ {
		to := shogi.Square((int(sp.key%shogi.NumSquares) + i*7) % shogi.NumSquares)
		from := shogi.Square((int(sp.key%shogi.NumSquares) + i*13 + 1) % shogi.NumSquares)
		if from == to {
			from = (from + 1) % shogi.NumSquares
		}
		captured := shogi.PieceType(i % int(shogi.King))
		out = append(out, shogi.NewBoardMove(from, to, false, shogi.Pawn, captured))
	}
	return out
}

func (Generator) GenerateQuiets(pos shogi.Position, buf []shogi.Move) []shogi.Move {
	sp := pos.(*Position)
	out := buf
	n := sp.branching
	for i := 0; i < n; i++ {
		to := shogi.Square((int(sp.key%shogi.NumSquares) + i*17 + 3) % shogi.NumSquares)
		from := shogi.Square((int(sp.key%shogi.NumSquares) + i*19 + 5) % shogi.NumSquares)
		if from == to {
			from = (from + 1) % shogi.NumSquares
		}
		out = append(out, shogi.NewBoardMove(from, to, i%5 == 0, shogi.Silver, shogi.NoPieceType))
	}
	return out
}

func (Generator) GenerateDrops(pos shogi.Position, buf []shogi.Move) []shogi.Move {
	sp := pos.(*Position)
	out := buf
	for i := 0; i < shogi.NumDroppablePieceTypes; i++ {
		to := shogi.Square((int(sp.key%shogi.NumSquares) + i*23) % shogi.NumSquares)
		out = append(out, shogi.NewDropMove(to, shogi.PieceType(i)))
	}
	return out
}

func (g Generator) GenerateEvasions(pos shogi.Position, buf []shogi.Move) []shogi.Move {
	caps := g.GenerateCaptures(pos, buf)
	return g.GenerateQuiets(pos, caps)
}
