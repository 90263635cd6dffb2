package shogi

// Position is the contract the search core requires from the board
// representation (spec §6 "Position methods consumed"). The board
// representation, its Zobrist hashing, and legality rules are external
// collaborators and are out of scope for this module; Position only
// describes what search calls.
//
// Implementations must make DoMove/UndoMove behave like a stack: UndoMove
// always undoes the most recently made move, mirroring the undo-info
// pattern the teacher's board.Position uses for MakeMove/UnmakeMove.
type Position interface {
	// Turn returns the side to move.
	Turn() Color

	// GamePly returns the number of half-moves played since the start
	// of the game (used for the Lazy-SMP depth-skip schedule and time
	// management heuristics).
	GamePly() int

	// Key returns the current Zobrist hash.
	Key() uint64

	// InCheck reports whether the side to move is in check.
	InCheck() bool

	// GivesCheck reports whether making m would check the opponent.
	GivesCheck(m Move) bool

	// MoveIsPseudoLegal reports whether m is a pseudo-legal move from
	// the current position (ignoring whether it leaves the mover's own
	// king in check) — used to validate moves read back from the
	// transposition table, which may be stale or corrupted by a hash
	// collision.
	MoveIsPseudoLegal(m Move) bool

	// LegalityCheck reports whether a pseudo-legal move m is fully
	// legal (does not leave the mover's king in check, honors shogi's
	// double-pawn and pawn-drop-mate restrictions, etc).
	LegalityCheck(m Move) bool

	// DoMove plays m. The caller is responsible for calling UndoMove
	// with the same move before making any sibling move.
	DoMove(m Move)

	// UndoMove reverses the most recently played move, which must be m.
	UndoMove(m Move)

	// DoNullMove / UndoNullMove pass the turn without making a move,
	// for null-move pruning.
	DoNullMove()
	UndoNullMove()

	// SeeGe reports whether the static-exchange evaluation of m is
	// greater than or equal to threshold. This is the only SEE
	// interface the search core needs (spec §6); callers that need an
	// exact SEE value request it via repeated thresholds or accept the
	// boolean comparisons the spec's pruning formulas use.
	SeeGe(m Move, threshold Score) bool

	// MovedPiece returns the type of the piece that m moves (or drops).
	MovedPiece(m Move) PieceType

	// CapturedPiece returns the type of piece m captures, or
	// NoPieceType if m does not capture.
	CapturedPiece(m Move) PieceType

	// PieceAt returns the piece occupying sq, or NoPiece if empty.
	PieceAt(sq Square) Piece

	// IsDraw evaluates repetition over at most maxPly plies of history
	// (spec §4.F item 3 calls this with maxPly=16).
	IsDraw(maxPly int) RepetitionResult

	// MateMoveIn1Ply returns a mate-in-one move if the external
	// mate-in-one solver collaborator finds one in the current
	// position, or None otherwise. Quiescence search (spec §4.E item 3)
	// consults this before falling back to the static evaluator.
	MateMoveIn1Ply() Move

	// Nyugyoku reports whether the side to move may claim an
	// entering-king (nyugyoku) declaration win. Out of scope to
	// implement; consumed only as a collaborator signal.
	Nyugyoku() bool
}

// MoveGenerator is the contract the search core requires from the move
// generator (spec §6). Each method appends pseudo-legal moves of the
// named kind to buf (which may be nil) and returns the resulting slice,
// following the common Go idiom of reusing caller-provided backing
// arrays to avoid per-node allocation in the move picker's hot path.
type MoveGenerator interface {
	// GenerateCaptures yields capturing moves and promoting moves
	// (board moves only — drops can never capture).
	GenerateCaptures(pos Position, buf []Move) []Move

	// GenerateQuiets yields non-capturing, non-promoting board moves.
	GenerateQuiets(pos Position, buf []Move) []Move

	// GenerateDrops yields legal drop moves.
	GenerateDrops(pos Position, buf []Move) []Move

	// GenerateEvasions yields all pseudo-legal moves when the side to
	// move is in check (captures, blocks, and king moves).
	GenerateEvasions(pos Position, buf []Move) []Move
}

// Evaluator is the static position evaluator collaborator (spec §6):
// a pure function of the position, with an optional differential-update
// hook. staticEvalRaw is an opaque per-ply cache owned entirely by the
// evaluator (spec §9 "staticEvalRaw"); the search core never looks
// inside it, only threads the same pointer back on sibling calls at the
// same ply so NNUE-style evaluators can do incremental accumulator
// updates instead of recomputing from scratch.
type Evaluator interface {
	Evaluate(pos Position, staticEvalRaw *any) Score
}
