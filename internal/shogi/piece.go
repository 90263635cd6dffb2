// Package shogi defines the data types the search core exchanges with its
// external collaborators: the board representation, the move generator,
// and the static evaluator. None of those collaborators are implemented
// here — only the contract (see position.go) and the value types moves
// and pieces are packed into.
package shogi

// Color represents the side to move. Shogi calls these Sente (first
// mover, Black here) and Gote (second mover, White here).
type Color uint8

const (
	Black Color = iota
	White
	NoColor Color = 2
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "NoColor"
	}
}

// PieceType enumerates the fourteen piece kinds shogi pieces can take,
// including their promoted forms. Gold generals never promote.
type PieceType uint8

const (
	Pawn PieceType = iota
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	ProPawn   // Tokin
	ProLance
	ProKnight
	ProSilver
	Horse // promoted Bishop
	Dragon // promoted Rook
	NoPieceType PieceType = 14
)

// NumDroppablePieceTypes is the count of piece types that can be dropped
// from hand: Pawn, Lance, Knight, Silver, Gold, Bishop, Rook.
const NumDroppablePieceTypes = 7

// IsPromoted reports whether the piece type is a promoted piece.
func (pt PieceType) IsPromoted() bool {
	return pt >= ProPawn && pt <= Dragon
}

// Unpromoted returns the unpromoted form of a promoted piece type, or pt
// unchanged if it is not promoted.
func (pt PieceType) Unpromoted() PieceType {
	switch pt {
	case ProPawn:
		return Pawn
	case ProLance:
		return Lance
	case ProKnight:
		return Knight
	case ProSilver:
		return Silver
	case Horse:
		return Bishop
	case Dragon:
		return Rook
	default:
		return pt
	}
}

func (pt PieceType) String() string {
	names := [...]string{"Pawn", "Lance", "Knight", "Silver", "Gold", "Bishop", "Rook", "King",
		"ProPawn", "ProLance", "ProKnight", "ProSilver", "Horse", "Dragon"}
	if int(pt) < len(names) {
		return names[pt]
	}
	return "None"
}

// CapturePieceValue is used by the move picker's capture scoring
// (spec §4.D) to rank captures by victim value. Values are in the
// engine's internal centipawn-equivalent scale, loosely proportional to
// material strength; exact tuning is an evaluator concern, not a search
// concern, so these only need to order captures sensibly.
// Indexed [NoPieceType+1] rather than [NoPieceType] so that
// CapturedPieceType() can be used directly as an index even for a
// non-capturing move (which reports NoPieceType as its victim): that
// slot is left at the zero value.
var CapturePieceValue = [NoPieceType + 1]int{
	Pawn: 90, Lance: 315, Knight: 405, Silver: 495, Gold: 540,
	Bishop: 855, Rook: 990, King: 0,
	ProPawn: 540, ProLance: 540, ProKnight: 540, ProSilver: 540,
	Horse: 945, Dragon: 1395,
}

// LeastValuableAttackerScore is the LVA table from spec §4.D, used to
// rank evasion captures by attacker value (lower attacker value first).
// Also sized [NoPieceType+1] for the same reason as CapturePieceValue.
var LeastValuableAttackerScore = [NoPieceType + 1]int{
	Pawn: 1, Lance: 2, Knight: 3, Silver: 4, Gold: 6, Bishop: 7, Rook: 8,
	King: 10000,
	ProPawn: 6, ProLance: 6, ProKnight: 6, ProSilver: 6, Horse: 9, Dragon: 10,
}

// Piece combines a PieceType with a Color.
type Piece uint8

const (
	NoPiece Piece = Piece(NoPieceType) * 2
)

// NewPiece packs a PieceType and Color into a Piece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt)*2 + Piece(c)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p / 2)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p % 2)
}
