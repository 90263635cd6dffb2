package shogi

// Move is an opaque 32-bit encoding of a shogi move (spec §3 Data Model):
//
//	bits  0- 6 (7 bits):  to square            (0..80)
//	bits  7-13 (7 bits):  from square, or a drop marker (81 + droppedPieceIndex)
//	bit      14:          promotion flag
//	bits 15-18 (4 bits):  moved piece type (the type BEFORE promotion)
//	bits 19-22 (4 bits):  captured piece type, or NoPieceType if none
//
// A from_to_index (spec §3) is a dense index in [0, 81*(81+7)) obtained
// by from*81+to, with from in [0,88): squares 0..80 plus the seven drop
// markers for droppable piece types.
type Move uint32

// None is the null-move / no-move sentinel. A real move can never encode
// to these bits because a piece can never move onto its own origin
// square, and drop markers start at 81.
const None Move = 0

const (
	toMask        = 0x7F
	fromShift     = 7
	fromMask      = 0x7F
	promoShift    = 14
	promoBit      = 1 << promoShift
	movedShift    = 15
	movedMask     = 0xF
	capturedShift = 19
	capturedMask  = 0xF

	// dropBase is the first "from" slot value used to mean a drop of
	// piece type (from - dropBase) rather than a board square.
	dropBase = NumSquares
)

// NewBoardMove constructs a move from a board square to another square.
func NewBoardMove(from, to Square, promote bool, moved, captured PieceType) Move {
	m := Move(to&toMask) | Move(uint8(from)&fromMask)<<fromShift
	if promote {
		m |= promoBit
	}
	m |= Move(moved&movedMask) << movedShift
	m |= Move(captured&capturedMask) << capturedShift
	return m
}

// NewDropMove constructs a move dropping pieceType from hand onto to.
// pieceType must be one of the NumDroppablePieceTypes droppable kinds.
func NewDropMove(to Square, pieceType PieceType) Move {
	from := dropBase + Square(pieceType)
	m := Move(to&toMask) | Move(uint8(from)&fromMask)<<fromShift
	m |= Move(pieceType&movedMask) << movedShift
	m |= Move(NoPieceType&capturedMask) << capturedShift
	return m
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m & toMask)
}

// rawFrom returns the packed from-or-drop-marker field.
func (m Move) rawFrom() Square {
	return Square((m >> fromShift) & fromMask)
}

// IsDrop reports whether this move drops a piece from hand.
func (m Move) IsDrop() bool {
	return int(m.rawFrom()) >= dropBase
}

// From returns the origin square. Only valid when !IsDrop().
func (m Move) From() Square {
	return m.rawFrom()
}

// DropPieceType returns the piece type being dropped. Only valid when
// IsDrop().
func (m Move) DropPieceType() PieceType {
	return PieceType(int(m.rawFrom()) - dropBase)
}

// FromToIndex is the dense index described in spec §3, suitable for
// indexing history tables sized [0, 81*(81+7)).
func (m Move) FromToIndex() int {
	return int(m.rawFrom())*NumSquares + int(m.To())
}

// IsPromotion reports whether the move promotes the moved piece.
func (m Move) IsPromotion() bool {
	return m&promoBit != 0
}

// PieceTypeFrom returns the type of the piece being moved (pre-promotion
// for board moves; the dropped type for drops).
func (m Move) PieceTypeFrom() PieceType {
	return PieceType((m >> movedShift) & movedMask)
}

// CapturedPieceType returns the type of piece captured by this move, or
// NoPieceType if the move does not capture.
func (m Move) CapturedPieceType() PieceType {
	return PieceType((m >> capturedShift) & capturedMask)
}

// IsCapture reports whether the move captures a piece.
func (m Move) IsCapture() bool {
	return m.CapturedPieceType() != NoPieceType
}

// IsCaptureOrPawnPromotion reports whether the move is a capture, or a
// pawn promotion (both are treated as "noisy" for quiescence purposes).
func (m Move) IsCaptureOrPawnPromotion() bool {
	return m.IsCapture() || (m.IsPromotion() && m.PieceTypeFrom() == Pawn)
}

func (m Move) String() string {
	if m == None {
		return "none"
	}
	if m.IsDrop() {
		return m.DropPieceType().String() + "*" + squareName(m.To())
	}
	s := squareName(m.From()) + squareName(m.To())
	if m.IsPromotion() {
		s += "+"
	}
	return s
}

func squareName(sq Square) string {
	if sq < 0 || sq >= NumSquares {
		return "??"
	}
	file := byte('1' + sq/9)
	rank := byte('a' + sq%9)
	return string([]byte{file, rank})
}
