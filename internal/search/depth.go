package search

// Depth is measured in units of OnePly (spec §3 "Depth"). Plain search
// depths are always whole plies in this port (the spec's fractional-ply
// extension machinery is expressed directly as integer ply adjustments,
// as the teacher's negamax does), so OnePly is kept only for formulas
// that are easier to read multiplied out, matching the source spec's
// notation.
type Depth = int

// OnePly is the unit of search depth.
const OnePly Depth = 1

// MaxPly bounds the search stack and history tables (spec §3).
const MaxPly = 128

// Quiescence depth markers (spec §3 "Depth").
const (
	QChecks     Depth = 0
	QNoChecks   Depth = -1
	QRecaptures Depth = -5
)

// Bound is the kind of score stored in a transposition-table entry
// (spec §3 "Bound").
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundUpper Bound = 1
	BoundLower Bound = 2
	BoundExact Bound = BoundUpper | BoundLower
)

func (b Bound) String() string {
	switch b {
	case BoundUpper:
		return "upper"
	case BoundLower:
		return "lower"
	case BoundExact:
		return "exact"
	default:
		return "none"
	}
}
