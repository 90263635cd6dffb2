package search

import (
	"math"

	"github.com/tttak/shogicore/internal/shogi"
)

// Score is the search core's numeric result currency (spec §3, §4.A,
// component A "Score & depth primitives"). It is a type alias for
// shogi.Score so that Position/Evaluator implementations (which must
// not import this package) and the search core (which must not force an
// import cycle) agree on the same underlying type.
type Score = shogi.Score

// Distinguished score values, spec §3.
const (
	ScoreZero          Score = 0
	ScoreDraw          Score = 0
	MateZeroPly        Score = 32600
	Infinite           Score = 32601
	ScoreNone          Score = 32602
	ScoreNotEvaluated  Score = math.MaxInt32
)

// MatedInMaxPly and MateInMaxPly bound the range of "mate scores" used
// by pruning and TT-adjustment decisions.
const (
	MatedInMaxPly Score = -(MateZeroPly - 2*MaxPly)
	MateInMaxPly  Score = MateZeroPly - 2*MaxPly
)

// KnownWin is used by pruning conditions that need to distinguish
// "plausible" scores from mate-bound scores, matching the teacher's use
// of a wide decisive-score threshold in futility/probcut guards.
const KnownWin Score = MateInMaxPly - MaxPly

// MateIn returns the score representing "mate delivered in ply plies".
func MateIn(ply int) Score {
	return MateZeroPly - Score(ply)
}

// MatedIn returns the score representing "mated in ply plies".
func MatedIn(ply int) Score {
	return -MateZeroPly + Score(ply)
}

// ScoreToTT adjusts a score for storage in the transposition table,
// folding the current ply into mate-distance scores so that a TT entry
// read back at a different ply from a different path to the same
// position still reports a correct mate distance (spec §3, §4.A).
func ScoreToTT(s Score, ply int) Score {
	if s == ScoreNone {
		panic("search: ScoreToTT called with ScoreNone")
	}
	switch {
	case s >= MateInMaxPly:
		return s + Score(ply)
	case s <= MatedInMaxPly:
		return s - Score(ply)
	default:
		return s
	}
}

// ScoreFromTT reverses ScoreToTT when reading an entry back at ply.
func ScoreFromTT(s Score, ply int) Score {
	if s == ScoreNone {
		return ScoreNone
	}
	switch {
	case s >= MateInMaxPly:
		return s - Score(ply)
	case s <= MatedInMaxPly:
		return s + Score(ply)
	default:
		return s
	}
}

func absScore(s Score) Score {
	if s < 0 {
		return -s
	}
	return s
}
