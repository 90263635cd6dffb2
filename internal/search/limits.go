package search

import (
	"time"

	"github.com/tttak/shogicore/internal/shogi"
)

// Limits bundles the time, depth and node controls a search runs
// under, analogous to the teacher's UCILimits but named generically
// since USI parsing of these fields is out of scope for this module.
type Limits struct {
	Time      [2]time.Duration // remaining time for Black, White
	Inc       [2]time.Duration // increment per move for Black, White
	MovesToGo int              // moves until the next time control; 0 = sudden death
	MoveTime  time.Duration    // fixed time for this move, overrides the time-control fields
	Depth     int              // maximum rootDepth; 0 = unbounded
	Nodes     uint64           // maximum total nodes searched across all workers; 0 = unbounded
	Infinite  bool             // search until externally stopped
	Ponder    bool             // pondering: don't start the clock until ponderhit
	MultiPV   int              // number of root lines to report; defaults to 1

	// SearchMoves restricts the root move list, or nil for "all legal
	// moves" (spec §6 "start_thinking(position, limits, searchMoves)").
	SearchMoves []shogi.Move

	Threads int // size of the worker pool
	HashMB  int // transposition-table size in megabytes
}

// DefaultLimits returns depth-unbounded, time-unbounded limits for a
// single-threaded, single-PV search with a 16MB hash — a reasonable
// starting point for tests and embedding callers that build their own
// Limits from there.
func DefaultLimits() Limits {
	return Limits{MultiPV: 1, Threads: 1, HashMB: 16}
}
