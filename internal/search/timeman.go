package search

import (
	"time"

	"github.com/tttak/shogicore/internal/shogi"
)

// TimeManager handles time allocation for one search, adapted from the
// teacher's internal/engine.TimeManager to this module's Limits type
// (spec §4.G step 5, §5 "Timeouts").
type TimeManager struct {
	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time
}

// NewTimeManager creates a new, uninitialized time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init computes the optimum/maximum time budget for this move. us is
// the side to move; ply is the current game ply.
func (tm *TimeManager) Init(limits Limits, us shogi.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft / time.Duration(mtg)
	baseTime += inc * 9 / 10
	tm.optimumTime = baseTime

	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft * 95 / 100
	if tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

// Elapsed returns the time elapsed since Init.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.startTime) }

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration { return tm.optimumTime }

// MaximumTime returns the hard ceiling for this move.
func (tm *TimeManager) MaximumTime() time.Duration { return tm.maximumTime }

// ShouldStop reports whether the maximum time has been exceeded.
func (tm *TimeManager) ShouldStop() bool { return tm.Elapsed() >= tm.maximumTime }

// PastOptimum reports whether the optimum time has been exceeded.
func (tm *TimeManager) PastOptimum() bool { return tm.Elapsed() >= tm.optimumTime }

// AdjustForStability scales down the optimum when the best root move
// has been stable for several consecutive depths (spec §4.G step 5
// "unstablePvFactor").
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability scales up the optimum (capped at maximum) when
// the best root move keeps changing between depths.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	default:
		return
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
