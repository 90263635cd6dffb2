package search

import "sync/atomic"

// SearchContext bundles the state shared by every worker in a single
// search: the transposition table, breadcrumb table, limits, time
// manager and stop signal (spec §9 "avoid process-wide singletons" —
// everything a worker needs beyond its own stack is reached through
// one of these, not a package-level global).
type SearchContext struct {
	TT          *TranspositionTable
	Breadcrumbs *BreadcrumbTable
	Limits      Limits
	TimeMan     *TimeManager

	stop            atomic.Bool
	stopOnPonderhit atomic.Bool

	DrawScore Score
}

// NewSearchContext builds a context around a freshly sized TT and
// breadcrumb table.
func NewSearchContext(limits Limits) *SearchContext {
	hashMB := limits.HashMB
	if hashMB <= 0 {
		hashMB = 16
	}
	return &SearchContext{
		TT:          NewTranspositionTable(hashMB),
		Breadcrumbs: NewBreadcrumbTable(),
		Limits:      limits,
		TimeMan:     NewTimeManager(),
	}
}

// Stop signals every worker polling StopRequested to return ZERO and
// unwind (spec §5 "Cancellation").
func (ctx *SearchContext) Stop() { ctx.stop.Store(true) }

// StopRequested reports whether Stop has been called.
func (ctx *SearchContext) StopRequested() bool { return ctx.stop.Load() }

// StopOnPonderhit arranges for the next Ponderhit call to behave like
// Stop, for the USI ponder-transition the teacher's front end drives;
// this module only exposes the flag, the USI collaborator owns when to
// flip it.
func (ctx *SearchContext) StopOnPonderhit() { ctx.stopOnPonderhit.Store(true) }

// Ponderhit applies a pending stopOnPonderhit transition.
func (ctx *SearchContext) Ponderhit() {
	if ctx.stopOnPonderhit.Load() {
		ctx.Stop()
	}
}

// checkTimeUp evaluates whether the search should stop given nodes
// searched so far and an optional hard node limit, consulting the
// shared time manager when time controls are in play (spec §4.F step
// 2, §5 "Timeouts").
func (ctx *SearchContext) checkTimeUp(nodes uint64, nodesLimit uint64) bool {
	if ctx.stop.Load() {
		return true
	}
	if ctx.Limits.Nodes > 0 && nodes >= ctx.Limits.Nodes {
		return true
	}
	if nodesLimit > 0 && nodes >= nodesLimit {
		return true
	}
	if ctx.Limits.Infinite || ctx.Limits.Ponder {
		return false
	}
	if ctx.TimeMan != nil && (ctx.Limits.MoveTime > 0 || ctx.Limits.Time[0] > 0 || ctx.Limits.Time[1] > 0) {
		return ctx.TimeMan.ShouldStop()
	}
	return false
}
