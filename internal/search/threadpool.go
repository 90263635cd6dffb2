package search

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tttak/shogicore/internal/shogi"
)

// errNoRootMoves is returned by StartThinking when the position has no
// legal moves (checkmate or a stalemate-equivalent position).
var errNoRootMoves = errors.New("search: no legal root moves")

// ThreadPool owns the set of workers that cooperatively search one
// position (component H). Lifecycle and join/cancel are built on
// errgroup.Group + context.Context, the pattern the Lazy-SMP endgame
// solver in the example pack uses (iterativelyDeepenLazySMP), replacing
// the teacher's raw sync.WaitGroup + unbuffered channel.
type ThreadPool struct {
	ctx     *SearchContext
	workers []*worker
	onClear func(*TranspositionTable)
}

// PoolConfig configures a new ThreadPool.
type PoolConfig struct {
	Threads int
	HashMB  int

	// OnClear, if set, runs after the transposition table and worker
	// histories are reset. A caller that wants persistence can call
	// internal/persist's SaveTT/LoadTT from this hook; internal/search
	// does not import internal/persist, since internal/persist imports
	// internal/search and a direct call would
	// form a cycle (spec §4.J: "wired in ThreadPool.Clear as an opt-in
	// hook, not a hard dependency").
	OnClear func(*TranspositionTable)
}

// NewThreadPool builds a pool of cfg.Threads workers (minimum 1)
// sharing one transposition table and breadcrumb table.
func NewThreadPool(cfg PoolConfig) *ThreadPool {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	hashMB := cfg.HashMB
	if hashMB < 1 {
		hashMB = 16
	}

	limits := Limits{Threads: threads, HashMB: hashMB, MultiPV: 1}
	ctx := NewSearchContext(limits)

	InitReductions(threads)

	pool := &ThreadPool{ctx: ctx, onClear: cfg.OnClear}
	pool.workers = make([]*worker, threads)
	for i := range pool.workers {
		pool.workers[i] = newWorker(i, ctx.TT, ctx.Breadcrumbs, &ctx.stop, threads)
	}
	return pool
}

// Clear resets the transposition table and every worker's history
// tables between games (spec §6 "clear()").
func (p *ThreadPool) Clear() {
	p.ctx.TT.Clear()
	for _, w := range p.workers {
		w.history.Clear()
	}
	if p.onClear != nil {
		p.onClear(p.ctx.TT)
	}
}

// NodesSearched sums the per-worker atomic node counters (spec §4.H).
func (p *ThreadPool) NodesSearched() uint64 {
	var total uint64
	for _, w := range p.workers {
		total += w.nodes.Load()
	}
	return total
}

// Context exposes the shared SearchContext, e.g. so a caller can call
// Stop() or Ponderhit() from outside the search.
func (p *ThreadPool) Context() *SearchContext { return p.ctx }

// StartThinking populates root moves from limits.SearchMoves (or every
// pseudo-legal, legal move generated from gen if it is empty), clones
// the position into each worker, and runs the pool to completion or
// until Stop is called (spec §6 "start_thinking").
//
// It blocks until every worker's iterative-deepening driver returns,
// mirroring wait_for_search_finished (spec §4.H); callers that want an
// asynchronous search should run this inside their own goroutine and
// call (*SearchContext).Stop to cancel it early.
func (p *ThreadPool) StartThinking(ctxParent context.Context, pos shogi.Position, gen shogi.MoveGenerator,
	eval shogi.Evaluator, limits Limits, clonePosition func(shogi.Position) shogi.Position) (RootMove, error) {

	p.ctx.Limits = limits
	p.ctx.TimeMan = NewTimeManager()
	p.ctx.TimeMan.Init(limits, pos.Turn(), pos.GamePly())
	p.ctx.stop.Store(false)

	var legalMoves []shogi.Move
	if len(limits.SearchMoves) > 0 {
		legalMoves = limits.SearchMoves
	} else {
		legalMoves = collectLegalMoves(pos, gen)
	}

	rootMoves := make([]RootMove, len(legalMoves))
	for i, m := range legalMoves {
		rootMoves[i] = newRootMove(m)
	}
	if len(rootMoves) == 0 {
		return RootMove{}, errNoRootMoves
	}

	p.ctx.TT.NewSearch()

	var nodesLimitPerWorker uint64
	if limits.Nodes > 0 {
		nodesLimitPerWorker = limits.Nodes
	}

	for _, w := range p.workers {
		workerPos := pos
		if clonePosition != nil {
			workerPos = clonePosition(pos)
		}
		workerRootMoves := make([]RootMove, len(rootMoves))
		copy(workerRootMoves, rootMoves)
		w.reset(workerPos, gen, eval, workerRootMoves, nodesLimitPerWorker)
	}

	g, gctx := errgroup.WithContext(ctxParent)
	for _, w := range p.workers {
		w := w
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w.iterate(p.ctx)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		logger.Debug().Err(err).Msg("thinking-context-canceled")
	}

	winner := voteBestThread(p.workers)
	if winner == nil || len(winner.rootMoves) == 0 {
		return p.workers[0].rootMoves[0], nil
	}
	return winner.rootMoves[0], nil
}

// collectLegalMoves enumerates every legal move from pos via gen,
// filtering pseudo-legal candidates through LegalityCheck (spec §6
// "start_thinking" populates rootMoves from legal moves when
// searchMoves is empty).
func collectLegalMoves(pos shogi.Position, gen shogi.MoveGenerator) []shogi.Move {
	var all []shogi.Move
	if pos.InCheck() {
		all = gen.GenerateEvasions(pos, nil)
	} else {
		all = append(all, gen.GenerateCaptures(pos, nil)...)
		all = append(all, gen.GenerateQuiets(pos, nil)...)
		all = append(all, gen.GenerateDrops(pos, nil)...)
	}
	legal := make([]shogi.Move, 0, len(all))
	for _, m := range all {
		if pos.LegalityCheck(m) {
			legal = append(legal, m)
		}
	}
	return legal
}
