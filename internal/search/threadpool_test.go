package search

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tttak/shogicore/internal/shogi"
	"github.com/tttak/shogicore/internal/shogi/shogitest"
)

func TestThreadPoolStartThinkingReturnsAMove(t *testing.T) {
	pool := NewThreadPool(PoolConfig{Threads: 2, HashMB: 1})

	pos := shogitest.NewPosition(4)
	gen := shogitest.Generator{}

	limits := DefaultLimits()
	limits.Depth = 2

	best, err := pool.StartThinking(context.Background(), pos, gen, pos, limits, nil)
	if err != nil {
		t.Fatalf("StartThinking returned an error: %v", err)
	}
	if len(best.PV) == 0 {
		t.Fatal("expected a non-empty PV from StartThinking")
	}
	if pool.NodesSearched() == 0 {
		t.Fatal("expected at least one node to have been searched")
	}
}

func TestThreadPoolDepthBoundedSearchReturnsPromptly(t *testing.T) {
	// A shallow, depth-bounded search exercises the full pipeline
	// without risking the unbounded runtime a truly infinite search
	// against the synthetic fixture could take; Stop()'s effect on a
	// single negamax node is covered deterministically below.
	pool := NewThreadPool(PoolConfig{Threads: 1, HashMB: 1})
	pos := shogitest.NewPosition(3)
	gen := shogitest.Generator{}

	limits := DefaultLimits()
	limits.Depth = 2

	done := make(chan struct{})
	go func() {
		pool.StartThinking(context.Background(), pos, gen, pos, limits, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("StartThinking did not return promptly")
	}
}

func TestNegamaxReturnsImmediatelyWhenStopped(t *testing.T) {
	var stop atomic.Bool
	stop.Store(true)

	w := newWorker(0, NewTranspositionTable(1), NewBreadcrumbTable(), &stop, 1)
	pos := shogitest.NewPosition(4)
	gen := shogitest.Generator{}
	w.reset(pos, gen, pos, []RootMove{newRootMove(shogi.None)}, 0)

	if got := w.negamax(0, -Infinite, Infinite, 4, false); got != ScoreZero {
		t.Fatalf("negamax with stopFlag set = %d, want ScoreZero", got)
	}
	if w.nodes.Load() == 0 {
		t.Fatal("expected the node counter to have been incremented at least once before bailing out")
	}
}

func TestThreadPoolClearInvokesOnClearHook(t *testing.T) {
	called := false
	pool := NewThreadPool(PoolConfig{Threads: 1, HashMB: 1, OnClear: func(tt *TranspositionTable) {
		called = true
	}})
	pool.Clear()
	if !called {
		t.Fatal("expected OnClear hook to run during Clear()")
	}
}
