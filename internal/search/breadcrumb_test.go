package search

import "testing"

func TestThreadHoldingMarksConcurrentOwner(t *testing.T) {
	table := NewBreadcrumbTable()
	w1 := &worker{id: 0}
	w2 := &worker{id: 1}

	h1 := NewThreadHolding(table, w1, 777, 2)
	if h1.Marked() {
		t.Fatal("the first worker to claim a slot must not see itself as marked")
	}

	h2 := NewThreadHolding(table, w2, 777, 2)
	if !h2.Marked() {
		t.Fatal("a second worker probing the same key while the first holds it must be marked")
	}

	h1.Release()

	h3 := NewThreadHolding(table, w2, 777, 2)
	if h3.Marked() {
		t.Fatal("after Release, a fresh probe must be able to claim the slot unmarked")
	}
}

func TestThreadHoldingIgnoresDeepPlies(t *testing.T) {
	table := NewBreadcrumbTable()
	w1 := &worker{id: 0}
	h := NewThreadHolding(table, w1, 42, breadcrumbMaxPly)
	if h.Marked() {
		t.Fatal("a ply at or beyond breadcrumbMaxPly must never be marked")
	}
	h.Release() // must not panic on a zero-value ThreadHolding
}

func TestThreadHoldingDifferentKeysDoNotCollideBySelf(t *testing.T) {
	table := NewBreadcrumbTable()
	w1 := &worker{id: 0}

	h1 := NewThreadHolding(table, w1, 100, 1)
	defer h1.Release()

	// Same worker revisiting a different key that hashes to the slot it
	// already holds: the slot keeps h1's key, so h2 neither takes it
	// over nor is marked.
	h2 := NewThreadHolding(table, w1, 100+breadcrumbTableSize, 1)
	if h2.Marked() {
		t.Fatal("the same worker must never mark itself")
	}
}
