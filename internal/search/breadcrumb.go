package search

import "sync/atomic"

// breadcrumbTableSize is the (power-of-two) size of the breadcrumb hint
// table (spec §3 "Breadcrumb").
const breadcrumbTableSize = 1024

// breadcrumbMaxPly is the ply cutoff below which breadcrumbs are used
// at all (spec §4.I: "Used only for plies < 8").
const breadcrumbMaxPly = 8

// breadcrumb is one slot of the lock-free "another thread is here" hint
// table (spec §3, §4.I). All field accesses are relaxed atomics: a
// breadcrumb is a hint for LMR scaling, never a correctness requirement
// (spec §5).
type breadcrumb struct {
	thread atomic.Pointer[worker]
	key    atomic.Uint64
}

// BreadcrumbTable is the shared, fixed-size table all workers probe.
type BreadcrumbTable struct {
	slots [breadcrumbTableSize]breadcrumb
}

// NewBreadcrumbTable allocates a fresh, empty breadcrumb table.
func NewBreadcrumbTable() *BreadcrumbTable {
	return &BreadcrumbTable{}
}

// ThreadHolding is the RAII-style scoped guard described in spec §4.I.
// Construct one with NewThreadHolding at node entry and call Release (or
// defer it) at node exit.
type ThreadHolding struct {
	slot    *breadcrumb
	owning  bool
	marked  bool
}

// NewThreadHolding claims (or observes) the breadcrumb slot for key at
// the given ply, for the given worker. Plies >= breadcrumbMaxPly never
// touch the table (spec §4.I).
func NewThreadHolding(table *BreadcrumbTable, self *worker, key uint64, ply int) ThreadHolding {
	if table == nil || ply >= breadcrumbMaxPly {
		return ThreadHolding{}
	}
	slot := &table.slots[key%breadcrumbTableSize]
	th := ThreadHolding{slot: slot}

	existing := slot.thread.Load()
	if existing == nil {
		if slot.thread.CompareAndSwap(nil, self) {
			slot.key.Store(key)
			th.owning = true
			return th
		}
		existing = slot.thread.Load()
	}
	if existing != nil && existing != self && slot.key.Load() == key {
		th.marked = true
	}
	return th
}

// Marked reports whether another worker is known to be searching the
// same position right now — spec §4.F LMR step 19 adds +1 ply of
// reduction when true.
func (th *ThreadHolding) Marked() bool {
	return th.marked
}

// Release clears the slot if this guard owns it. Safe to call multiple
// times or on a zero-value ThreadHolding.
func (th *ThreadHolding) Release() {
	if th.owning && th.slot != nil {
		th.slot.thread.Store(nil)
		th.owning = false
	}
}
