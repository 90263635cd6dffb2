package search

import (
	"sync/atomic"

	"github.com/tttak/shogicore/internal/shogi"
)

// generationBits / generationDelta mirror Stockfish's packing of a
// 5-bit generation counter and a 1-bit "was this a PV node" flag into
// the same byte as the 2-bit bound (spec §3 "gen_bound8").
const (
	generationBits  = 5
	generationDelta = 1 << 3 // generation increments occupy the top 5 bits of gen_bound8
	generationMask  = (0xFF >> (8 - generationBits)) << 3
	pvFlagBit       = 1 << 2
	boundMask       = 0x3
)

// TTEntry is one slot of a TT cluster (spec §3 "TT Entry", ≤16 bytes).
// The Go port stores the full 32-bit Move rather than a 16-bit move
// encoding (shogi moves, with drops, do not fit 16 bits) — see
// DESIGN.md for the packing-budget note.
type TTEntry struct {
	key32    uint32
	move     shogi.Move
	value16  int16
	eval16   int16
	depth8   int8
	genBound uint8
}

// Move returns the stored best move, or shogi.None if the slot is empty.
func (e *TTEntry) Move() shogi.Move { return e.move }

// Value returns the stored score (ply-unadjusted; caller applies
// ScoreFromTT with the probing ply).
func (e *TTEntry) Value() Score { return Score(e.value16) }

// Eval returns the stored static evaluation, or ScoreNone if absent.
func (e *TTEntry) Eval() Score { return Score(e.eval16) }

// Depth returns the depth this entry was stored at.
func (e *TTEntry) Depth() Depth { return Depth(e.depth8) }

// Bound returns the bound type of the stored score.
func (e *TTEntry) Bound() Bound { return Bound(e.genBound & boundMask) }

// IsPV reports whether this entry was stored from a PV node.
func (e *TTEntry) IsPV() bool { return e.genBound&pvFlagBit != 0 }

func (e *TTEntry) generation() uint8 { return e.genBound & generationMask }

// relativeAge measures how many generations old this entry is relative
// to the table's current generation, wrapping modulo 32 (spec §4.B
// store policy).
func (e *TTEntry) relativeAge(tableGeneration uint8) uint8 {
	return ((tableGeneration - e.generation()) & generationMask) / generationDelta
}

// ttCluster groups the 3 entries that share a bucket (spec §3 "Cluster
// of 3 entries per bucket").
type ttCluster struct {
	entries [3]TTEntry
}

// TranspositionTable is the fixed-size shared hash table (component B).
// Reads and writes are deliberately unlocked (spec §5): a racing read
// may observe a torn entry, which is caught by re-verifying key32 before
// the caller trusts any field.
type TranspositionTable struct {
	clusters   []ttCluster
	mask       uint64
	generation uint8 // only ever touched by NewSearch, a single-writer operation
	hits       atomic.Uint64
	probes     atomic.Uint64
}

const ttEntrySizeBytes = 16 // packing budget this table targets (spec §3)

// NewTranspositionTable allocates a table of approximately sizeMB
// megabytes, rounded down to a power-of-two cluster count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	numClusters := roundDownPow2(uint64(sizeMB) * 1024 * 1024 / (3 * ttEntrySizeBytes))
	if numClusters == 0 {
		numClusters = 1
	}
	return &TranspositionTable{
		clusters: make([]ttCluster, numClusters),
		mask:     numClusters - 1,
	}
}

func roundDownPow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up key in the table (spec §4.B). It returns the matching
// slot and hit=true if any of the cluster's 3 entries has a matching
// key32; otherwise it returns the best replacement candidate and
// hit=false, exactly like Stockfish's TranspositionTable::probe.
func (tt *TranspositionTable) Probe(key uint64) (entry *TTEntry, hit bool) {
	tt.probes.Add(1)
	cluster := &tt.clusters[key&tt.mask]
	key32 := uint32(key >> 32)

	for i := range cluster.entries {
		e := &cluster.entries[i]
		if e.key32 == key32 && (e.depth8 != 0 || e.move != shogi.None) {
			// Refresh generation so this entry survives future
			// replacement decisions (Stockfish probe() behavior).
			e.genBound = uint8(tt.generation) | (e.genBound & (pvFlagBit | boundMask))
			tt.hits.Add(1)
			return e, true
		}
	}

	// No match: pick a replacement candidate. Prefer an empty slot;
	// otherwise the slot minimizing (depth - relativeAge*2) (spec §3).
	replace := &cluster.entries[0]
	replaceScore := replace.depth8 - 2*int8(replace.relativeAge(tt.generation))
	for i := 1; i < len(cluster.entries); i++ {
		e := &cluster.entries[i]
		if e.depth8 == 0 {
			return e, false
		}
		score := e.depth8 - 2*int8(e.relativeAge(tt.generation))
		if score < replaceScore {
			replace, replaceScore = e, score
		}
	}
	if replace.depth8 == 0 {
		return replace, false
	}
	return replace, false
}

// Store writes a search result into the slot found by a prior Probe
// call (spec §4.B). The replacement-preservation rule keeps an existing
// deeper entry across cluster reuse unless the new bound is exact or
// the new depth is close enough (within 4 plies) to the old one.
func (tt *TranspositionTable) Store(entry *TTEntry, key uint64, value Score, pv bool, bound Bound, depth Depth, move shogi.Move, eval Score) {
	key32 := uint32(key >> 32)

	if move != shogi.None || key32 != entry.key32 {
		entry.move = move
	}

	if bound == BoundExact ||
		key32 != entry.key32 ||
		depth+depthOffset(pv) > int(entry.depth8)-4 {

		entry.key32 = key32
		entry.value16 = int16(value)
		entry.eval16 = int16(eval)
		entry.depth8 = int8(depth)
		pvBit := uint8(0)
		if pv {
			pvBit = pvFlagBit
		}
		entry.genBound = uint8(tt.generation) | pvBit | uint8(bound)
	}
}

// depthOffset nudges the replacement comparison slightly in favor of PV
// entries, the same way Stockfish biases TT writes from PV nodes.
func depthOffset(pv bool) Depth {
	if pv {
		return 2
	}
	return 0
}

// NewSearch bumps the generation counter (mod 32), making all existing
// entries progressively less preferred by the replacement policy
// without clearing them (spec §3 "Lifecycle").
func (tt *TranspositionTable) NewSearch() {
	tt.generation = (tt.generation + generationDelta) & generationMask
}

// Clear zeroes the entire table (spec §3 "Lifecycle": "TT is allocated
// once at startup, clear() on new game").
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		tt.clusters[i] = ttCluster{}
	}
	tt.generation = 0
	tt.hits.Store(0)
	tt.probes.Store(0)
}

// Hashfull samples the first 1000 clusters and reports how full the
// table is, in parts-per-thousand (spec §4.B).
func (tt *TranspositionTable) Hashfull() int {
	sample := 1000
	if uint64(sample) > uint64(len(tt.clusters)) {
		sample = len(tt.clusters)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		for j := range tt.clusters[i].entries {
			e := &tt.clusters[i].entries[j]
			if e.depth8 != 0 && e.generation() == tt.generation {
				used++
			}
		}
	}
	return used * 1000 / (sample * len(tt.clusters[0].entries))
}

// HitRate reports the cumulative probe hit rate, for diagnostics.
func (tt *TranspositionTable) HitRate() float64 {
	p := tt.probes.Load()
	if p == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(p) * 100
}

// NumClusters returns the number of 3-way clusters backing the table.
func (tt *TranspositionTable) NumClusters() uint64 {
	return uint64(len(tt.clusters))
}

// TTEntrySnapshot is the persisted form of one TTEntry, used by
// internal/persist to warm-start the table from a prior run (spec
// §4.J "Persistence is explicitly optional").
type TTEntrySnapshot struct {
	Cluster  uint64 // bucket index the entry occupied (key & mask at capture time)
	Key32    uint32
	Move     shogi.Move
	Value16  int16
	Eval16   int16
	Depth8   int8
	GenBound uint8
}

// Snapshot copies every occupied entry out of the table, recording the
// bucket index alongside key32 since key32 alone (the upper 32 bits of
// the Zobrist key) cannot reconstruct the bucket (the low bits modulo
// the cluster count). It does not lock against concurrent searches;
// callers persist between searches, not during one (spec §4.J).
func (tt *TranspositionTable) Snapshot() []TTEntrySnapshot {
	out := make([]TTEntrySnapshot, 0, len(tt.clusters))
	for i := range tt.clusters {
		for j := range tt.clusters[i].entries {
			e := &tt.clusters[i].entries[j]
			if e.depth8 == 0 && e.move == shogi.None {
				continue
			}
			out = append(out, TTEntrySnapshot{
				Cluster:  uint64(i),
				Key32:    e.key32,
				Move:     e.move,
				Value16:  e.value16,
				Eval16:   e.eval16,
				Depth8:   e.depth8,
				GenBound: e.genBound,
			})
		}
	}
	return out
}

// Restore loads a previously captured snapshot back into the table.
// Entries whose bucket no longer exists (the table was resized smaller
// since the snapshot was taken) are dropped.
func (tt *TranspositionTable) Restore(snap []TTEntrySnapshot) {
	for _, s := range snap {
		if s.Cluster > tt.mask {
			continue
		}
		cluster := &tt.clusters[s.Cluster]
		slot := &cluster.entries[0]
		for i := 1; i < len(cluster.entries); i++ {
			if cluster.entries[i].depth8 < slot.depth8 {
				slot = &cluster.entries[i]
			}
		}
		slot.key32 = s.Key32
		slot.move = s.Move
		slot.value16 = s.Value16
		slot.eval16 = s.Eval16
		slot.depth8 = s.Depth8
		slot.genBound = s.GenBound
	}
}
