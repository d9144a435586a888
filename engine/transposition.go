package engine

import (
	"math/bits"
	"sync/atomic"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// Bound flags for stored scores.
const (
	AlphaFlag uint8 = iota // upper bound: real score <= Score
	BetaFlag               // lower bound: real score >= Score
	ExactFlag
)

const ttClusterSize = 4

// TTEntry is the decoded form of one table slot.
type TTEntry struct {
	Move  mg.Move
	Score int32
	Depth int8
	Flag  uint8
	gen   uint8
}

// ttSlot is one stored entry as two atomic words. The key word holds the
// position hash XOR-folded with the data word, so a reader that observes a
// torn pair (key from one write, data from another) fails the hash re-check
// and treats the slot as a miss. No locks anywhere; all workers hammer the
// same table.
type ttSlot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// TransTable is the shared transposition table: a power-of-two number of
// four-slot clusters indexed by the low bits of the hash.
type TransTable struct {
	slots        []ttSlot
	clusterMask  uint64
	gen          atomic.Uint32
	approxStores atomic.Uint64
}

// NewTransTable allocates a table of roughly sizeMB mebibytes, rounded down
// to a power-of-two cluster count.
func NewTransTable(sizeMB int) *TransTable {
	const slotBytes = 16
	totalSlots := uint64(sizeMB) * 1024 * 1024 / slotBytes
	clusters := totalSlots / ttClusterSize
	if clusters < 1 {
		clusters = 1
	}
	// Round down to a power of two so indexing is a mask, not a modulo.
	clusters = 1 << (63 - bits.LeadingZeros64(clusters))

	return &TransTable{
		slots:       make([]ttSlot, clusters*ttClusterSize),
		clusterMask: clusters - 1,
	}
}

// data word layout:
//
//	bits  0-31  move
//	bits 32-47  score (int16)
//	bits 48-55  depth (int8)
//	bits 56-57  flag
//	bits 58-63  generation (mod 64)
func packEntry(move mg.Move, score int16, depth int8, flag uint8, gen uint8) uint64 {
	return uint64(uint32(move)) |
		uint64(uint16(score))<<32 |
		uint64(uint8(depth))<<48 |
		uint64(flag&3)<<56 |
		uint64(gen&63)<<58
}

func unpackEntry(data uint64) TTEntry {
	return TTEntry{
		Move:  mg.Move(uint32(data)),
		Score: int32(int16(data >> 32)),
		Depth: int8(data >> 48),
		Flag:  uint8(data>>56) & 3,
		gen:   uint8(data>>58) & 63,
	}
}

// NewGeneration ages the table; called once per "go" command so stale
// entries lose replacement priority without being wiped.
func (tt *TransTable) NewGeneration() {
	tt.gen.Add(1)
}

// Clear zeroes every slot. Only called between games, never during search.
func (tt *TransTable) Clear() {
	for i := range tt.slots {
		tt.slots[i].key.Store(0)
		tt.slots[i].data.Store(0)
	}
	tt.approxStores.Store(0)
}

// Probe looks the position up. A hit means the hash validated against an
// untorn slot; the entry's bound and depth still decide whether the score is
// usable at the current node.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	base := (hash & tt.clusterMask) * ttClusterSize
	for i := uint64(0); i < ttClusterSize; i++ {
		key := tt.slots[base+i].key.Load()
		data := tt.slots[base+i].data.Load()
		if data != 0 && key^data == hash {
			return unpackEntry(data), true
		}
	}
	return TTEntry{}, false
}

// Usable decides whether a probed entry's score settles the current node,
// per the usual depth and bound tests, and undoes the mate-score ply
// normalization. The returned score is only meaningful when usable is true.
func (tt *TransTable) Usable(e TTEntry, depth int8, alpha, beta int32, ply int) (usable bool, score int32) {
	if e.Depth < depth {
		return false, 0
	}
	score = scoreFromTT(e.Score, ply)
	switch e.Flag {
	case ExactFlag:
		return true, score
	case AlphaFlag:
		if score <= alpha {
			return true, score
		}
	case BetaFlag:
		if score >= beta {
			return true, score
		}
	}
	return false, 0
}

// Store writes an entry. Replacement within the cluster: same position
// first, then an empty slot, then the entry from the oldest generation,
// shallowest depth breaking ties.
func (tt *TransTable) Store(hash uint64, depth int8, ply int, move mg.Move, score int32, flag uint8) {
	base := (hash & tt.clusterMask) * ttClusterSize
	gen := uint8(tt.gen.Load())

	victim := base
	victimAge := -1
	victimDepth := int8(127)
	for i := uint64(0); i < ttClusterSize; i++ {
		idx := base + i
		key := tt.slots[idx].key.Load()
		data := tt.slots[idx].data.Load()
		if data == 0 {
			victim = idx
			victimAge = 256 // empty beats any aged entry
			victimDepth = -1
			continue
		}
		e := unpackEntry(data)
		if key^data == hash {
			// Same position: keep a deeper entry from this generation
			// rather than overwrite it with a shallower one.
			if e.gen == gen&63 && e.Depth > depth && e.Flag == ExactFlag && flag != ExactFlag {
				return
			}
			victim = idx
			victimAge = 257
			break
		}
		age := int((gen - e.gen) & 63)
		if age > victimAge || (age == victimAge && e.Depth < victimDepth) {
			victim = idx
			victimAge = age
			victimDepth = e.Depth
		}
	}

	data := packEntry(move, scoreToTT(score, ply), depth, flag, gen)
	tt.slots[victim].key.Store(hash ^ data)
	tt.slots[victim].data.Store(data)
	tt.approxStores.Add(1)
}

// scoreToTT normalizes a mate score to "plies from this node" before
// storing, so the entry stays correct at whatever ply it is probed from.
func scoreToTT(score int32, ply int) int16 {
	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}
	return int16(score)
}

func scoreFromTT(score int32, ply int) int32 {
	if score > Checkmate {
		return score - int32(ply)
	}
	if score < -Checkmate {
		return score + int32(ply)
	}
	return score
}

// HashFull estimates table occupancy in permille by sampling the first
// thousand slots, the UCI convention.
func (tt *TransTable) HashFull() int {
	sample := Min(len(tt.slots), 1000)
	used := 0
	for i := 0; i < sample; i++ {
		if tt.slots[i].data.Load() != 0 {
			used++
		}
	}
	return used * 1000 / sample
}
