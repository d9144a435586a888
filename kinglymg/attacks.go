package kinglymg

import "math/bits"

// Attack tables, built once at package init and never written again, so they
// are safe to read from every search worker concurrently.
var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	// pawnCaptures[c][sq]: squares a pawn of color c attacks from sq.
	pawnCaptures [2][64]uint64

	// rays[sq][dir]: all squares from sq in one direction, origin excluded.
	rays [64][8]uint64
	// betweenIncl[a][b]: squares strictly between a and b plus b itself when
	// the two share a rank, file or diagonal, 0 otherwise. A pinned piece may
	// only move inside betweenIncl[king][pinner]; a slider check can only be
	// met inside betweenIncl[king][checker].
	betweenIncl [64][64]uint64

	// Occupancy masks and PEXT-indexed attack tables for the sliders. The
	// mask selects the occupancy bits relevant to a square's rays (edges
	// excluded); pext packs them into an index into the precomputed table.
	rookMasks     [64]uint64
	bishopMasks   [64]uint64
	rookAttackTbl [64][]uint64
	bishAttackTbl [64][]uint64
)

// Ray directions. The first entry of each group iterates toward higher square
// indices, which firstBlockerFwd relies on.
const (
	dirN = iota
	dirE
	dirNE
	dirNW
	dirS
	dirW
	dirSE
	dirSW
)

var dirDeltas = [8][2]int{
	dirN:  {0, 1},
	dirE:  {1, 0},
	dirNE: {1, 1},
	dirNW: {-1, 1},
	dirS:  {0, -1},
	dirW:  {-1, 0},
	dirSE: {1, -1},
	dirSW: {-1, -1},
}

func init() {
	initLeaperTables()
	initRayTables()
	initSliderTables()
}

func initLeaperTables() {
	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		for _, d := range knightDeltas {
			if tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				knightAttacks[sq] |= 1 << (tr*8 + tf)
			}
		}
		for _, d := range kingDeltas {
			if tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				kingAttacks[sq] |= 1 << (tr*8 + tf)
			}
		}
		for _, df := range []int{-1, 1} {
			if tf := f + df; tf >= 0 && tf < 8 {
				if r < 7 {
					pawnCaptures[White][sq] |= 1 << ((r+1)*8 + tf)
				}
				if r > 0 {
					pawnCaptures[Black][sq] |= 1 << ((r-1)*8 + tf)
				}
			}
		}
	}
}

func initRayTables() {
	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		for dir, d := range dirDeltas {
			for tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8; tf, tr = tf+d[0], tr+d[1] {
				rays[sq][dir] |= 1 << (tr*8 + tf)
			}
		}
	}
	for a := 0; a < 64; a++ {
		for dir := 0; dir < 8; dir++ {
			for t := rays[a][dir]; t != 0; t &= t - 1 {
				b := bits.TrailingZeros64(t)
				betweenIncl[a][b] = rays[a][dir] &^ rays[b][dir]
			}
		}
	}
}

func initSliderTables() {
	edges := func(dir, sq int) uint64 {
		// The far edge square of each ray never affects the attack set,
		// so it is dropped from the occupancy mask.
		ray := rays[sq][dir]
		if ray == 0 {
			return 0
		}
		var last int
		if dir < 4 {
			last = 63 - bits.LeadingZeros64(ray)
		} else {
			last = bits.TrailingZeros64(ray)
		}
		return ray &^ (1 << last)
	}

	for sq := 0; sq < 64; sq++ {
		rookMasks[sq] = edges(dirN, sq) | edges(dirS, sq) | edges(dirE, sq) | edges(dirW, sq)
		bishopMasks[sq] = edges(dirNE, sq) | edges(dirNW, sq) | edges(dirSE, sq) | edges(dirSW, sq)

		rookAttackTbl[sq] = make([]uint64, 1<<bits.OnesCount64(rookMasks[sq]))
		for idx := range rookAttackTbl[sq] {
			occ := pdep(uint64(idx), rookMasks[sq])
			rookAttackTbl[sq][idx] = slowSliderAttacks(sq, occ, [4]int{dirN, dirS, dirE, dirW})
		}
		bishAttackTbl[sq] = make([]uint64, 1<<bits.OnesCount64(bishopMasks[sq]))
		for idx := range bishAttackTbl[sq] {
			occ := pdep(uint64(idx), bishopMasks[sq])
			bishAttackTbl[sq][idx] = slowSliderAttacks(sq, occ, [4]int{dirNE, dirNW, dirSE, dirSW})
		}
	}
}

// slowSliderAttacks walks the rays square by square; only used to fill the
// lookup tables at startup.
func slowSliderAttacks(sq int, occ uint64, dirs [4]int) uint64 {
	var att uint64
	for _, dir := range dirs {
		ray := rays[sq][dir]
		blockers := ray & occ
		if blockers != 0 {
			var first int
			if dir < 4 {
				first = bits.TrailingZeros64(blockers)
			} else {
				first = 63 - bits.LeadingZeros64(blockers)
			}
			ray &^= rays[first][dir]
		}
		att |= ray
	}
	return att
}

// pext is the software parallel-bit-extract: the bits of x selected by mask,
// packed into the low bits of the result.
func pext(x, mask uint64) uint64 {
	var res uint64
	var out uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(m&-m) != 0 {
			res |= 1 << out
		}
		out++
	}
	return res
}

// pdep deposits the low bits of x into the set positions of mask. Only needed
// when enumerating occupancy subsets during table construction.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var in uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(1<<in) != 0 {
			res |= m & -m
		}
		in++
	}
	return res
}

// RookAttacks returns the rook attack set from sq under the given occupancy,
// via one pext and one table load.
func RookAttacks(sq Square, occ uint64) uint64 {
	return rookAttackTbl[sq][pext(occ, rookMasks[sq])]
}

// BishopAttacks returns the bishop attack set from sq under the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return bishAttackTbl[sq][pext(occ, bishopMasks[sq])]
}

// QueenAttacks returns the queen attack set from sq under the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack mask from sq.
func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

// KingAttacks returns the king attack mask from sq.
func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

// PawnCaptures returns the capture mask of a c-colored pawn on sq.
func PawnCaptures(c Color, sq Square) uint64 { return pawnCaptures[c][sq] }
