package kinglymg

import "math/rand"

// Zobrist keys for piece placement, castling rights, en-passant file and the
// side to move. Seeded deterministically so hashes are stable across runs,
// which the tests and the persistent analysis cache both rely on.
var (
	zobristPiece    [2][6][64]uint64
	zobristCastling [16]uint64
	zobristEPFile   [8]uint64
	zobristBlack    uint64
)

func init() {
	rnd := rand.New(rand.NewSource(0x4B696E67)) // "King"
	for c := 0; c < 2; c++ {
		for pt := 0; pt < 6; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rnd.Uint64()
			}
		}
	}
	for cr := range zobristCastling {
		zobristCastling[cr] = rnd.Uint64()
	}
	for f := range zobristEPFile {
		zobristEPFile[f] = rnd.Uint64()
	}
	zobristBlack = rnd.Uint64()
}

// ComputeHash calculates the Zobrist key from scratch. MakeMove maintains the
// key incrementally; this exists to validate that maintenance.
func (b *Board) ComputeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			key ^= zobristPiece[p.Color()][p.Type()][sq]
		}
	}
	if b.stm == Black {
		key ^= zobristBlack
	}
	key ^= zobristCastling[b.castling]
	if b.epSquare != NoSquare {
		key ^= zobristEPFile[b.epSquare.File()]
	}
	return key
}
