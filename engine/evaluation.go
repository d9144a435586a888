package engine

import (
	"math/bits"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// Score constants. Scores are centipawns relative to the side to move.
// Mate scores are encoded as -MaxScore+ply for the mated side, so a shorter
// mate always scores higher; anything beyond Checkmate in magnitude is a
// mate score.
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

// MaxDepth bounds search plies and sizes the per-ply tables.
const MaxDepth = 100

var pieceValueMG = [6]int32{100, 320, 330, 500, 900, 0}
var pieceValueEG = [6]int32{120, 300, 320, 540, 940, 0}

// piecePhase weights each piece's contribution to the game phase, 24 at the
// starting position down to 0 with only kings and pawns left.
var piecePhase = [6]int32{0, 1, 1, 2, 4, 0}

// Piece-square tables from White's point of view, rank 8 first (so the
// visual layout matches a board diagram); index with sq^56 for White and sq
// for Black. Values follow the simplified evaluation function.
var pst = [6][64]int32{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	{ // bishop
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	{ // rook
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	{ // queen
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	{ // king, middlegame
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

// kingPSTEndgame replaces the middlegame king table as material comes off:
// the king walks to the center instead of hiding.
var kingPSTEndgame = [64]int32{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

const tempoBonus int32 = 15

// Mobility weight per piece type, in centipawns per reachable square that is
// not blocked by a friendly piece. Kept light; the PSTs carry most of the
// positional signal.
var mobilityWeight = [6]int32{0, 4, 4, 2, 1, 0}

// GamePhase returns the phase in [0,24], 24 with all pieces on the board.
func GamePhase(b *mg.Board) int32 {
	var phase int32
	for c := mg.White; c <= mg.Black; c++ {
		for pt := mg.Knight; pt <= mg.Queen; pt++ {
			phase += piecePhase[pt] * int32(bits.OnesCount64(b.Pieces(c, pt)))
		}
	}
	return Min(phase, 24)
}

// Evaluate scores the position in centipawns for the side to move: tapered
// material plus piece-square terms, light mobility and a small tempo bonus.
// It is a pure function of the board, safe to call from any worker.
func Evaluate(b *mg.Board) int32 {
	phase := GamePhase(b)
	occ := b.AllOccupied()

	var mgScore, egScore [2]int32
	for c := mg.White; c <= mg.Black; c++ {
		// White indexes the tables through sq^56 so rank 8 comes first for
		// both colors.
		flip := mg.Square(56)
		if c == mg.Black {
			flip = 0
		}
		own := b.Occupied(c)
		for pt := mg.Pawn; pt <= mg.King; pt++ {
			for bb := b.Pieces(c, pt); bb != 0; bb &= bb - 1 {
				from := mg.Square(bits.TrailingZeros64(bb))
				sq := from ^ flip
				mgScore[c] += pieceValueMG[pt] + pst[pt][sq]
				if pt == mg.King {
					egScore[c] += pieceValueEG[pt] + kingPSTEndgame[sq]
				} else {
					egScore[c] += pieceValueEG[pt] + pst[pt][sq]
				}

				var att uint64
				switch pt {
				case mg.Knight:
					att = mg.KnightAttacks(from)
				case mg.Bishop:
					att = mg.BishopAttacks(from, occ)
				case mg.Rook:
					att = mg.RookAttacks(from, occ)
				case mg.Queen:
					att = mg.QueenAttacks(from, occ)
				default:
					continue
				}
				mob := mobilityWeight[pt] * int32(bits.OnesCount64(att&^own))
				mgScore[c] += mob
				egScore[c] += mob
			}
		}
	}

	us := b.SideToMove()
	them := us.Other()
	mgDiff := mgScore[us] - mgScore[them]
	egDiff := egScore[us] - egScore[them]

	return (mgDiff*phase+egDiff*(24-phase))/24 + tempoBonus
}
