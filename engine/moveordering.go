package engine

import (
	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

type scoredMove struct {
	move  mg.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

// MVV-LVA: victims down the rows, attackers across the columns. Capturing a
// big piece with a small one scores highest.
var mvvLva = [6][6]uint16{
	{15, 14, 13, 12, 11, 10}, // victim pawn
	{25, 24, 23, 22, 21, 20}, // victim knight
	{35, 34, 33, 32, 31, 30}, // victim bishop
	{45, 44, 43, 42, 41, 40}, // victim rook
	{55, 54, 53, 52, 51, 50}, // victim queen
	{0, 0, 0, 0, 0, 0},
}

// Ordering tiers. The TT move comes first, then promotions, then captures,
// then the quiet-move heuristics (killers above counters above history).
const (
	ttMoveScore     uint16 = 26500
	promotionOffset uint16 = 20000
	captureOffset   uint16 = 15000
	killerOffset    uint16 = 2000
	counterOffset   uint16 = 1000
)

// historyMax keeps history scores below the killer tier; the table is aged
// by halving when any entry reaches it.
const historyMax = 10000

// scoreMoves tags each generated move with an ordering score using this
// searcher's private killer/counter/history tables.
func (s *searcher) scoreMoves(moves []mg.Move, ply int, ttMove, prevMove mg.Move) moveList {
	us := s.board.SideToMove()
	ml := moveList{moves: s.scratch[ply][:0]}

	for _, move := range moves {
		var score uint16
		switch {
		case move == ttMove:
			score = ttMoveScore
		case move.Promotion() != mg.NoPieceType:
			score = promotionOffset + uint16(pieceValueEG[move.Promotion()])
		case move.IsCapture():
			score = captureOffset + mvvLva[move.Captured()][move.Piece()]
		case s.killers.moves[ply][0] == move:
			score = killerOffset + 200
		case s.killers.moves[ply][1] == move:
			score = killerOffset
		default:
			h := s.history[us][move.From()][move.To()]
			score = uint16(Clamp(h, 0, historyMax))
			if prevMove != mg.NoMove && s.counter[us][prevMove.From()][prevMove.To()] == move {
				score += counterOffset
			}
		}
		ml.moves = append(ml.moves, scoredMove{move: move, score: score})
	}
	s.scratch[ply] = ml.moves
	return ml
}

// scoreCaptures orders the quiescence move set: TT move, promotions, then
// MVV-LVA.
func (s *searcher) scoreCaptures(moves []mg.Move, ply int, ttMove mg.Move) moveList {
	ml := moveList{moves: s.scratch[ply][:0]}
	for _, move := range moves {
		var score uint16
		switch {
		case move == ttMove:
			score = captureOffset + 256
		case move.Promotion() != mg.NoPieceType:
			score = captureOffset + 75
		case move.IsCapture():
			score = mvvLva[move.Captured()][move.Piece()]
		}
		ml.moves = append(ml.moves, scoredMove{move: move, score: score})
	}
	s.scratch[ply] = ml.moves
	return ml
}

// orderNextMove selection-sorts the single best remaining move into place.
// Most nodes cut off after a move or two, so fully sorting the list up front
// would be wasted work.
func orderNextMove(currIndex int, ml *moveList) {
	bestIndex := currIndex
	bestScore := ml.moves[bestIndex].score
	for i := currIndex + 1; i < len(ml.moves); i++ {
		if ml.moves[i].score > bestScore {
			bestIndex = i
			bestScore = ml.moves[i].score
		}
	}
	ml.moves[currIndex], ml.moves[bestIndex] = ml.moves[bestIndex], ml.moves[currIndex]
}

// History and counter-move bookkeeping. All tables are searcher-private.

func (s *searcher) storeCounter(prevMove, move mg.Move) {
	if prevMove == mg.NoMove {
		return
	}
	s.counter[s.board.SideToMove()][prevMove.From()][prevMove.To()] = move
}

func (s *searcher) bumpHistory(move mg.Move, depth int8) {
	us := s.board.SideToMove()
	s.history[us][move.From()][move.To()] += int32(depth) * int32(depth)
	if s.history[us][move.From()][move.To()] >= historyMax {
		s.ageHistory(us)
	}
}

func (s *searcher) punishHistory(move mg.Move, depth int8) {
	us := s.board.SideToMove()
	h := &s.history[us][move.From()][move.To()]
	*h -= int32(depth) * int32(depth)
	if *h < 0 {
		*h = 0
	}
}

func (s *searcher) ageHistory(us mg.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			s.history[us][from][to] /= 2
		}
	}
}
