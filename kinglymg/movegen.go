package kinglymg

import "math/bits"

// attackersTo returns every piece of color by that attacks sq under the given
// occupancy.
func (b *Board) attackersTo(sq Square, by Color, occ uint64) uint64 {
	// Pawn attacks are looked up in reverse: the squares a pawn of the
	// defending color would attack from sq are exactly the squares an
	// attacking pawn may stand on.
	return pawnCaptures[by.Other()][sq]&b.pieces[by][Pawn] |
		knightAttacks[sq]&b.pieces[by][Knight] |
		kingAttacks[sq]&b.pieces[by][King] |
		RookAttacks(sq, occ)&(b.pieces[by][Rook]|b.pieces[by][Queen]) |
		BishopAttacks(sq, occ)&(b.pieces[by][Bishop]|b.pieces[by][Queen])
}

func (b *Board) isAttacked(sq Square, by Color, occ uint64) bool {
	return b.attackersTo(sq, by, occ) != 0
}

// IsSquareAttacked reports whether sq is attacked by the given side.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.isAttacked(sq, by, b.AllOccupied())
}

// checkersAndPins computes, for the side to move, the set of checking pieces,
// the set of absolutely pinned pieces, and for each pinned piece the line it
// is confined to (king-to-pinner, pinner included).
func (b *Board) checkersAndPins() (checkers, pinned uint64, pinLine [64]uint64) {
	us := b.stm
	them := us.Other()
	ksq := b.KingSquare(us)
	occ := b.AllOccupied()

	checkers = b.attackersTo(ksq, them, occ)

	// Snipers: the first enemy slider of the right kind along each line from
	// the king, ignoring every non-slider in between.
	rq := b.pieces[them][Rook] | b.pieces[them][Queen]
	bq := b.pieces[them][Bishop] | b.pieces[them][Queen]
	snipers := RookAttacks(ksq, rq)&rq | BishopAttacks(ksq, bq)&bq

	for s := snipers; s != 0; s &= s - 1 {
		sniper := Square(bits.TrailingZeros64(s))
		between := betweenIncl[ksq][sniper] &^ squareBB(sniper)
		blockers := between & occ
		if blockers != 0 && blockers&(blockers-1) == 0 && blockers&b.occupied[us] != 0 {
			pinned |= blockers
			pinLine[bits.TrailingZeros64(blockers)] = betweenIncl[ksq][sniper]
		}
	}
	return checkers, pinned, pinLine
}

// Generation filters.
const (
	genAll = iota
	genCaptures
)

// GenerateMoves returns all legal moves for the side to move.
func (b *Board) GenerateMoves() []Move {
	return b.generateInto(make([]Move, 0, 64), genAll)
}

// GenerateMovesInto appends all legal moves to dst (reusing its storage).
func (b *Board) GenerateMovesInto(dst []Move) []Move {
	return b.generateInto(dst, genAll)
}

// GenerateCaptures returns legal captures plus queen promotions, the move set
// the quiescence search explores.
func (b *Board) GenerateCaptures() []Move {
	return b.generateInto(make([]Move, 0, 32), genCaptures)
}

// GenerateCapturesInto appends legal captures/queen promotions to dst.
func (b *Board) GenerateCapturesInto(dst []Move) []Move {
	return b.generateInto(dst, genCaptures)
}

// HasLegalMoves reports whether the side to move has any legal move.
func (b *Board) HasLegalMoves() bool {
	var buf [64]Move
	return len(b.generateInto(buf[:0], genAll)) > 0
}

func (b *Board) generateInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	us := b.stm
	them := us.Other()
	own := b.occupied[us]
	opp := b.occupied[them]
	occ := own | opp
	ksq := b.KingSquare(us)

	checkers, pinned, pinLine := b.checkersAndPins()
	inCheck := checkers != 0
	doubleCheck := inCheck && checkers&(checkers-1) != 0

	// King moves are legal iff the destination is safe once the king has
	// left its current square.
	occNoKing := occ &^ squareBB(ksq)
	kingTargets := kingAttacks[ksq] &^ own
	if filter == genCaptures {
		kingTargets &= opp
	}
	for t := kingTargets; t != 0; t &= t - 1 {
		to := Square(bits.TrailingZeros64(t))
		if b.isAttacked(to, them, occNoKing) {
			continue
		}
		moves = append(moves, NewMove(ksq, to, King, b.squares[to].Type(), NoPieceType, FlagNone))
	}

	if doubleCheck {
		return moves
	}

	// Non-king moves must land inside the check mask: everywhere when not in
	// check, otherwise on the checker or a square blocking it.
	allowed := ^uint64(0)
	if inCheck {
		c := Square(bits.TrailingZeros64(checkers))
		allowed = betweenIncl[ksq][c] | squareBB(c)
	}

	moves = b.genPawnMoves(moves, filter, allowed, pinned, &pinLine)

	// Knights: a pinned knight can never stay on its pin line.
	for from := b.pieces[us][Knight] &^ pinned; from != 0; from &= from - 1 {
		f := Square(bits.TrailingZeros64(from))
		targets := knightAttacks[f] &^ own & allowed
		if filter == genCaptures {
			targets &= opp
		}
		for t := targets; t != 0; t &= t - 1 {
			to := Square(bits.TrailingZeros64(t))
			moves = append(moves, NewMove(f, to, Knight, b.squares[to].Type(), NoPieceType, FlagNone))
		}
	}

	for _, pt := range [3]PieceType{Bishop, Rook, Queen} {
		for from := b.pieces[us][pt]; from != 0; from &= from - 1 {
			f := Square(bits.TrailingZeros64(from))
			var att uint64
			switch pt {
			case Bishop:
				att = BishopAttacks(f, occ)
			case Rook:
				att = RookAttacks(f, occ)
			default:
				att = QueenAttacks(f, occ)
			}
			targets := att &^ own & allowed
			if pinned&squareBB(f) != 0 {
				targets &= pinLine[f]
			}
			if filter == genCaptures {
				targets &= opp
			}
			for t := targets; t != 0; t &= t - 1 {
				to := Square(bits.TrailingZeros64(t))
				moves = append(moves, NewMove(f, to, pt, b.squares[to].Type(), NoPieceType, FlagNone))
			}
		}
	}

	if !inCheck && filter == genAll {
		moves = b.genCastling(moves, occ)
	}
	return moves
}

func (b *Board) genPawnMoves(moves []Move, filter int, allowed, pinned uint64, pinLine *[64]uint64) []Move {
	us := b.stm
	them := us.Other()
	occ := b.AllOccupied()
	opp := b.occupied[them]

	up := 8
	startRank, promoRank := 1, 7
	if us == Black {
		up = -8
		startRank, promoRank = 6, 0
	}

	appendPawn := func(from, to Square, captured PieceType, flag MoveFlag) {
		if to.Rank() == promoRank {
			moves = append(moves,
				NewMove(from, to, Pawn, captured, Queen, flag),
				NewMove(from, to, Pawn, captured, Rook, flag),
				NewMove(from, to, Pawn, captured, Bishop, flag),
				NewMove(from, to, Pawn, captured, Knight, flag))
		} else {
			moves = append(moves, NewMove(from, to, Pawn, captured, NoPieceType, flag))
		}
	}
	appendQueenPromo := func(from, to Square, captured PieceType) {
		moves = append(moves, NewMove(from, to, Pawn, captured, Queen, FlagNone))
	}

	for bb := b.pieces[us][Pawn]; bb != 0; bb &= bb - 1 {
		from := Square(bits.TrailingZeros64(bb))
		fromBB := squareBB(from)
		mask := allowed
		if pinned&fromBB != 0 {
			mask &= pinLine[from]
		}

		// Pushes.
		one := Square(int(from) + up)
		if occ&squareBB(one) == 0 {
			if squareBB(one)&mask != 0 {
				if one.Rank() == promoRank {
					if filter == genCaptures {
						appendQueenPromo(from, one, NoPieceType)
					} else {
						appendPawn(from, one, NoPieceType, FlagNone)
					}
				} else if filter == genAll {
					appendPawn(from, one, NoPieceType, FlagNone)
				}
			}
			if from.Rank() == startRank {
				two := Square(int(from) + 2*up)
				if occ&squareBB(two) == 0 && squareBB(two)&mask != 0 && filter == genAll {
					moves = append(moves, NewMove(from, two, Pawn, NoPieceType, NoPieceType, FlagDoublePush))
				}
			}
		}

		// Captures.
		for t := pawnCaptures[us][from] & opp & mask; t != 0; t &= t - 1 {
			to := Square(bits.TrailingZeros64(t))
			appendPawn(from, to, b.squares[to].Type(), FlagNone)
		}
	}

	// En passant. Rare enough that full simulation is the cleanest way to
	// rule out both the horizontal discovered check and check evasion cases.
	if ep := b.epSquare; ep != NoSquare {
		capSq := Square(int(ep) - up)
		for f := pawnCaptures[them][ep] & b.pieces[us][Pawn]; f != 0; f &= f - 1 {
			from := Square(bits.TrailingZeros64(f))
			simOcc := occ&^squareBB(from)&^squareBB(capSq) | squareBB(ep)
			simBoard := *b
			simBoard.pieces[them][Pawn] &^= squareBB(capSq)
			simBoard.occupied[them] &^= squareBB(capSq)
			if !simBoard.isAttacked(b.KingSquare(us), them, simOcc) {
				moves = append(moves, NewMove(from, ep, Pawn, Pawn, NoPieceType, FlagEnPassant))
			}
		}
	}
	return moves
}

// Castling squares per (color, side): king from/to and the squares that must
// be empty and unattacked.
var castlingSpecs = [2][2]struct {
	right      CastlingRights
	kFrom, kTo Square
	empty      uint64 // squares between king and rook
	safe       uint64 // squares the king crosses, destination included
}{
	{
		{WhiteKingside, 4, 6, squareBB(5) | squareBB(6), squareBB(5) | squareBB(6)},
		{WhiteQueenside, 4, 2, squareBB(1) | squareBB(2) | squareBB(3), squareBB(2) | squareBB(3)},
	},
	{
		{BlackKingside, 60, 62, squareBB(61) | squareBB(62), squareBB(61) | squareBB(62)},
		{BlackQueenside, 60, 58, squareBB(57) | squareBB(58) | squareBB(59), squareBB(58) | squareBB(59)},
	},
}

func (b *Board) genCastling(moves []Move, occ uint64) []Move {
	us := b.stm
	them := us.Other()
	for _, spec := range castlingSpecs[us] {
		if b.castling&spec.right == 0 || occ&spec.empty != 0 {
			continue
		}
		attacked := false
		for s := spec.safe; s != 0; s &= s - 1 {
			if b.isAttacked(Square(bits.TrailingZeros64(s)), them, occ) {
				attacked = true
				break
			}
		}
		if !attacked {
			moves = append(moves, NewMove(spec.kFrom, spec.kTo, King, NoPieceType, NoPieceType, FlagCastle))
		}
	}
	return moves
}

// castleRookSquares returns the rook's from/to squares for a castling move.
func castleRookSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case 6:
		return 7, 5
	case 2:
		return 0, 3
	case 62:
		return 63, 61
	default: // 58
		return 56, 59
	}
}

// GivesCheck reports whether the (legal) move m checks the opponent, without
// mutating the board. Used by the search to flag tactical moves before
// deciding on reductions.
func (b *Board) GivesCheck(m Move) bool {
	us := b.stm
	them := us.Other()
	ksq := b.KingSquare(them)
	kingBB := squareBB(ksq)

	from, to := m.From(), m.To()
	occ := b.AllOccupied()&^squareBB(from) | squareBB(to)

	rq := (b.pieces[us][Rook] | b.pieces[us][Queen]) &^ squareBB(from)
	bq := (b.pieces[us][Bishop] | b.pieces[us][Queen]) &^ squareBB(from)

	switch m.Flag() {
	case FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		occ &^= squareBB(capSq)
	case FlagCastle:
		rFrom, rTo := castleRookSquares(to)
		occ = occ&^squareBB(rFrom) | squareBB(rTo)
		rq = rq&^squareBB(rFrom) | squareBB(rTo)
	}

	// Direct check from the destination square. Sliders are folded into the
	// rq/bq sets so one attack query covers direct and discovered checks.
	pt := m.Piece()
	if promo := m.Promotion(); promo != NoPieceType {
		pt = promo
	}
	switch pt {
	case Pawn:
		if pawnCaptures[us][to]&kingBB != 0 {
			return true
		}
	case Knight:
		if knightAttacks[to]&kingBB != 0 {
			return true
		}
	case Rook:
		rq |= squareBB(to)
	case Bishop:
		bq |= squareBB(to)
	case Queen:
		rq |= squareBB(to)
		bq |= squareBB(to)
	}

	// Slider checks, direct and discovered alike, fall out of one attack
	// query against the updated occupancy.
	if rq != 0 && RookAttacks(ksq, occ)&rq != 0 {
		return true
	}
	if bq != 0 && BishopAttacks(ksq, occ)&bq != 0 {
		return true
	}
	return false
}
