package kinglymg

// Undo carries everything UnmakeMove needs to restore the position exactly.
// The piece movement itself is reversed from the move encoding; only the
// irreversible state is saved here.
type Undo struct {
	move     Move
	castling CastlingRights
	epSquare Square
	rule50   int
	hash     uint64
}

// NullUndo is the restore token for a null move.
type NullUndo struct {
	epSquare Square
	rule50   int
	hash     uint64
}

// castlingUpdate[sq] is ANDed into the rights whenever a move touches sq,
// clearing the rights that depend on the king or rook standing there.
var castlingUpdate [64]CastlingRights

func init() {
	for sq := range castlingUpdate {
		castlingUpdate[sq] = fullCastling
	}
	castlingUpdate[0] &^= WhiteQueenside  // a1
	castlingUpdate[7] &^= WhiteKingside   // h1
	castlingUpdate[4] &^= WhiteKingside | WhiteQueenside
	castlingUpdate[56] &^= BlackQueenside // a8
	castlingUpdate[63] &^= BlackKingside  // h8
	castlingUpdate[60] &^= BlackKingside | BlackQueenside
}

// MakeMove applies a move produced by the generator. Legality is the
// generator's responsibility; MakeMove never re-verifies it. The returned
// Undo restores the position via UnmakeMove.
func (b *Board) MakeMove(m Move) Undo {
	u := Undo{m, b.castling, b.epSquare, b.rule50, b.hash}
	us := b.stm
	from, to := m.From(), m.To()

	if b.epSquare != NoSquare {
		b.hash ^= zobristEPFile[b.epSquare.File()]
		b.epSquare = NoSquare
	}

	b.rule50++
	if m.Piece() == Pawn || m.IsCapture() {
		b.rule50 = 0
	}

	switch m.Flag() {
	case FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.removePiece(capSq)
		b.movePiece(from, to, MakePiece(us, Pawn))
	case FlagCastle:
		rFrom, rTo := castleRookSquares(to)
		b.movePiece(from, to, MakePiece(us, King))
		b.movePiece(rFrom, rTo, MakePiece(us, Rook))
	case FlagDoublePush:
		b.movePiece(from, to, MakePiece(us, Pawn))
		ep := (from + to) / 2
		b.epSquare = ep
		b.hash ^= zobristEPFile[ep.File()]
	default:
		if m.IsCapture() {
			b.removePiece(to)
		}
		if promo := m.Promotion(); promo != NoPieceType {
			b.removePiece(from)
			b.addPiece(to, MakePiece(us, promo))
		} else {
			b.movePiece(from, to, b.squares[from])
		}
	}

	if newCastling := b.castling & castlingUpdate[from] & castlingUpdate[to]; newCastling != b.castling {
		b.hash ^= zobristCastling[b.castling] ^ zobristCastling[newCastling]
		b.castling = newCastling
	}

	if us == Black {
		b.fullMove++
	}
	b.stm = us.Other()
	b.hash ^= zobristBlack
	return u
}

// UnmakeMove reverses the corresponding MakeMove. The incremental hash
// updates performed while moving pieces back are discarded in favor of the
// saved key.
func (b *Board) UnmakeMove(u Undo) {
	m := u.move
	b.stm = b.stm.Other()
	us := b.stm
	from, to := m.From(), m.To()

	switch m.Flag() {
	case FlagEnPassant:
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		b.movePiece(to, from, MakePiece(us, Pawn))
		b.addPiece(capSq, MakePiece(us.Other(), Pawn))
	case FlagCastle:
		rFrom, rTo := castleRookSquares(to)
		b.movePiece(to, from, MakePiece(us, King))
		b.movePiece(rTo, rFrom, MakePiece(us, Rook))
	default:
		if m.Promotion() != NoPieceType {
			b.removePiece(to)
			b.addPiece(from, MakePiece(us, Pawn))
		} else {
			b.movePiece(to, from, b.squares[to])
		}
		if cap := m.Captured(); cap != NoPieceType {
			b.addPiece(to, MakePiece(us.Other(), cap))
		}
	}

	if us == Black {
		b.fullMove--
	}
	b.castling = u.castling
	b.epSquare = u.epSquare
	b.rule50 = u.rule50
	b.hash = u.hash
}

// MakeNullMove passes the turn without moving a piece. Only valid when the
// side to move is not in check; the search uses it for null-move pruning.
func (b *Board) MakeNullMove() NullUndo {
	u := NullUndo{b.epSquare, b.rule50, b.hash}
	if b.epSquare != NoSquare {
		b.hash ^= zobristEPFile[b.epSquare.File()]
		b.epSquare = NoSquare
	}
	b.rule50++
	b.stm = b.stm.Other()
	b.hash ^= zobristBlack
	return u
}

// UnmakeNullMove reverses MakeNullMove.
func (b *Board) UnmakeNullMove(u NullUndo) {
	b.stm = b.stm.Other()
	b.epSquare = u.epSquare
	b.rule50 = u.rule50
	b.hash = u.hash
}
