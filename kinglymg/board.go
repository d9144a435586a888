// Package kinglymg implements the board representation and legal move
// generation for the Kingly chess engine: bitboard piece sets, an
// incrementally maintained Zobrist key, and pin/check-mask based move
// generation over software-PEXT indexed slider attack tables.
package kinglymg

import "math/bits"

// Color of a side. White moves first.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// PieceType is a colorless piece kind, usable directly as a bitboard index.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Piece packs a color and a piece type into one byte: type in the low three
// bits, color in bit 3. The empty-square sentinel NoPiece has type
// NoPieceType and must be tested for before using Color.
type Piece uint8

const NoPiece = Piece(NoPieceType)

// MakePiece combines a color and type into a Piece.
func MakePiece(c Color, pt PieceType) Piece { return Piece(uint8(pt) | uint8(c)<<3) }

// Type returns the colorless kind of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owning side. Only meaningful when p != NoPiece.
func (p Piece) Color() Color { return Color(p >> 3) }

// Square indexes the board a1=0 .. h8=63 (a1, b1, ..., h8).
type Square uint8

// NoSquare marks the absence of a square (e.g. no en-passant target).
const NoSquare Square = 64

// SquareFromCoords builds a square from file and rank in [0,7].
func SquareFromCoords(file, rank int) Square { return Square(rank*8 + file) }

// File returns the square's file in [0,7].
func (s Square) File() int { return int(s) & 7 }

// Rank returns the square's rank in [0,7].
func (s Square) Rank() int { return int(s) >> 3 }

func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

const fullCastling = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside

// Board is the complete position state. Boards are plain values: copying one
// yields an independent position, which is how search workers get their
// private root copies.
type Board struct {
	// One bitboard per (color, piece type) pair, plus per-side occupancy.
	pieces   [2][6]uint64
	occupied [2]uint64

	// Mailbox mirror of the bitboards, for O(1) piece-at-square lookups.
	squares [64]Piece

	stm      Color
	castling CastlingRights
	epSquare Square
	rule50   int
	fullMove int

	// Incrementally maintained Zobrist key over piece placement, side to
	// move, castling rights and en-passant file.
	hash uint64
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic("kinglymg: bad start FEN: " + err.Error())
	}
	return b
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.stm }

// Castling returns the current castling rights mask.
func (b *Board) Castling() CastlingRights { return b.castling }

// EnPassant returns the en-passant target square, or NoSquare.
func (b *Board) EnPassant() Square { return b.epSquare }

// Rule50 returns the halfmove clock for the fifty-move rule.
func (b *Board) Rule50() int { return b.rule50 }

// FullMove returns the fullmove counter (starts at 1, bumps after Black).
func (b *Board) FullMove() int { return b.fullMove }

// Hash returns the position's Zobrist key.
func (b *Board) Hash() uint64 { return b.hash }

// PieceAt returns the piece on sq, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

// Pieces returns the bitboard of one (color, type) piece set.
func (b *Board) Pieces(c Color, pt PieceType) uint64 { return b.pieces[c][pt] }

// Occupied returns the occupancy of one side.
func (b *Board) Occupied(c Color) uint64 { return b.occupied[c] }

// AllOccupied returns the union occupancy of both sides.
func (b *Board) AllOccupied() uint64 { return b.occupied[White] | b.occupied[Black] }

// KingSquare returns the square of c's king.
func (b *Board) KingSquare(c Color) Square {
	return Square(bits.TrailingZeros64(b.pieces[c][King]))
}

// InCheck reports whether the side to move's king is attacked.
func (b *Board) InCheck() bool {
	return b.isAttacked(b.KingSquare(b.stm), b.stm.Other(), b.AllOccupied())
}

// NonPawnMaterial reports whether side c has at least one piece that is
// neither a pawn nor the king. Null-move pruning is gated on this to stay
// clear of pawn-endgame zugzwang.
func (b *Board) NonPawnMaterial(c Color) bool {
	return b.pieces[c][Knight]|b.pieces[c][Bishop]|b.pieces[c][Rook]|b.pieces[c][Queen] != 0
}

func squareBB(sq Square) uint64 { return 1 << sq }

// popLSB removes the lowest set bit from *bb and returns its square.
func popLSB(bb *uint64) Square {
	sq := Square(bits.TrailingZeros64(*bb))
	*bb &= *bb - 1
	return sq
}

// addPiece places p on an empty square, updating bitboards, mailbox and hash.
func (b *Board) addPiece(sq Square, p Piece) {
	bit := squareBB(sq)
	c := p.Color()
	b.pieces[c][p.Type()] |= bit
	b.occupied[c] |= bit
	b.squares[sq] = p
	b.hash ^= zobristPiece[c][p.Type()][sq]
}

// removePiece clears sq, updating bitboards, mailbox and hash.
func (b *Board) removePiece(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	bit := squareBB(sq)
	c := p.Color()
	b.pieces[c][p.Type()] &^= bit
	b.occupied[c] &^= bit
	b.squares[sq] = NoPiece
	b.hash ^= zobristPiece[c][p.Type()][sq]
	return p
}

// movePiece shifts a piece between two empty-destination squares.
func (b *Board) movePiece(from, to Square, p Piece) {
	fromTo := squareBB(from) | squareBB(to)
	c := p.Color()
	b.pieces[c][p.Type()] ^= fromTo
	b.occupied[c] ^= fromTo
	b.squares[from] = NoPiece
	b.squares[to] = p
	b.hash ^= zobristPiece[c][p.Type()][from] ^ zobristPiece[c][p.Type()][to]
}

// Validate cross-checks the mailbox, the bitboards and the incremental hash
// against each other. Used by tests; returns true when consistent.
func (b *Board) Validate() bool {
	var pieces [2][6]uint64
	var occ [2]uint64
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		pieces[p.Color()][p.Type()] |= squareBB(sq)
		occ[p.Color()] |= squareBB(sq)
	}
	if pieces != b.pieces || occ != b.occupied {
		return false
	}
	if b.occupied[White]&b.occupied[Black] != 0 {
		return false
	}
	if bits.OnesCount64(b.pieces[White][King]) != 1 || bits.OnesCount64(b.pieces[Black][King]) != 1 {
		return false
	}
	return b.hash == b.ComputeHash()
}
