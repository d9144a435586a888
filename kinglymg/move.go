package kinglymg

// Move packs a full move description into 32 bits:
//
//	bits  0-5   origin square
//	bits  6-11  destination square
//	bits 12-14  moved piece type
//	bits 15-17  captured piece type (NoPieceType when quiet)
//	bits 18-20  promotion piece type (NoPieceType when none)
//	bits 21-22  special flag (double push, en passant, castle)
//
// The zero value NoMove is not a legal move and serves as the sentinel.
type Move uint32

const NoMove Move = 0

// MoveFlag distinguishes the special move kinds that make/unmake must treat
// differently. Plain captures are identified by the captured field instead.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagDoublePush
	FlagEnPassant
	FlagCastle
)

// NewMove assembles a move from its parts.
func NewMove(from, to Square, piece, captured, promo PieceType, flag MoveFlag) Move {
	return Move(uint32(from) |
		uint32(to)<<6 |
		uint32(piece)<<12 |
		uint32(captured)<<15 |
		uint32(promo)<<18 |
		uint32(flag)<<21)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> 6 & 0x3F) }

// Piece returns the moved piece type.
func (m Move) Piece() PieceType { return PieceType(m >> 12 & 7) }

// Captured returns the captured piece type, or NoPieceType.
func (m Move) Captured() PieceType { return PieceType(m >> 15 & 7) }

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType { return PieceType(m >> 18 & 7) }

// Flag returns the special move flag.
func (m Move) Flag() MoveFlag { return MoveFlag(m >> 21 & 3) }

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool { return m.Captured() != NoPieceType }

// IsQuiet reports whether the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool { return !m.IsCapture() && m.Promotion() == NoPieceType }

var promoChars = [6]byte{0, 'n', 'b', 'r', 'q', 0}

// String renders the move in UCI coordinate notation (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPieceType {
		s += string(promoChars[p])
	}
	return s
}

// FindMove resolves a UCI coordinate string against the legal moves of b.
// Returns NoMove if the string does not name a legal move. The protocol
// front end owns parsing; this is the boundary into engine move values.
func (b *Board) FindMove(uci string) Move {
	if len(uci) < 4 || len(uci) > 5 {
		return NoMove
	}
	from := SquareFromCoords(int(uci[0]-'a'), int(uci[1]-'1'))
	to := SquareFromCoords(int(uci[2]-'a'), int(uci[3]-'1'))
	promo := NoPieceType
	if len(uci) == 5 {
		switch uci[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove
		}
	}
	for _, m := range b.GenerateMoves() {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m
		}
	}
	return NoMove
}
