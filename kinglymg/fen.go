package kinglymg

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[byte]Piece{
	'P': MakePiece(White, Pawn), 'N': MakePiece(White, Knight), 'B': MakePiece(White, Bishop),
	'R': MakePiece(White, Rook), 'Q': MakePiece(White, Queen), 'K': MakePiece(White, King),
	'p': MakePiece(Black, Pawn), 'n': MakePiece(Black, Knight), 'b': MakePiece(Black, Bishop),
	'r': MakePiece(Black, Rook), 'q': MakePiece(Black, Queen), 'k': MakePiece(Black, King),
}

var pieceChars = [2][6]byte{
	{'P', 'N', 'B', 'R', 'Q', 'K'},
	{'p', 'n', 'b', 'r', 'q', 'k'},
}

// ParseFEN builds a board from a FEN record. The halfmove clock and fullmove
// number fields may be omitted and default to 0 and 1.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.Errorf("fen: expected at least 4 fields, got %d", len(fields))
	}

	b := &Board{epSquare: NoSquare, fullMove: 1}
	for sq := range b.squares {
		b.squares[sq] = NoPiece
	}

	rank, file := 7, 0
	for i := 0; i < len(fields[0]); i++ {
		switch ch := fields[0][i]; {
		case ch == '/':
			if file != 8 {
				return nil, errors.Errorf("fen: rank %d has %d files", rank+1, file)
			}
			rank, file = rank-1, 0
		case ch >= '1' && ch <= '8':
			file += int(ch - '0')
		default:
			p, ok := fenPieces[ch]
			if !ok {
				return nil, errors.Errorf("fen: bad piece char %q", ch)
			}
			if rank < 0 || file > 7 {
				return nil, errors.New("fen: piece placement overflows the board")
			}
			b.addPiece(SquareFromCoords(file, rank), p)
			file++
		}
	}
	if rank != 0 || file != 8 {
		return nil, errors.New("fen: incomplete piece placement")
	}

	switch fields[1] {
	case "w":
		b.stm = White
	case "b":
		b.stm = Black
	default:
		return nil, errors.Errorf("fen: bad side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castling |= WhiteKingside
			case 'Q':
				b.castling |= WhiteQueenside
			case 'k':
				b.castling |= BlackKingside
			case 'q':
				b.castling |= BlackQueenside
			default:
				return nil, errors.Errorf("fen: bad castling field %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		if len(fields[3]) != 2 || fields[3][0] < 'a' || fields[3][0] > 'h' ||
			(fields[3][1] != '3' && fields[3][1] != '6') {
			return nil, errors.Errorf("fen: bad en passant square %q", fields[3])
		}
		b.epSquare = SquareFromCoords(int(fields[3][0]-'a'), int(fields[3][1]-'1'))
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, errors.Errorf("fen: bad halfmove clock %q", fields[4])
		}
		b.rule50 = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, errors.Errorf("fen: bad fullmove number %q", fields[5])
		}
		b.fullMove = n
	}

	if b.pieces[White][King] == 0 || b.pieces[Black][King] == 0 {
		return nil, errors.New("fen: both sides need a king")
	}

	b.hash = b.ComputeHash()
	return b, nil
}

// FEN renders the position as a FEN record.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[SquareFromCoords(file, rank)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pieceChars[p.Color()][p.Type()])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.stm == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if b.castling == 0 {
		sb.WriteByte('-')
	} else {
		for i, ch := range []byte{'K', 'Q', 'k', 'q'} {
			if b.castling&(1<<i) != 0 {
				sb.WriteByte(ch)
			}
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.epSquare.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.rule50))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMove))
	return sb.String()
}

// String renders the board as an 8x8 diagram with the FEN below, for logs
// and debugging.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte('1' + byte(rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			p := b.squares[SquareFromCoords(file, rank)]
			if p == NoPiece {
				sb.WriteString(" .")
			} else {
				sb.WriteByte(' ')
				sb.WriteByte(pieceChars[p.Color()][p.Type()])
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	sb.WriteString(b.FEN())
	return sb.String()
}
