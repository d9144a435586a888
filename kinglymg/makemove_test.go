package kinglymg

import (
	"math/rand"
	"testing"
)

// Random-walk a few hundred games, verifying after every make that the
// board stays internally consistent and after every unmake that the
// position is restored bit for bit.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for game := 0; game < 200; game++ {
		b := NewBoard()
		startFEN := b.FEN()
		startHash := b.Hash()

		var undos []Undo
		for ply := 0; ply < 80; ply++ {
			moves := b.GenerateMoves()
			if len(moves) == 0 {
				break
			}
			m := moves[rnd.Intn(len(moves))]
			undos = append(undos, b.MakeMove(m))

			if !b.Validate() {
				t.Fatalf("game %d ply %d: inconsistent board after %s\n%s", game, ply, m, b)
			}
		}

		for i := len(undos) - 1; i >= 0; i-- {
			b.UnmakeMove(undos[i])
		}
		if got := b.FEN(); got != startFEN {
			t.Fatalf("game %d: unmake did not restore position\ngot  %s\nwant %s", game, got, startFEN)
		}
		if b.Hash() != startHash {
			t.Fatalf("game %d: unmake did not restore hash", game)
		}
	}
}

func TestMakeMoveSpecialCases(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want string // expected FEN after the move
	}{
		{
			name: "white kingside castle",
			fen:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
			move: "e1g1",
			want: "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R4RK1 b kq - 1 1",
		},
		{
			name: "black queenside castle",
			fen:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R4RK1 b kq - 1 1",
			move: "e8c8",
			want: "2kr3r/pppppppp/8/8/8/8/PPPPPPPP/R4RK1 w - - 2 2",
		},
		{
			name: "en passant capture",
			fen:  "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
			move: "e5f6",
			want: "rnbqkbnr/ppp1p1pp/5P2/3p4/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 3",
		},
		{
			name: "underpromotion with capture",
			fen:  "rnbq1bnr/ppppkP1p/8/4p3/8/8/PPPP1PPP/RNBQKBNR w KQ - 1 5",
			move: "f7g8n",
			want: "rnbq1bNr/ppppk2p/8/4p3/8/8/PPPP1PPP/RNBQKBNR b KQ - 0 5",
		},
		{
			name: "rook capture clears castling right",
			fen:  "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			move: "a1a8",
			want: "R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			m := b.FindMove(tc.move)
			if m == NoMove {
				t.Fatalf("move %s not legal in %s", tc.move, tc.fen)
			}
			u := b.MakeMove(m)
			if got := b.FEN(); got != tc.want {
				t.Errorf("after %s:\ngot  %s\nwant %s", tc.move, got, tc.want)
			}
			if !b.Validate() {
				t.Error("board inconsistent after move")
			}
			b.UnmakeMove(u)
			if got := b.FEN(); got != tc.fen {
				t.Errorf("unmake:\ngot  %s\nwant %s", got, tc.fen)
			}
		})
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b KQkq - 0 1",
	}
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		before := b.FEN()
		hash := b.Hash()

		u := b.MakeNullMove()
		if b.SideToMove() == mustParse(t, fen).SideToMove() {
			t.Error("null move did not flip the side to move")
		}
		if b.EnPassant() != NoSquare {
			t.Error("null move did not clear the en passant square")
		}
		if b.Hash() == hash {
			t.Error("null move did not change the hash")
		}

		b.UnmakeNullMove(u)
		if b.FEN() != before || b.Hash() != hash {
			t.Errorf("null unmake did not restore %s", fen)
		}
	}
}

func TestIncrementalHashMatchesRecompute(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	b := NewBoard()

	for ply := 0; ply < 400; ply++ {
		moves := b.GenerateMoves()
		if len(moves) == 0 {
			break
		}
		b.MakeMove(moves[rnd.Intn(len(moves))])
		if b.Hash() != b.ComputeHash() {
			t.Fatalf("ply %d: incremental hash diverged\n%s", ply, b)
		}
	}
}

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}
