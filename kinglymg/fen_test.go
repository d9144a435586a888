package kinglymg

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"4k3/8/8/8/8/8/8/4K2R w K - 37 102",
		"4k3/8/8/8/8/8/8/4K3 b - - 99 50",
	}
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		if err != nil {
			t.Errorf("ParseFEN(%q): %v", fen, err)
			continue
		}
		if got := b.FEN(); got != fen {
			t.Errorf("round trip:\ngot  %s\nwant %s", got, fen)
		}
		if !b.Validate() {
			t.Errorf("%s: board fails validation", fen)
		}
	}
}

func TestParseFENDefaultsClocks(t *testing.T) {
	b, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - -")
	if err != nil {
		t.Fatal(err)
	}
	if b.Rule50() != 0 || b.FullMove() != 1 {
		t.Errorf("got rule50=%d fullmove=%d, want 0 and 1", b.Rule50(), b.FullMove())
	}
}

func TestParseFENErrors(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"too few fields", "4k3/8/8/8/8/8/8/4K3 w"},
		{"short rank", "4k3/8/8/8/8/8/8/4K2 w - - 0 1"},
		{"overfull rank", "4k3/8/8/8/8/8/8/4K3R w - - 0 1"},
		{"bad piece char", "4k3/8/8/8/8/8/8/4X3 w - - 0 1"},
		{"missing rank", "4k3/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side to move", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w KX - 0 1"},
		{"bad ep square", "4k3/8/8/8/8/8/8/4K3 w - e9 0 1"},
		{"ep on wrong rank", "4k3/8/8/8/8/8/8/4K3 w - e4 0 1"},
		{"bad halfmove clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
		{"bad fullmove number", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
		{"missing white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"missing black king", "8/8/8/8/8/8/8/4K3 w - - 0 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); err == nil {
				t.Errorf("ParseFEN(%q) accepted a malformed record", tc.fen)
			}
		})
	}
}

func TestBoardStringContainsFEN(t *testing.T) {
	b := NewBoard()
	s := b.String()
	if len(s) == 0 || s[len(s)-len(StartFEN):] != StartFEN {
		t.Errorf("String() should end with the FEN record:\n%s", s)
	}
}
