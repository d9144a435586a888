package engine

import (
	"testing"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

func parse(t *testing.T, fen string) *mg.Board {
	t.Helper()
	b, err := mg.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

// Mirror-symmetric positions must evaluate the same for either side to move.
func TestEvaluateSymmetry(t *testing.T) {
	pairs := [][2]string{
		{
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			"4k3/4p3/8/8/8/8/4P3/4K3 w - - 0 1",
			"4k3/4p3/8/8/8/8/4P3/4K3 b - - 0 1",
		},
		{
			"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
		},
	}
	for _, p := range pairs {
		w := Evaluate(parse(t, p[0]))
		b := Evaluate(parse(t, p[1]))
		if w != b {
			t.Errorf("symmetric position evaluates %d for white, %d for black\n%s", w, b, p[0])
		}
	}
}

func TestEvaluateMaterialSign(t *testing.T) {
	// White is up a queen; the score must be clearly positive for White and
	// clearly negative for Black.
	up := "4k3/8/8/8/8/8/8/3QK3 w - - 0 1"
	if s := Evaluate(parse(t, up)); s < 500 {
		t.Errorf("queen up evaluates to %d for the side owning it", s)
	}
	down := "4k3/8/8/8/8/8/8/3QK3 b - - 0 1"
	if s := Evaluate(parse(t, down)); s > -500 {
		t.Errorf("queen down evaluates to %d for the side facing it", s)
	}
}

func TestGamePhase(t *testing.T) {
	if p := GamePhase(mg.NewBoard()); p != 24 {
		t.Errorf("starting position phase = %d, want 24", p)
	}
	if p := GamePhase(parse(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")); p != 0 {
		t.Errorf("bare kings phase = %d, want 0", p)
	}
	if p := GamePhase(parse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")); p != 2 {
		t.Errorf("lone rook phase = %d, want 2", p)
	}
}

func TestFormatScore(t *testing.T) {
	cases := []struct {
		score int32
		want  string
	}{
		{0, "cp 0"},
		{-42, "cp -42"},
		{MaxScore - 3, "mate 2"},
		{-(MaxScore - 4), "mate -2"},
	}
	for _, tc := range cases {
		if got := FormatScore(tc.score); got != tc.want {
			t.Errorf("FormatScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
