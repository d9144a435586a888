package engine

import (
	"testing"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

func playUCI(t *testing.T, b *mg.Board, ss *stateStack, uci string) {
	t.Helper()
	m := b.FindMove(uci)
	if m == mg.NoMove {
		t.Fatalf("illegal move %s in %s", uci, b.FEN())
	}
	b.MakeMove(m)
	ss.push(b)
}

func TestStateStackTreeRepetition(t *testing.T) {
	b := mg.NewBoard()
	var ss stateStack
	ss.seed(nil, b)

	// Shuffle the knights out and back: the start position recurs entirely
	// inside the search tree, which already counts as a draw.
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		playUCI(t, b, &ss, uci)
	}
	if !ss.isDraw() {
		t.Error("in-tree repetition not scored as a draw")
	}
	if !ss.upcomingRepetition() {
		t.Error("upcomingRepetition missed the recurring position")
	}

	ss.pop()
	if ss.isDraw() {
		t.Error("draw reported one ply before the repetition")
	}
}

func TestStateStackGameHistoryNeedsThreefold(t *testing.T) {
	// Root position with a nonzero halfmove clock so positions from the game
	// history stay inside the reversible window.
	root, err := mg.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 8 5")
	if err != nil {
		t.Fatal(err)
	}
	rootHash := root.Hash()

	// One earlier occurrence before the root: a twofold with both instances
	// at or before the root is not yet a draw.
	var ss stateStack
	ss.seed([]uint64{rootHash, 0xaaaa, 0xbbbb}, root)
	if ss.isDraw() {
		t.Error("twofold before the root reported as a draw")
	}

	// The tree repeating it once more makes three occurrences.
	b := *root
	ss2 := stateStack{}
	ss2.seed([]uint64{0x1111, rootHash, 0x2222, 0x3333}, &b)
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		playUCI(t, &b, &ss2, uci)
	}
	if !ss2.isDraw() {
		t.Error("third occurrence of the position not scored as a draw")
	}
}

func TestStateStackFiftyMoveRule(t *testing.T) {
	b, err := mg.ParseFEN("7k/8/8/8/8/8/8/R6K w - - 99 80")
	if err != nil {
		t.Fatal(err)
	}
	var ss stateStack
	ss.seed(nil, b)
	if ss.isDraw() {
		t.Error("draw at 99 halfmoves")
	}

	playUCI(t, b, &ss, "h1g1")
	if !ss.isDraw() {
		t.Error("no draw at 100 halfmoves")
	}
}

func TestStateStackCaptureResetsWindow(t *testing.T) {
	b := mg.NewBoard()
	var ss stateStack
	ss.seed(nil, b)

	// A pawn move resets the reversible window, so the earlier positions no
	// longer count toward repetition.
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "e2e4"} {
		playUCI(t, b, &ss, uci)
	}
	if ss.isDraw() {
		t.Error("draw reported across an irreversible move")
	}
}
