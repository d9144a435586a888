package engine

import (
	"testing"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

func newTestSearcher(t *testing.T, fen string) *searcher {
	t.Helper()
	b, err := mg.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	s := &searcher{
		board: *b,
		cfg:   &cfg,
		tt:    NewTransTable(1),
	}
	s.states.seed(nil, &s.board)
	return s
}

func TestScoreMovesTiers(t *testing.T) {
	// White can capture the queen with a pawn, capture a knight, promote, or
	// shuffle quietly.
	s := newTestSearcher(t, "3n3k/4P3/8/1q6/P7/8/8/7K w - - 0 1")
	moves := s.board.GenerateMoves()
	ttMove := s.board.FindMove("a4b5") // pretend the pawn capture is the TT move
	if ttMove == mg.NoMove {
		t.Fatal("a4b5 not legal")
	}

	ml := s.scoreMoves(moves, 0, ttMove, mg.NoMove)
	scoreOf := func(uci string) uint16 {
		for _, sm := range ml.moves {
			if sm.move.String() == uci {
				return sm.score
			}
		}
		t.Fatalf("move %s not in list", uci)
		return 0
	}

	if got := scoreOf("a4b5"); got != ttMoveScore {
		t.Errorf("TT move scored %d, want %d", got, ttMoveScore)
	}
	if got := scoreOf("e7d8q"); got < promotionOffset {
		t.Errorf("queen promotion scored %d, below the promotion tier", got)
	}
	if got := scoreOf("h1h2"); got >= killerOffset {
		t.Errorf("quiet king move scored %d, above the quiet tier", got)
	}
	// Promotion capture outranks every plain capture tier.
	if scoreOf("e7d8q") <= captureOffset+mvvLva[mg.Queen][mg.Pawn] {
		t.Error("promotion does not outrank plain captures")
	}
}

func TestScoreMovesKillersAndCounters(t *testing.T) {
	s := newTestSearcher(t, mg.StartFEN)
	moves := s.board.GenerateMoves()

	killer := s.board.FindMove("g1f3")
	counter := s.board.FindMove("b1c3")
	prev := s.board.FindMove("e2e4") // stands in for the opponent's last move
	s.killers.Insert(killer, 0)
	s.storeCounter(prev, counter)

	ml := s.scoreMoves(moves, 0, mg.NoMove, prev)
	var killerScore, counterScore, plainScore uint16
	for _, sm := range ml.moves {
		switch sm.move {
		case killer:
			killerScore = sm.score
		case counter:
			counterScore = sm.score
		default:
			if sm.score > plainScore {
				plainScore = sm.score
			}
		}
	}
	if killerScore <= counterScore {
		t.Errorf("killer (%d) must outrank counter move (%d)", killerScore, counterScore)
	}
	if counterScore <= plainScore {
		t.Errorf("counter move (%d) must outrank plain quiets (%d)", counterScore, plainScore)
	}
}

func TestOrderNextMoveSelectsDescending(t *testing.T) {
	ml := moveList{moves: []scoredMove{
		{move: 1, score: 5},
		{move: 2, score: 300},
		{move: 3, score: 40},
		{move: 4, score: 7000},
	}}
	var got []uint16
	for i := 0; i < len(ml.moves); i++ {
		orderNextMove(i, &ml)
		got = append(got, ml.moves[i].score)
	}
	want := []uint16{7000, 300, 40, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pick order %v, want %v", got, want)
		}
	}
}

func TestHistoryAging(t *testing.T) {
	s := newTestSearcher(t, mg.StartFEN)
	m := s.board.FindMove("g1f3")

	for i := 0; i < 200; i++ {
		s.bumpHistory(m, 10)
	}
	us := s.board.SideToMove()
	if h := s.history[us][m.From()][m.To()]; h >= historyMax {
		t.Errorf("history %d not aged below the cap %d", h, historyMax)
	}

	for i := 0; i < 500; i++ {
		s.punishHistory(m, 10)
	}
	if h := s.history[us][m.From()][m.To()]; h < 0 {
		t.Errorf("history underflowed to %d", h)
	}
}

func TestKillerTable(t *testing.T) {
	var k KillerTable
	b := mg.NewBoard()
	m1 := b.GenerateMoves()[0]
	m2 := b.GenerateMoves()[1]
	m3 := b.GenerateMoves()[2]

	k.Insert(m1, 3)
	k.Insert(m2, 3)
	if !k.IsKiller(m1, 3) || !k.IsKiller(m2, 3) {
		t.Error("both recent killers should be kept")
	}
	if k.IsKiller(m1, 4) {
		t.Error("killer leaked to another ply")
	}

	// Re-inserting the first killer must not clobber the second slot.
	k.Insert(m2, 3)
	if !k.IsKiller(m1, 3) {
		t.Error("re-inserting the current killer evicted the other slot")
	}

	k.Insert(m3, 3)
	if k.IsKiller(m1, 3) {
		t.Error("oldest killer should have been evicted")
	}

	k.Clear()
	if k.IsKiller(m2, 3) || k.IsKiller(m3, 3) {
		t.Error("Clear left killers behind")
	}
}

func TestPVLine(t *testing.T) {
	b := mg.NewBoard()
	m1 := b.GenerateMoves()[0]
	m2 := b.GenerateMoves()[1]

	var child, pv PVLine
	child.Update(m2, PVLine{})
	pv.Update(m1, child)

	if pv.BestMove() != m1 || len(pv.Moves) != 2 || pv.Moves[1] != m2 {
		t.Errorf("PV = %v, want [%s %s]", pv.Moves, m1, m2)
	}

	clone := pv.Clone()
	pv.Clear()
	if pv.BestMove() != mg.NoMove {
		t.Error("Clear left a best move")
	}
	if clone.BestMove() != m1 {
		t.Error("Clone shares storage with the original")
	}
	if clone.String() != m1.String()+" "+m2.String() {
		t.Errorf("String() = %q", clone.String())
	}
}
