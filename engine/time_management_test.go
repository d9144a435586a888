package engine

import (
	"testing"
	"time"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

func TestTimeHandlerNoDeadlinesWithoutClock(t *testing.T) {
	var th TimeHandler
	for _, l := range []Limits{
		{Depth: 10},
		{Nodes: 1 << 20},
		{Infinite: true},
		{Infinite: true, WhiteTime: time.Second}, // infinite overrides the clock
	} {
		th.Setup(l, mg.White, 24, 30)
		if th.SoftExceeded() || th.HardExceeded() {
			t.Errorf("limits %+v produced a deadline", l)
		}
	}
}

func TestTimeHandlerMoveTime(t *testing.T) {
	var th TimeHandler
	th.Setup(Limits{MoveTime: time.Second}, mg.White, 24, 30)

	if th.SoftExceeded() || th.HardExceeded() {
		t.Error("deadline tripped immediately after setup")
	}
	soft, hard := th.soft.Load(), th.hard.Load()
	if soft != hard {
		t.Error("movetime should pin soft and hard deadlines together")
	}
	budget := time.Duration(soft - th.start.UnixNano())
	if budget <= 0 || budget > time.Second {
		t.Errorf("budget %v out of range for movetime 1s", budget)
	}
}

func TestTimeHandlerClockBudget(t *testing.T) {
	var th TimeHandler
	th.Setup(Limits{WhiteTime: time.Minute, WhiteInc: time.Second}, mg.White, 24, 30)

	soft := time.Duration(th.soft.Load() - th.start.UnixNano())
	hard := time.Duration(th.hard.Load() - th.start.UnixNano())
	if soft <= 0 || hard < soft {
		t.Fatalf("bad deadlines: soft %v hard %v", soft, hard)
	}
	// Neither deadline may commit most of the clock to a single move.
	if hard > 42*time.Second {
		t.Errorf("hard deadline %v eats more than 70%% of the clock", hard)
	}

	// The black clock fields must be used when Black is to move.
	th.Setup(Limits{WhiteTime: time.Millisecond, BlackTime: time.Minute}, mg.Black, 24, 30)
	soft = time.Duration(th.soft.Load() - th.start.UnixNano())
	if soft < 100*time.Millisecond {
		t.Errorf("black to move got the white budget: %v", soft)
	}
}

func TestTimeHandlerPanicMode(t *testing.T) {
	var th TimeHandler
	// Under a second on the clock: live off the increment.
	th.Setup(Limits{WhiteTime: 500 * time.Millisecond, WhiteInc: 2 * time.Second}, mg.White, 24, 0)

	soft := time.Duration(th.soft.Load() - th.start.UnixNano())
	if soft > 500*time.Millisecond*7/10 {
		t.Errorf("panic-mode budget %v exceeds what the clock can afford", soft)
	}
}

func TestTimeHandlerExtension(t *testing.T) {
	var th TimeHandler
	th.Setup(Limits{MoveTime: time.Minute}, mg.White, 24, 0)
	// Hard is pinned to soft under movetime; use a clock setup instead.
	th.Setup(Limits{WhiteTime: time.Minute}, mg.White, 24, 0)

	b := mg.NewBoard()
	m1 := b.GenerateMoves()[0]
	m2 := b.GenerateMoves()[1]

	soft := th.soft.Load()

	// An unstable best move earns an extension.
	th.UpdateStability(10, m1)
	th.UpdateStability(-40, m2)
	th.MaybeExtend()
	if th.soft.Load() <= soft {
		t.Error("unstable search did not extend the soft deadline")
	}

	// A stable best move does not.
	soft = th.soft.Load()
	th.UpdateStability(-35, m2)
	th.MaybeExtend()
	if th.soft.Load() != soft {
		t.Error("stable search extended the soft deadline")
	}

	// At most two extensions per search.
	th.UpdateStability(100, m1)
	th.MaybeExtend()
	th.UpdateStability(-100, m2)
	th.MaybeExtend()
	soft = th.soft.Load()
	th.UpdateStability(100, m1)
	th.MaybeExtend()
	if th.soft.Load() != soft {
		t.Error("more than two extensions granted")
	}

	if h := th.hard.Load(); th.soft.Load() > h {
		t.Error("soft deadline extended past the hard deadline")
	}
}

func TestEstimateMovesRemaining(t *testing.T) {
	if got := estimateMovesRemaining(24); got != 45 {
		t.Errorf("full board: %d moves remaining, want 45", got)
	}
	if got := estimateMovesRemaining(0); got != 20 {
		t.Errorf("bare endgame: %d moves remaining, want 20", got)
	}
}
