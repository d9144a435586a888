package engine

import (
	"sync/atomic"
	"time"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// TimeHandler turns clock limits into a soft and a hard deadline. The soft
// deadline decides whether another iteration is worth starting; the hard
// deadline aborts the search mid-tree. Deadlines are atomic unix-nano values
// so every worker may poll them while the coordinator extends the soft one.
type TimeHandler struct {
	soft atomic.Int64 // 0 means no deadline
	hard atomic.Int64

	start      time.Time
	baseSoft   time.Duration
	extensions int

	lastScore int32
	lastMove  mg.Move
	stability int
}

// Setup derives the deadlines from the limits for the given side. Depth,
// node and infinite searches get no deadlines at all.
func (th *TimeHandler) Setup(limits Limits, stm mg.Color, phase int32, overheadMS int) {
	th.start = time.Now()
	th.soft.Store(0)
	th.hard.Store(0)
	th.extensions = 0
	th.stability = 0
	th.lastMove = mg.NoMove

	if !limits.usesClock() {
		return
	}

	overhead := time.Duration(overheadMS) * time.Millisecond

	if limits.MoveTime > 0 {
		budget := max(limits.MoveTime-overhead, 5*time.Millisecond)
		th.baseSoft = budget
		th.soft.Store(th.start.Add(budget).UnixNano())
		th.hard.Store(th.start.Add(budget).UnixNano())
		return
	}

	rem, inc := limits.WhiteTime, limits.WhiteInc
	if stm == mg.Black {
		rem, inc = limits.BlackTime, limits.BlackInc
	}

	movesLeft := estimateMovesRemaining(phase)
	if limits.MovesToGo > 0 {
		movesLeft = limits.MovesToGo
	}

	var budget time.Duration
	if inc > 0 && rem < time.Second {
		// Panic mode: live off the increment and bank a little.
		budget = inc * 9 / 10
	} else {
		budget = rem/time.Duration(movesLeft) + inc*3/4
	}

	// Never commit more than most of the remaining clock.
	budget = min(budget, rem*7/10)
	budget = max(budget-overhead, 5*time.Millisecond)

	hard := min(budget*5/2, rem*7/10)
	hard = max(hard, budget)

	th.baseSoft = budget
	th.soft.Store(th.start.Add(budget).UnixNano())
	th.hard.Store(th.start.Add(hard).UnixNano())
}

// estimateMovesRemaining interpolates between 20 moves (bare endgame) and 45
// (full board) from the material phase.
func estimateMovesRemaining(phase int32) int {
	return int(phase*25)/24 + 20
}

// SoftExceeded reports whether a new iteration should not be started.
func (th *TimeHandler) SoftExceeded() bool {
	s := th.soft.Load()
	return s != 0 && time.Now().UnixNano() >= s
}

// HardExceeded reports whether the search must stop immediately. Polled from
// the node-count check inside every worker.
func (th *TimeHandler) HardExceeded() bool {
	h := th.hard.Load()
	return h != 0 && time.Now().UnixNano() >= h
}

// Elapsed returns the time since Setup.
func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.start)
}

// UpdateStability feeds the finished iteration's score and best move into
// the stability tracker.
func (th *TimeHandler) UpdateStability(score int32, best mg.Move) {
	if best == th.lastMove && abs(score-th.lastScore) < 30 {
		th.stability++
	} else {
		th.stability = 0
	}
	th.lastScore = score
	th.lastMove = best
}

// MaybeExtend pushes the soft deadline out when the best move keeps
// flipping, up to twice per search. The hard deadline never moves.
func (th *TimeHandler) MaybeExtend() {
	if th.soft.Load() == 0 || th.stability > 0 || th.extensions >= 2 {
		return
	}
	th.extensions++
	newSoft := th.soft.Load() + int64(th.baseSoft/3)
	if h := th.hard.Load(); h != 0 && newSoft > h {
		newSoft = h
	}
	th.soft.Store(newSoft)
}
