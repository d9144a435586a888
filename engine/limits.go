package engine

import "time"

// Limits describes one search budget. Zero values mean "unbounded" for that
// axis; Infinite overrides the clock fields and leaves only Stop (or context
// cancellation) to end the search.
type Limits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration

	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration
	MovesToGo int

	Infinite bool
}

// usesClock reports whether the limits involve wall-clock budgeting.
func (l Limits) usesClock() bool {
	if l.Infinite {
		return false
	}
	return l.MoveTime > 0 || l.WhiteTime > 0 || l.BlackTime > 0
}
