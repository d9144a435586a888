package engine

import "runtime"

// Config carries every engine knob. It is fixed at construction; the UCI
// front end maps setoption onto a Config before creating the Engine, so no
// search state lives in package globals and several engines can coexist in
// one process.
type Config struct {
	// HashMB is the transposition table size in mebibytes. Rounded down to
	// the nearest power-of-two entry count.
	HashMB int

	// Workers is the number of Lazy-SMP search goroutines.
	Workers int

	// MaxDepth caps iterative deepening.
	MaxDepth int

	// Pruning toggles. All default on; the search bench flips them
	// individually to measure their worth.
	NullMove        bool
	ReverseFutility bool
	Futility        bool
	LateMoves       bool

	// AspirationWindow is the half-width in centipawns of the initial
	// aspiration window around the previous iteration's score.
	AspirationWindow int32

	// MoveOverheadMS is subtracted from the clock budget to absorb
	// protocol and IO jitter.
	MoveOverheadMS int

	// PersistPath, when set, enables the Badger-backed analysis cache that
	// warm-starts the transposition table between sessions.
	PersistPath string
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		HashMB:           64,
		Workers:          runtime.NumCPU(),
		MaxDepth:         MaxDepth,
		NullMove:         true,
		ReverseFutility:  true,
		Futility:         true,
		LateMoves:        true,
		AspirationWindow: 35,
		MoveOverheadMS:   30,
	}
}

func (c Config) sanitized() Config {
	c.HashMB = Clamp(c.HashMB, 1, 4096)
	c.Workers = Clamp(c.Workers, 1, 128)
	if c.MaxDepth <= 0 || c.MaxDepth > MaxDepth {
		c.MaxDepth = MaxDepth
	}
	if c.AspirationWindow <= 0 {
		c.AspirationWindow = 35
	}
	if c.MoveOverheadMS < 0 {
		c.MoveOverheadMS = 0
	}
	return c
}
