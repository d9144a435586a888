package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Min returns the smaller of x or y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}
	return y
}

// Max returns the larger of x or y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts v to the inclusive range [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// FormatScore renders a score in UCI terms: "cp N", or "mate N" once the
// score crosses the mate threshold (N in full moves, negative when the side
// to move is getting mated).
func FormatScore(score int32) string {
	if score >= Checkmate {
		return fmt.Sprintf("mate %d", (int(MaxScore-score)+1)/2)
	}
	if score <= -Checkmate {
		return fmt.Sprintf("mate %d", -(int(MaxScore+score)+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}
