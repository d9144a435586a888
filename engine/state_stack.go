package engine

import (
	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

const fiftyMoveLimit = 100

// positionState is one entry of the repetition history: the Zobrist key and
// the halfmove clock when the position arose.
type positionState struct {
	hash   uint64
	rule50 int
}

// stateStack tracks the positions between the game start (or last
// irreversible move known to the front end) and the current search node.
// Entries below rootIndex come from the actual game; entries above it are
// search-local. Each searcher owns its own stack.
type stateStack struct {
	states    []positionState
	rootIndex int
}

// seed installs the pre-search game history and marks the last entry as the
// search root.
func (ss *stateStack) seed(history []uint64, b *mg.Board) {
	ss.states = ss.states[:0]
	for _, h := range history {
		ss.states = append(ss.states, positionState{hash: h})
	}
	if n := len(ss.states); n == 0 || ss.states[n-1].hash != b.Hash() {
		ss.states = append(ss.states, positionState{hash: b.Hash()})
	}
	ss.states[len(ss.states)-1].rule50 = b.Rule50()
	ss.rootIndex = len(ss.states) - 1
}

func (ss *stateStack) push(b *mg.Board) {
	ss.states = append(ss.states, positionState{hash: b.Hash(), rule50: b.Rule50()})
}

func (ss *stateStack) pop() {
	ss.states = ss.states[:len(ss.states)-1]
}

// isDraw reports a fifty-move draw, a true threefold repetition, or a
// repetition of any position inside the current search tree. A single
// repetition within the tree already scores as a draw: if one side can
// force the position to recur, neither can be making progress.
func (ss *stateStack) isDraw() bool {
	curr := ss.states[len(ss.states)-1]
	if curr.rule50 >= fiftyMoveLimit {
		return true
	}
	count, firstIdx := ss.repetitionInfo(curr.hash, curr.rule50)
	if count >= 2 {
		return true
	}
	return count >= 1 && firstIdx >= ss.rootIndex
}

// upcomingRepetition reports whether the current position already occurred
// inside the search tree; the search raises alpha to the draw score in that
// case rather than walking the cycle again.
func (ss *stateStack) upcomingRepetition() bool {
	curr := ss.states[len(ss.states)-1]
	start := max(len(ss.states)-1-curr.rule50, 0)
	for i := len(ss.states) - 2; i >= start; i-- {
		if ss.states[i].hash == curr.hash && i >= ss.rootIndex {
			return true
		}
	}
	return false
}

// repetitionInfo counts earlier occurrences of hash within the reversible
// window and returns the index of the first one (-1 if none).
func (ss *stateStack) repetitionInfo(hash uint64, rule50 int) (count, firstIdx int) {
	firstIdx = -1
	start := max(len(ss.states)-1-rule50, 0)
	for i := start; i <= len(ss.states)-2; i++ {
		if ss.states[i].hash == hash {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}
	return count, firstIdx
}
