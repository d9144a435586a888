package engine

import (
	"strings"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// PVLine accumulates the principal variation while the tree unwinds: each
// node prepends its best move to the child's line.
type PVLine struct {
	Moves []mg.Move
}

// Update sets the line to move followed by the child's line.
func (pv *PVLine) Update(move mg.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clear empties the line, keeping its storage.
func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Clone returns an independent copy.
func (pv *PVLine) Clone() PVLine {
	return PVLine{Moves: append([]mg.Move(nil), pv.Moves...)}
}

// BestMove returns the first move of the line, or NoMove when empty.
func (pv *PVLine) BestMove() mg.Move {
	if len(pv.Moves) == 0 {
		return mg.NoMove
	}
	return pv.Moves[0]
}

// String renders the line as space-separated UCI moves.
func (pv *PVLine) String() string {
	parts := make([]string, len(pv.Moves))
	for i, m := range pv.Moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
