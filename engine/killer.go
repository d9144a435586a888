package engine

import (
	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// KillerTable holds two quiet moves per ply that recently caused beta
// cutoffs. Each searcher owns its own table; killers are never shared
// between workers.
type KillerTable struct {
	moves [maxPly + 1][2]mg.Move
}

// Insert records a killer at ply, shifting the previous first killer down.
func (k *KillerTable) Insert(move mg.Move, ply int) {
	if move != k.moves[ply][0] {
		k.moves[ply][1] = k.moves[ply][0]
		k.moves[ply][0] = move
	}
}

// IsKiller reports whether move is one of the killers at ply.
func (k *KillerTable) IsKiller(move mg.Move, ply int) bool {
	return move == k.moves[ply][0] || move == k.moves[ply][1]
}

// Clear wipes the table.
func (k *KillerTable) Clear() {
	for ply := range k.moves {
		k.moves[ply][0] = mg.NoMove
		k.moves[ply][1] = mg.NoMove
	}
}
