package kinglymg

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Move buffers are reused per ply so a full run performs no per-node
// allocation.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return b.perft(depth, bufs)
}

func (b *Board) perft(depth int, bufs [][]Move) uint64 {
	moves := b.GenerateMovesInto(bufs[depth-1])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := b.MakeMove(m)
		nodes += b.perft(depth-1, bufs)
		b.UnmakeMove(u)
	}
	return nodes
}

// Divide returns the perft count under each root move, the standard tool for
// localizing a move generation bug to one subtree.
func (b *Board) Divide(depth int) map[Move]uint64 {
	res := make(map[Move]uint64)
	if depth <= 0 {
		return res
	}
	bufs := make([][]Move, depth)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	for _, m := range b.GenerateMovesInto(bufs[depth-1]) {
		u := b.MakeMove(m)
		if depth == 1 {
			res[m] = 1
		} else {
			res[m] = b.perft(depth-1, bufs)
		}
		b.UnmakeMove(u)
	}
	return res
}
