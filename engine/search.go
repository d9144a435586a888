package engine

import (
	"sync/atomic"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// maxPly bounds the total ply budget, main search plus quiescence. Per-ply
// tables (killers, move buffers) are sized by it.
const maxPly = 2 * MaxDepth

// Pruning margins, indexed by remaining depth.
var futilityMargins = [8]int32{0, 120, 220, 320, 420, 520, 620, 720}
var rfpMargins = [8]int32{0, 100, 200, 300, 400, 500, 600, 700}
var lateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

const deltaMargin int32 = 200

// lmrTable[depth][moveCount] is the base late-move reduction.
var lmrTable [MaxDepth + 1][100]int8

func init() {
	for d := 1; d <= MaxDepth; d++ {
		for m := 1; m < 100; m++ {
			r := 1 + d/8 + m/16
			if r > d-2 {
				r = d - 2
			}
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int8(r)
		}
	}
}

// searcher is one Lazy-SMP worker: a private board copy and private
// ordering tables, sharing only the transposition table, the stop flag, the
// node counter and the time handler with its siblings.
type searcher struct {
	id    int
	board mg.Board
	cfg   *Config
	tt    *TransTable
	th    *TimeHandler

	stop       *atomic.Bool
	totalNodes *atomic.Uint64
	nodeLimit  uint64

	killers KillerTable
	history [2][64][64]int32
	counter [2][64][64]mg.Move
	states  stateStack

	// Per-ply reusable buffers so the hot path does not allocate.
	moveBuf [maxPly + 1][]mg.Move
	scratch [maxPly + 1][]scoredMove

	nodes       uint64
	syncedNodes uint64
	selDepth    int
}

// workerResult is one worker's deepest fully completed iteration.
type workerResult struct {
	depth    int
	selDepth int
	score    int32
	pv       PVLine
}

// pollLimits publishes this worker's node count and trips the shared stop
// flag on a hard deadline or an exhausted node budget.
func (s *searcher) pollLimits() {
	delta := s.nodes - s.syncedNodes
	s.syncedNodes = s.nodes
	total := s.totalNodes.Add(delta)
	if s.nodeLimit > 0 && total >= s.nodeLimit {
		s.stop.Store(true)
	}
	if s.th.HardExceeded() {
		s.stop.Store(true)
	}
}

// run iteratively deepens to maxDepth, returning the deepest iteration that
// finished before the stop flag tripped. onIteration (nil for helper
// workers) fires after every completed depth.
func (s *searcher) run(maxDepth int, onIteration func(workerResult)) workerResult {
	var best workerResult
	var pv PVLine
	var prevScore int32
	haveScore := false

	// Helper workers start one ply deeper on odd ids so the pack does not
	// search the identical tree in lockstep.
	startDepth := 1
	if s.id > 0 && s.id%2 == 1 {
		startDepth = 2
	}
	startDepth = Min(startDepth, maxDepth)

	for depth := startDepth; depth <= maxDepth; depth++ {
		if s.stop.Load() {
			break
		}
		if s.id == 0 && depth > 1 && s.th.SoftExceeded() {
			break
		}

		alpha, beta := -MaxScore, MaxScore
		window := s.cfg.AspirationWindow
		if haveScore {
			alpha = max(prevScore-window, -MaxScore)
			beta = min(prevScore+window, MaxScore)
		}

		var score int32
		for {
			pv.Clear()
			s.selDepth = 0
			score = s.alphabeta(alpha, beta, int8(depth), 0, &pv, mg.NoMove, false)
			if s.stop.Load() {
				break
			}
			// Re-search on aspiration failure with a doubled window,
			// re-centered on the score that broke out.
			if score <= alpha {
				window *= 2
				alpha = max(score-window, -MaxScore)
				continue
			}
			if score >= beta {
				window *= 2
				beta = min(score+window, MaxScore)
				continue
			}
			break
		}
		if s.stop.Load() {
			break
		}
		if len(pv.Moves) == 0 {
			// Mated or stalemated at the root; nothing to report.
			break
		}

		best = workerResult{depth: depth, selDepth: s.selDepth, score: score, pv: pv.Clone()}
		prevScore = score
		haveScore = true

		if onIteration != nil {
			// Flush the node count first so the report sees fresh totals.
			s.totalNodes.Add(s.nodes - s.syncedNodes)
			s.syncedNodes = s.nodes
			onIteration(best)
		}
		if abs(score) > Checkmate {
			// Forced mate found; deeper iterations cannot improve on it.
			break
		}
	}

	// Flush the node count so the coordinator's totals are exact.
	s.totalNodes.Add(s.nodes - s.syncedNodes)
	s.syncedNodes = s.nodes
	return best
}

func (s *searcher) alphabeta(alpha, beta int32, depth int8, ply int, pvLine *PVLine, prevMove mg.Move, didNull bool) int32 {
	s.nodes++
	if s.nodes&4095 == 0 {
		s.pollLimits()
	}
	if s.stop.Load() {
		return 0
	}
	if ply >= maxPly {
		return Evaluate(&s.board)
	}

	isPVNode := beta-alpha > 1
	isRoot := ply == 0
	var childPV PVLine

	if !isRoot {
		if s.states.isDraw() {
			return DrawScore
		}
		// A repetition inside the tree means we can always bail out to a
		// draw, so the score is bounded below by it.
		if alpha < DrawScore && s.states.upcomingRepetition() {
			alpha = DrawScore
			if alpha >= beta {
				return alpha
			}
		}
	}

	inCheck := s.board.InCheck()
	if inCheck {
		depth++
	}

	if depth <= 0 {
		return s.quiescence(alpha, beta, ply, pvLine)
	}

	hash := s.board.Hash()
	entry, ttHit := s.tt.Probe(hash)
	var ttMove mg.Move
	if ttHit {
		ttMove = entry.Move
	}
	if ttHit && !isRoot && !isPVNode {
		if usable, ttScore := s.tt.Usable(entry, depth, alpha, beta, ply); usable {
			return ttScore
		}
	}

	var staticScore int32
	if !inCheck {
		staticScore = Evaluate(&s.board)
	}

	improving := ply >= 2 && !inCheck && staticScore > alpha

	// Reverse futility: when the static eval beats beta by a depth-scaled
	// margin, trust it.
	if s.cfg.ReverseFutility && !inCheck && !isPVNode && !isRoot &&
		depth <= 7 && abs(beta) < Checkmate {
		margin := rfpMargins[depth]
		if !improving {
			margin -= 50
		}
		if staticScore-margin >= beta {
			return staticScore - margin
		}
	}

	// Null move: hand the opponent a free move; if the position still beats
	// beta the real score almost certainly does too. Gated on non-pawn
	// material to stay out of zugzwang territory.
	if s.cfg.NullMove && !inCheck && !isPVNode && !isRoot && !didNull &&
		depth >= 2 && s.board.NonPawnMaterial(s.board.SideToMove()) {
		R := 3 + depth/3
		if depth > 6 {
			R++
		}
		if R > depth-1 {
			R = depth - 1
		}
		nu := s.board.MakeNullMove()
		s.states.push(&s.board)
		score := -s.alphabeta(-beta, -beta+1, depth-1-R, ply+1, &childPV, mg.NoMove, true)
		s.states.pop()
		s.board.UnmakeNullMove(nu)

		if score >= beta && score < Checkmate {
			return score
		}
	}

	s.moveBuf[ply] = s.board.GenerateMovesInto(s.moveBuf[ply])
	moves := s.moveBuf[ply]
	if len(moves) == 0 {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}

	ml := s.scoreMoves(moves, ply, ttMove, prevMove)

	bestScore := -MaxScore
	var bestMove mg.Move
	ttFlag := AlphaFlag
	moveCount := 0
	quietsTried := make([]mg.Move, 0, 16)

	for index := 0; index < len(ml.moves); index++ {
		orderNextMove(index, &ml)
		move := ml.moves[index].move
		moveCount++

		isCapture := move.IsCapture()
		givesCheck := s.board.GivesCheck(move)
		tactical := isCapture || givesCheck || move.Promotion() != mg.NoPieceType

		// Late move pruning: quiet moves far down the ordering at shallow
		// depth almost never raise alpha.
		if s.cfg.LateMoves && !isPVNode && !isRoot && !tactical &&
			depth <= 8 && moveCount > 1 {
			lmpMargin := lateMovePruningMargins[Min(int(depth), len(lateMovePruningMargins)-1)]
			if !improving {
				lmpMargin = lmpMargin * 2 / 3
			}
			if lmpMargin > 0 && moveCount > lmpMargin {
				continue
			}
		}

		// Futility: at shallow depth a quiet move cannot recover a static
		// deficit beyond the margin.
		if s.cfg.Futility && !isPVNode && !isRoot && !tactical && !inCheck &&
			depth <= 7 && moveCount > 1 && abs(alpha) < Checkmate {
			margin := futilityMargins[depth]
			if !improving {
				margin -= 50
			}
			if staticScore+margin <= alpha {
				continue
			}
		}

		if !isCapture {
			quietsTried = append(quietsTried, move)
		}

		u := s.board.MakeMove(move)
		s.states.push(&s.board)

		var score int32
		if moveCount == 1 {
			score = -s.alphabeta(-beta, -alpha, depth-1, ply+1, &childPV, move, false)
		} else {
			var reduction int8
			if s.cfg.LateMoves && !tactical {
				reduction = s.lmrReduction(depth, moveCount, isPVNode, move, ply, improving)
			}
			score = s.searchMoveWithPVS(move, depth-1, reduction, alpha, beta, ply, &childPV)
		}

		s.states.pop()
		s.board.UnmakeMove(u)

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score >= beta {
			ttFlag = BetaFlag
			if !isCapture {
				s.killers.Insert(move, ply)
				s.storeCounter(prevMove, move)
				s.bumpHistory(move, depth)
				for _, failed := range quietsTried {
					if failed != move {
						s.punishHistory(failed, depth)
					}
				}
			}
			break
		}

		if score > alpha {
			alpha = score
			ttFlag = ExactFlag
			pvLine.Update(move, childPV)
			if !isCapture {
				s.bumpHistory(move, depth)
			}
		}
		childPV.Clear()
	}

	if !s.stop.Load() {
		s.tt.Store(hash, depth, ply, bestMove, bestScore, ttFlag)
	}
	return bestScore
}

func (s *searcher) quiescence(alpha, beta int32, ply int, pvLine *PVLine) int32 {
	s.nodes++
	if s.nodes&2047 == 0 {
		s.pollLimits()
	}
	if s.stop.Load() {
		return 0
	}
	if ply > s.selDepth {
		s.selDepth = ply
	}
	if ply >= maxPly {
		return Evaluate(&s.board)
	}

	inCheck := s.board.InCheck()
	standpat := Evaluate(&s.board)
	var childPV PVLine

	if !inCheck {
		if standpat >= beta {
			return standpat
		}
		if standpat > alpha {
			alpha = standpat
		}
	}

	bestScore := standpat
	if inCheck {
		bestScore = -MaxScore
	}

	// In check every evasion must be tried; otherwise only captures and
	// queen promotions.
	var ml moveList
	if inCheck {
		s.moveBuf[ply] = s.board.GenerateMovesInto(s.moveBuf[ply])
		if len(s.moveBuf[ply]) == 0 {
			return -MaxScore + int32(ply)
		}
		ml = s.scoreMoves(s.moveBuf[ply], ply, mg.NoMove, mg.NoMove)
	} else {
		s.moveBuf[ply] = s.board.GenerateCapturesInto(s.moveBuf[ply])
		ml = s.scoreCaptures(s.moveBuf[ply], ply, mg.NoMove)
	}

	for index := 0; index < len(ml.moves); index++ {
		orderNextMove(index, &ml)
		move := ml.moves[index].move

		// Delta pruning: if even winning the victim outright cannot lift
		// the stand-pat near alpha, skip the capture.
		if !inCheck {
			gain := int32(0)
			if cap := move.Captured(); cap != mg.NoPieceType {
				gain = pieceValueMG[cap]
			}
			if promo := move.Promotion(); promo != mg.NoPieceType {
				gain += pieceValueMG[promo] - pieceValueMG[mg.Pawn]
			}
			if standpat+gain+deltaMargin < alpha {
				continue
			}
		}

		u := s.board.MakeMove(move)
		s.states.push(&s.board)
		score := -s.quiescence(-beta, -alpha, ply+1, &childPV)
		s.states.pop()
		s.board.UnmakeMove(u)

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
			pvLine.Update(move, childPV)
		}
		childPV.Clear()
	}

	return bestScore
}

// searchMoveWithPVS runs the standard three-stage principal variation
// search for an already-applied move: reduced null window first, full-depth
// null window if the reduction was optimistic, full window only when the
// score lands inside (alpha, beta).
func (s *searcher) searchMoveWithPVS(move mg.Move, depth, reduction int8, alpha, beta int32, ply int, childPV *PVLine) int32 {
	score := -s.alphabeta(-(alpha + 1), -alpha, depth-reduction, ply+1, childPV, move, false)

	if score > alpha && reduction > 0 {
		score = -s.alphabeta(-(alpha + 1), -alpha, depth, ply+1, childPV, move, false)
	}
	if score > alpha && score < beta {
		score = -s.alphabeta(-beta, -alpha, depth, ply+1, childPV, move, false)
	}
	return score
}

func (s *searcher) lmrReduction(depth int8, moveCount int, isPVNode bool, move mg.Move, ply int, improving bool) int8 {
	if isPVNode || depth < 2 || moveCount <= 2 {
		return 0
	}
	d := Min(int(depth), MaxDepth)
	m := Min(moveCount, 99)
	r := lmrTable[d][m]

	// Moves with a track record reduce less.
	if r > 0 && s.killers.IsKiller(move, ply) {
		r--
	}
	us := s.board.SideToMove()
	if h := s.history[us][move.From()][move.To()]; r > 0 && h > 0 {
		bonus := int8(Min(h/2500, 2))
		r -= Min(bonus, r)
	}
	if !improving {
		r++
	}
	if r < 0 {
		r = 0
	}
	return r
}
