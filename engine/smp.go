package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// Engine is the Lazy-SMP coordinator: it owns the shared transposition
// table, the stop flag and the current game position, and fans a search out
// over Config.Workers private searchers. One Engine runs one search at a
// time; Search blocks until the result is selected.
type Engine struct {
	cfg Config
	tt  *TransTable

	board      mg.Board
	gameHashes []uint64 // positions of the game leading up to board

	stop       atomic.Bool
	totalNodes atomic.Uint64
	th         TimeHandler

	searchMu sync.Mutex
	onInfo   func(SearchInfo)

	store *TTStore
}

// NewEngine builds an engine from the config. When cfg.PersistPath is set
// the persistent analysis cache is opened and its entries warm-start the
// transposition table.
func NewEngine(cfg Config) (*Engine, error) {
	cfg = cfg.sanitized()
	e := &Engine{
		cfg:   cfg,
		tt:    NewTransTable(cfg.HashMB),
		board: *mg.NewBoard(),
	}

	if cfg.PersistPath != "" {
		store, err := OpenTTStore(cfg.PersistPath)
		if err != nil {
			return nil, errors.Wrap(err, "opening analysis cache")
		}
		e.store = store
		if err := store.LoadInto(e.tt); err != nil {
			store.Close()
			return nil, errors.Wrap(err, "loading analysis cache")
		}
	}
	return e, nil
}

// Close flushes the analysis cache, when one is configured.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SaveFrom(e.tt); err != nil {
		e.store.Close()
		return err
	}
	return e.store.Close()
}

// SetInfoHandler registers the per-iteration callback. Must not be called
// during a search.
func (e *Engine) SetInfoHandler(fn func(SearchInfo)) {
	e.onInfo = fn
}

// NewGame resets the position to the start and wipes the shared table.
func (e *Engine) NewGame() {
	e.board = *mg.NewBoard()
	e.gameHashes = nil
	e.tt.Clear()
}

// SetPosition loads a FEN and plays the given UCI moves on top of it,
// recording the traversed positions for repetition detection.
func (e *Engine) SetPosition(fen string, moves []string) error {
	b, err := mg.ParseFEN(fen)
	if err != nil {
		return err
	}
	hashes := make([]uint64, 0, len(moves))
	for _, uci := range moves {
		m := b.FindMove(uci)
		if m == mg.NoMove {
			return errors.Errorf("illegal move %q in position command", uci)
		}
		hashes = append(hashes, b.Hash())
		b.MakeMove(m)
	}
	e.board = *b
	e.gameHashes = hashes
	return nil
}

// Position returns a copy of the current root position.
func (e *Engine) Position() mg.Board {
	return e.board
}

// Stop requests cooperative cancellation. The running Search returns its
// deepest fully completed iteration.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// HashFull reports the shared table's occupancy estimate in permille.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

// Search runs a full Lazy-SMP search under the given limits, blocking until
// every worker has come home. Cancel via Stop, the context, or the limits
// themselves. The result is the deepest completed iteration across workers;
// depth ties go to the higher score.
func (e *Engine) Search(ctx context.Context, limits Limits) Result {
	e.searchMu.Lock()
	defer e.searchMu.Unlock()

	e.stop.Store(false)
	e.totalNodes.Store(0)
	e.tt.NewGeneration()
	e.th.Setup(limits, e.board.SideToMove(), GamePhase(&e.board), e.cfg.MoveOverheadMS)

	maxDepth := e.cfg.MaxDepth
	if limits.Depth > 0 {
		maxDepth = Min(limits.Depth, e.cfg.MaxDepth)
	}

	// Propagate context cancellation onto the stop flag.
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				e.stop.Store(true)
			case <-watcherDone:
			}
		}()
	}

	workers := e.cfg.Workers
	results := make([]workerResult, workers)

	var wg sync.WaitGroup
	for i := 1; i < workers; i++ {
		s := e.newSearcher(i, limits)
		wg.Add(1)
		go func(i int, s *searcher) {
			defer wg.Done()
			results[i] = s.run(maxDepth, nil)
		}(i, s)
	}

	// Worker 0 runs here and reports progress; when it is done the helpers
	// are stopped, so a soft-time break does not leave them spinning until
	// the hard deadline.
	main := e.newSearcher(0, limits)
	results[0] = main.run(maxDepth, e.reportIteration)
	e.stop.Store(true)
	wg.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.depth > best.depth || (r.depth == best.depth && r.score > best.score) {
			best = r
		}
	}

	res := Result{
		Move:  best.pv.BestMove(),
		Score: best.score,
		Depth: best.depth,
		Nodes: e.totalNodes.Load(),
		PV:    best.pv.Moves,
	}

	// A cancellation before depth 1 completed leaves no PV; any legal move
	// beats resigning by silence.
	if res.Move == mg.NoMove {
		if moves := e.board.GenerateMoves(); len(moves) > 0 {
			res.Move = moves[0]
		}
	}
	return res
}

func (e *Engine) newSearcher(id int, limits Limits) *searcher {
	s := &searcher{
		id:         id,
		board:      e.board,
		cfg:        &e.cfg,
		tt:         e.tt,
		th:         &e.th,
		stop:       &e.stop,
		totalNodes: &e.totalNodes,
		nodeLimit:  limits.Nodes,
	}
	s.states.seed(e.gameHashes, &s.board)
	return s
}

func (e *Engine) reportIteration(r workerResult) {
	elapsed := e.th.Elapsed()
	nodes := e.totalNodes.Load()
	var nps uint64
	if ms := elapsed.Milliseconds(); ms > 0 {
		nps = nodes * 1000 / uint64(ms)
	}

	if e.onInfo != nil {
		e.onInfo(SearchInfo{
			Depth:    r.depth,
			SelDepth: r.selDepth,
			Score:    r.score,
			Nodes:    nodes,
			NPS:      nps,
			Time:     elapsed,
			HashFull: e.tt.HashFull(),
			PV:       r.pv.Moves,
			PVString: r.pv.String(),
		})
	}

	e.th.UpdateStability(r.score, r.pv.BestMove())
	if r.depth >= 4 {
		e.th.MaybeExtend()
	}
}
