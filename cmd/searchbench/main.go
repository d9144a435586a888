package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/lassemoldrup/Kingly/engine"
	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// A small fixed suite: opening, tactical middlegame (Kiwipete), rook
// endgame, promotion race. Enough spread to catch a search regression
// without taking minutes.
var benchPositions = []struct {
	name string
	fen  string
}{
	{"startpos", mg.StartFEN},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
	{"rook endgame", "8/8/8/4k3/8/8/4P3/4K2R w K - 0 1"},
	{"promotion race", "8/5pk1/8/8/8/8/1K4P1/8 w - - 0 1"},
}

func main() {
	depthFlag := flag.Int("depth", 8, "search depth in plies")
	threadsFlag := flag.Int("threads", 1, "worker count")
	hashFlag := flag.Int("hash", 64, "hash size in MB")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	cfg := engine.DefaultConfig()
	cfg.Workers = *threadsFlag
	cfg.HashMB = *hashFlag

	fmt.Printf("searchbench: depth=%d threads=%d hash=%dMB\n", *depthFlag, *threadsFlag, *hashFlag)

	var totalNodes uint64
	startAll := time.Now()
	for _, pos := range benchPositions {
		eng, err := engine.NewEngine(cfg)
		if err != nil {
			log.Fatalf("engine init: %v", err)
		}
		if err := eng.SetPosition(pos.fen, nil); err != nil {
			log.Fatalf("%s: %v", pos.name, err)
		}

		start := time.Now()
		res := eng.Search(context.Background(), engine.Limits{Depth: *depthFlag})
		elapsed := time.Since(start)

		var nps uint64
		if ms := elapsed.Milliseconds(); ms > 0 {
			nps = res.Nodes * 1000 / uint64(ms)
		}
		fmt.Printf("%-16s bestmove %-6s score %-10s nodes %-10d nps %-10d time %v\n",
			pos.name, res.Move, engine.FormatScore(res.Score), res.Nodes, nps, elapsed.Round(time.Millisecond))
		totalNodes += res.Nodes
		eng.Close()
	}
	fmt.Printf("total: nodes %d time %v\n", totalNodes, time.Since(startAll).Round(time.Millisecond))
}
