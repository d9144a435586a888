package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/fatih/color"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

func main() {
	fen := flag.String("fen", mg.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at root")
	verify := flag.Bool("verify", false, "cross-check counts against the dragontoothmg generator")
	repeat := flag.Int("repeat", 1, "repeat perft N times for steadier timings")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := mg.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing FEN: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		runDivide(board, *depth, *verify, *fen)
		return
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes = board.Perft(*depth)
	}
	elapsed := time.Since(start) / time.Duration(*repeat)
	nps := float64(totalNodes) / elapsed.Seconds()

	fmt.Printf("depth %d  nodes %s  time %v  nps %.0f\n",
		*depth, color.CyanString("%d", totalNodes), elapsed.Round(time.Millisecond), nps)

	if *verify {
		refBoard := dragontoothmg.ParseFen(*fen)
		ref := uint64(dragontoothmg.Perft(&refBoard, *depth))
		if ref == totalNodes {
			color.Green("verify ok: dragontoothmg agrees (%d)", ref)
		} else {
			color.Red("verify FAILED: dragontoothmg says %d, we say %d", ref, totalNodes)
			os.Exit(1)
		}
	}
}

// runDivide prints per-root-move subtree counts, optionally against the
// reference generator so a wrong subtree stands out in red.
func runDivide(board *mg.Board, depth int, verify bool, fen string) {
	div := board.Divide(depth)

	moves := make([]mg.Move, 0, len(div))
	for m := range div {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })

	refDiv := map[string]uint64{}
	if verify {
		refBoard := dragontoothmg.ParseFen(fen)
		for _, rm := range refBoard.GenerateLegalMoves() {
			unapply := refBoard.Apply(rm)
			var n uint64
			if depth == 1 {
				n = 1
			} else {
				n = uint64(dragontoothmg.Perft(&refBoard, depth-1))
			}
			unapply()
			refDiv[rm.String()] = n
		}
	}

	var total, refTotal uint64
	mismatches := 0
	for _, m := range moves {
		n := div[m]
		total += n
		if !verify {
			fmt.Printf("%s: %d\n", m, n)
			continue
		}
		ref, ok := refDiv[m.String()]
		refTotal += ref
		if ok && ref == n {
			fmt.Printf("%s: %s\n", m, color.GreenString("%d", n))
		} else {
			mismatches++
			fmt.Printf("%s: %s (reference %d)\n", m, color.RedString("%d", n), ref)
		}
	}
	if verify {
		for uci, ref := range refDiv {
			if _, ok := div[mustFind(board, uci)]; !ok {
				mismatches++
				color.Red("missing move %s (reference %d)", uci, ref)
			}
		}
	}

	fmt.Printf("total: %d\n", total)
	if verify {
		if mismatches == 0 && refTotal == total {
			color.Green("verify ok")
		} else {
			color.Red("verify FAILED: %d mismatching root moves", mismatches)
			os.Exit(1)
		}
	}
}

func mustFind(board *mg.Board, uci string) mg.Move {
	return board.FindMove(uci)
}
