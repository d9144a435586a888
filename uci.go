package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lassemoldrup/Kingly/engine"
	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

const (
	engineName   = "Kingly"
	engineAuthor = "the Kingly authors"
)

func main() {
	analyticsAddr := flag.String("analytics", "", "listen address for the websocket search-info feed (e.g. :8900)")
	flag.Parse()

	var hub *analyticsHub
	if *analyticsAddr != "" {
		hub = startAnalytics(*analyticsAddr)
	}
	uciLoop(hub)
}

// uciState carries what the loop needs to rebuild the engine when setoption
// changes construction-time config (hash size, threads, persistence path).
type uciState struct {
	cfg       engine.Config
	eng       *engine.Engine
	hub       *analyticsHub
	lastFEN   string
	lastMoves []string
	searchWG  sync.WaitGroup
}

func uciLoop(hub *analyticsHub) {
	st := &uciState{cfg: engine.DefaultConfig(), hub: hub, lastFEN: mg.StartFEN}
	if err := st.rebuildEngine(); err != nil {
		fmt.Println("info string engine init failed:", err)
		return
	}
	defer st.eng.Close()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Println("id name", engineName)
			fmt.Println("id author", engineAuthor)
			fmt.Println("option name Hash type spin default 64 min 1 max 4096")
			fmt.Println("option name Threads type spin default", engine.DefaultConfig().Workers, "min 1 max 128")
			fmt.Println("option name Move Overhead type spin default 30 min 0 max 5000")
			fmt.Println("option name Persistent Hash Path type string default <empty>")
			fmt.Println("uciok")
		case "isready":
			st.searchWG.Wait()
			fmt.Println("readyok")
		case "ucinewgame":
			st.searchWG.Wait()
			st.eng.NewGame()
			st.lastFEN = mg.StartFEN
			st.lastMoves = nil
		case "position":
			st.searchWG.Wait()
			st.handlePosition(tokens[1:])
		case "go":
			st.searchWG.Wait()
			st.handleGo(tokens[1:])
		case "stop":
			st.eng.Stop()
		case "setoption":
			st.searchWG.Wait()
			st.handleSetOption(tokens[1:])
		case "perft":
			st.searchWG.Wait()
			st.handlePerft(tokens[1:])
		case "quit":
			st.eng.Stop()
			st.searchWG.Wait()
			return
		default:
			fmt.Println("info string Unknown command:", tokens[0])
		}
	}
	st.eng.Stop()
	st.searchWG.Wait()
}

func (st *uciState) rebuildEngine() error {
	if st.eng != nil {
		st.eng.Close()
	}
	eng, err := engine.NewEngine(st.cfg)
	if err != nil {
		return err
	}
	eng.SetInfoHandler(func(info engine.SearchInfo) {
		fmt.Println("info",
			"depth", info.Depth,
			"seldepth", info.SelDepth,
			"score", engine.FormatScore(info.Score),
			"nodes", info.Nodes,
			"nps", info.NPS,
			"time", info.Time.Milliseconds(),
			"hashfull", info.HashFull,
			"pv", info.PVString,
		)
		if st.hub != nil {
			st.hub.Broadcast(info)
		}
	})
	st.eng = eng
	return st.eng.SetPosition(st.lastFEN, st.lastMoves)
}

func (st *uciState) handlePosition(args []string) {
	if len(args) == 0 {
		fmt.Println("info string Malformed position command")
		return
	}

	var fen string
	rest := args
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = mg.StartFEN
		rest = args[1:]
	case "fen":
		fields := args[1:]
		end := len(fields)
		for i, f := range fields {
			if strings.ToLower(f) == "moves" {
				end = i
				break
			}
		}
		fen = strings.Join(fields[:end], " ")
		rest = fields[end:]
	default:
		fmt.Println("info string Invalid position subcommand")
		return
	}

	var moves []string
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		moves = rest[1:]
	}

	if err := st.eng.SetPosition(fen, moves); err != nil {
		fmt.Println("info string", err)
		return
	}
	st.lastFEN = fen
	st.lastMoves = moves
}

func (st *uciState) handleGo(args []string) {
	var limits engine.Limits
	for i := 0; i < len(args); i++ {
		arg := strings.ToLower(args[i])
		if arg == "infinite" {
			limits.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			fmt.Println("info string Missing value for go option", arg)
			return
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil || n < 0 {
			fmt.Println("info string Bad value for go option", arg)
			return
		}
		i++
		switch arg {
		case "depth":
			limits.Depth = n
		case "nodes":
			limits.Nodes = uint64(n)
		case "movetime":
			limits.MoveTime = time.Duration(n) * time.Millisecond
		case "wtime":
			limits.WhiteTime = time.Duration(n) * time.Millisecond
		case "btime":
			limits.BlackTime = time.Duration(n) * time.Millisecond
		case "winc":
			limits.WhiteInc = time.Duration(n) * time.Millisecond
		case "binc":
			limits.BlackInc = time.Duration(n) * time.Millisecond
		case "movestogo":
			limits.MovesToGo = n
		default:
			fmt.Println("info string Unknown go option", arg)
		}
	}

	st.searchWG.Add(1)
	go func() {
		defer st.searchWG.Done()
		res := st.eng.Search(context.Background(), limits)
		fmt.Println("bestmove", res.Move.String())
	}()
}

func (st *uciState) handleSetOption(args []string) {
	// setoption name <name possibly with spaces> [value <value>]
	var nameParts, valueParts []string
	target := &nameParts
	for _, a := range args {
		switch strings.ToLower(a) {
		case "name":
			target = &nameParts
		case "value":
			target = &valueParts
		default:
			*target = append(*target, a)
		}
	}
	name := strings.ToLower(strings.Join(nameParts, " "))
	value := strings.Join(valueParts, " ")

	switch name {
	case "hash":
		n, err := strconv.Atoi(value)
		if err != nil {
			fmt.Println("info string Bad Hash value")
			return
		}
		st.cfg.HashMB = n
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			fmt.Println("info string Bad Threads value")
			return
		}
		st.cfg.Workers = n
	case "move overhead":
		n, err := strconv.Atoi(value)
		if err != nil {
			fmt.Println("info string Bad Move Overhead value")
			return
		}
		st.cfg.MoveOverheadMS = n
	case "persistent hash path":
		if value == "<empty>" {
			value = ""
		}
		st.cfg.PersistPath = value
	default:
		fmt.Println("info string Unknown option", name)
		return
	}

	if err := st.rebuildEngine(); err != nil {
		fmt.Println("info string engine rebuild failed:", err)
	}
}

func (st *uciState) handlePerft(args []string) {
	if len(args) == 0 {
		fmt.Println("info string perft needs a depth")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		fmt.Println("info string Bad perft depth")
		return
	}

	board := st.eng.Position()
	start := time.Now()
	total := uint64(0)
	for move, count := range board.Divide(depth) {
		fmt.Printf("%s: %d\n", move, count)
		total += count
	}
	elapsed := time.Since(start)
	fmt.Printf("nodes %d time %dms\n", total, elapsed.Milliseconds())
}
