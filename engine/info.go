package engine

import (
	"time"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

// SearchInfo is reported once per completed root iteration.
type SearchInfo struct {
	Depth    int           `json:"depth"`
	SelDepth int           `json:"seldepth"`
	Score    int32         `json:"score"`
	Nodes    uint64        `json:"nodes"`
	NPS      uint64        `json:"nps"`
	Time     time.Duration `json:"time_ns"`
	HashFull int           `json:"hashfull"`
	PV       []mg.Move     `json:"-"`
	PVString string        `json:"pv"`
}

// Result is the outcome of a finished (or cancelled) search: the best move
// of the deepest fully completed iteration.
type Result struct {
	Move  mg.Move
	Score int32
	Depth int
	Nodes uint64
	PV    []mg.Move
}
