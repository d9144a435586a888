package engine

import (
	"context"
	"testing"

	mg "github.com/lassemoldrup/Kingly/kinglymg"
)

func TestTTStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := testMove()

	store, err := OpenTTStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	tt := NewTransTable(1)
	tt.Store(0x1111, 10, 0, m, 42, ExactFlag)
	tt.Store(0x2222, 3, 0, m, 7, ExactFlag)   // too shallow to persist
	tt.Store(0x3333, 12, 0, m, -9, AlphaFlag) // bounds are not persisted

	if err := store.SaveFrom(tt); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = OpenTTStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	fresh := NewTransTable(1)
	if err := store.LoadInto(fresh); err != nil {
		t.Fatal(err)
	}

	e, ok := fresh.Probe(0x1111)
	if !ok {
		t.Fatal("deep exact entry did not survive the round trip")
	}
	if e.Move != m || e.Score != 42 || e.Depth != 10 || e.Flag != ExactFlag {
		t.Errorf("entry corrupted by round trip: %+v", e)
	}

	if _, ok := fresh.Probe(0x2222); ok {
		t.Error("shallow entry was persisted")
	}
	if _, ok := fresh.Probe(0x3333); ok {
		t.Error("bound entry was persisted")
	}
}

func TestEngineWarmStartsFromPersistPath(t *testing.T) {
	if testing.Short() {
		t.Skip("opens a disk-backed store twice")
	}
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Workers = 1
	cfg.HashMB = 16
	cfg.PersistPath = dir

	const fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SetPosition(fen, nil); err != nil {
		t.Fatal(err)
	}
	e.Search(context.Background(), Limits{Depth: 8})
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	// A fresh engine on the same path loads the saved analysis.
	e2, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer e2.Close()
	if e2.HashFull() == 0 && e2.tt.approxStores.Load() == 0 {
		t.Error("warm start loaded nothing from the analysis cache")
	}

	if err := e2.SetPosition(fen, nil); err != nil {
		t.Fatal(err)
	}
	res := e2.Search(context.Background(), Limits{Depth: 4})
	if res.Move == mg.NoMove {
		t.Error("warm-started engine returned no move")
	}
}
