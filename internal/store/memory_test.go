package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"StructSentinel/internal/model"
)

func testSignal(id string, state model.SignalState) *model.Signal {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	return &model.Signal{
		ID:            id,
		Symbol:        "EURUSD",
		Direction:     model.DirectionBuy,
		EntryPrice:    1.1010,
		TakeProfit:    1.1050,
		StopLoss:      1.0990,
		State:         state,
		CreatedAt:     now,
		EntryDeadline: now.Add(30 * time.Minute),
		TradeDeadline: now.Add(4 * time.Hour),
	}
}

func TestMemoryStore_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Insert(ctx, testSignal("a", model.SignalWaitingForEntry)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, testSignal("b", model.SignalTPHit)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, testSignal("a", model.SignalPrepared)); err == nil {
		t.Error("duplicate insert must fail")
	}

	open, err := s.FindByStates(ctx, model.NonTerminalStates()...)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(open) != 1 || open[0].ID != "a" {
		t.Errorf("expected only signal a, got %+v", open)
	}

	bySymbol, err := s.FindBySymbolInStates(ctx, "EURUSD", model.SignalTPHit)
	if err != nil {
		t.Fatalf("find by symbol: %v", err)
	}
	if len(bySymbol) != 1 || bySymbol[0].ID != "b" {
		t.Errorf("expected signal b, got %+v", bySymbol)
	}
}

func TestMemoryStore_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Insert(ctx, testSignal("a", model.SignalWaitingForEntry)); err != nil {
		t.Fatal(err)
	}

	ok, err := s.CompareAndSetState(ctx, "a", model.SignalWaitingForEntry, model.SignalEntryHit, "entry touched")
	if err != nil || !ok {
		t.Fatalf("expected successful transition, ok=%v err=%v", ok, err)
	}

	// Same expected-from state again: zero rows, silent no-op.
	ok, err = s.CompareAndSetState(ctx, "a", model.SignalWaitingForEntry, model.SignalCancelled, "late cancel")
	if err != nil {
		t.Fatalf("stale transition must not error: %v", err)
	}
	if ok {
		t.Error("stale transition must not succeed")
	}

	sig, _ := s.Get("a")
	if sig.State != model.SignalEntryHit || sig.Reason != "entry touched" {
		t.Errorf("unexpected signal after CAS: %+v", sig)
	}

	if ok, _ := s.CompareAndSetState(ctx, "missing", model.SignalPrepared, model.SignalCancelled, ""); ok {
		t.Error("CAS on a missing id must be a no-op")
	}
}

// For all interleavings of concurrent transition attempts on one id, at most
// one transition out of a given state may succeed.
func TestMemoryStore_ConcurrentTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Insert(ctx, testSignal("a", model.SignalEntryHit)); err != nil {
		t.Fatal(err)
	}

	targets := []model.SignalState{model.SignalTPHit, model.SignalSLHit, model.SignalTimeExit}
	var wg sync.WaitGroup
	results := make(chan model.SignalState, len(targets)*8)
	for i := 0; i < 8; i++ {
		for _, target := range targets {
			wg.Add(1)
			go func(to model.SignalState) {
				defer wg.Done()
				ok, err := s.CompareAndSetState(ctx, "a", model.SignalEntryHit, to, "race")
				if err != nil {
					t.Errorf("CAS error: %v", err)
				}
				if ok {
					results <- to
				}
			}(target)
		}
	}
	wg.Wait()
	close(results)

	var winners []model.SignalState
	for r := range results {
		winners = append(winners, r)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winning transition, got %d: %v", len(winners), winners)
	}
	sig, _ := s.Get("a")
	if sig.State != winners[0] {
		t.Errorf("stored state %s does not match winner %s", sig.State, winners[0])
	}
}
