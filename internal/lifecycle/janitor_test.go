package lifecycle

import (
	"context"
	"testing"
	"time"

	"StructSentinel/internal/model"
	"StructSentinel/internal/store"
)

func newTestJanitor(ms *store.MemoryStore, notifier Notifier, at time.Time) *Janitor {
	j := NewJanitor(ms, NewTransitioner(ms, notifier), DefaultJanitorConfig())
	j.now = func() time.Time { return at }
	return j
}

func TestJanitor_ClosesStuckWaitingSignal(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	sig := buySignal(model.SignalWaitingForEntry)
	if err := ms.Insert(ctx, sig); err != nil {
		t.Fatal(err)
	}
	// Entry deadline is testNow+30m, grace 10m; an hour later is well past.
	j := newTestJanitor(ms, nil, testNow.Add(time.Hour))

	if err := j.Sweep(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := ms.Get(sig.ID)
	if got.State != model.SignalCancelled {
		t.Errorf("expected CANCELLED, got %s", got.State)
	}
}

func TestJanitor_ClosesStuckActiveSignal(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	sig := buySignal(model.SignalEntryHit)
	if err := ms.Insert(ctx, sig); err != nil {
		t.Fatal(err)
	}
	j := newTestJanitor(ms, nil, testNow.Add(5*time.Hour))

	if err := j.Sweep(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := ms.Get(sig.ID)
	if got.State != model.SignalTimeExit {
		t.Errorf("expected TIME_EXIT, got %s", got.State)
	}
}

func TestJanitor_LeavesSignalsInsideGraceAlone(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	sig := buySignal(model.SignalWaitingForEntry)
	if err := ms.Insert(ctx, sig); err != nil {
		t.Fatal(err)
	}
	// Past the deadline but inside the grace window: still the watcher's call.
	j := newTestJanitor(ms, nil, testNow.Add(35*time.Minute))

	if err := j.Sweep(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := ms.Get(sig.ID)
	if got.State != model.SignalWaitingForEntry {
		t.Errorf("signal inside grace must not be touched, got %s", got.State)
	}
}

func TestJanitor_SecondSweepIsNoOp(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	sig := buySignal(model.SignalWaitingForEntry)
	if err := ms.Insert(ctx, sig); err != nil {
		t.Fatal(err)
	}
	notifier := &recordingNotifier{}
	j := newTestJanitor(ms, notifier, testNow.Add(time.Hour))

	if err := j.Sweep(ctx); err != nil {
		t.Fatal(err)
	}
	if err := j.Sweep(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := ms.Get(sig.ID)
	if got.State != model.SignalCancelled {
		t.Errorf("expected CANCELLED, got %s", got.State)
	}
	if notifier.count() != 1 {
		t.Errorf("second sweep must not notify again, got %d calls", notifier.count())
	}
}

func TestJanitor_LosingRaceWithWatcherIsSilent(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	sig := buySignal(model.SignalWaitingForEntry)
	if err := ms.Insert(ctx, sig); err != nil {
		t.Fatal(err)
	}
	notifier := &recordingNotifier{}
	j := newTestJanitor(ms, notifier, testNow.Add(time.Hour))

	// The watcher beats the janitor to the write between load and sweep.
	if _, err := ms.CompareAndSetState(ctx, sig.ID, model.SignalWaitingForEntry, model.SignalEntryHit, "entry touched"); err != nil {
		t.Fatal(err)
	}

	stale := *sig // still carries WAITING_FOR_ENTRY
	if _, err := j.trans.TryTransition(ctx, stale, model.SignalCancelled, "janitor: stuck past entry deadline"); err != nil {
		t.Fatal(err)
	}
	got, _ := ms.Get(sig.ID)
	if got.State != model.SignalEntryHit {
		t.Errorf("janitor overwrote a fresher state: %s", got.State)
	}
	if notifier.count() != 0 {
		t.Errorf("lost race must not notify, got %d calls", notifier.count())
	}
}
