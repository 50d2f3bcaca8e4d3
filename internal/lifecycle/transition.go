package lifecycle

import (
	"context"
	"fmt"
	"log"

	"StructSentinel/internal/metrics"
	"StructSentinel/internal/model"
	"StructSentinel/internal/store"
)

// Notifier receives one call per realized transition, carrying the signal
// snapshot at the moment of transition. Failures are logged and never roll
// back the state change.
type Notifier interface {
	NotifyTransition(ctx context.Context, sig model.Signal, to model.SignalState, reason string)
}

// NopNotifier discards notifications; used in tests and dry-run mode.
type NopNotifier struct{}

func (NopNotifier) NotifyTransition(context.Context, model.Signal, model.SignalState, string) {}

// allowedTransitions is the complete lifecycle graph. Terminal states have no
// outgoing edges; a signal is never resurrected.
var allowedTransitions = map[model.SignalState][]model.SignalState{
	model.SignalPrepared:        {model.SignalWaitingForEntry, model.SignalCancelled},
	model.SignalWaitingForEntry: {model.SignalEntryHit, model.SignalCancelled},
	model.SignalEntryHit:        {model.SignalTPHit, model.SignalSLHit, model.SignalTimeExit},
}

// Transitioner is the single write path for Signal.state. No other code may
// change the state field.
type Transitioner struct {
	store    store.Store
	notifier Notifier
}

func NewTransitioner(st store.Store, n Notifier) *Transitioner {
	if n == nil {
		n = NopNotifier{}
	}
	return &Transitioner{store: st, notifier: n}
}

// TryTransition attempts one conditional state change. A zero-row conditional
// write is treated as success-no-op (another worker already advanced the
// signal) and triggers no notification. The notification fires only after
// the conditional write succeeded, never before.
func (t *Transitioner) TryTransition(ctx context.Context, sig model.Signal, to model.SignalState, reason string) (bool, error) {
	if !transitionAllowed(sig.State, to) {
		return false, fmt.Errorf("transition %s -> %s not allowed for signal %s", sig.State, to, sig.ID)
	}

	ok, err := t.store.CompareAndSetState(ctx, sig.ID, sig.State, to, reason)
	if err != nil {
		return false, err
	}
	if !ok {
		metrics.StoreConflicts.Inc()
		return false, nil
	}

	metrics.Transitions.WithLabelValues(string(to)).Inc()
	log.Printf("[INFO] signal %s: %s -> %s (%s)", sig.ID, sig.State, to, reason)

	snapshot := sig
	snapshot.State = to
	snapshot.Reason = reason
	t.notifier.NotifyTransition(ctx, snapshot, to, reason)
	return true, nil
}

func transitionAllowed(from, to model.SignalState) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
