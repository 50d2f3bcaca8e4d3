package store

import (
	"context"

	"StructSentinel/internal/model"
)

// Store is the row-oriented signal store contract. The conditional update is
// the single concurrency-control mechanism of the whole core: a transition is
// valid only if it observes and overwrites the exact expected prior state in
// one atomic round-trip.
type Store interface {
	// Insert persists a freshly seeded signal.
	Insert(ctx context.Context, sig *model.Signal) error

	// FindByStates returns all signals whose state is in the given set.
	FindByStates(ctx context.Context, states ...model.SignalState) ([]model.Signal, error)

	// FindBySymbolInStates returns the signals for one symbol in the given states.
	FindBySymbolInStates(ctx context.Context, symbol string, states ...model.SignalState) ([]model.Signal, error)

	// CompareAndSetState atomically moves a signal from one state to another.
	// It returns false (and no error) when zero rows matched, meaning another
	// worker already advanced the signal.
	CompareAndSetState(ctx context.Context, id string, from, to model.SignalState, reason string) (bool, error)

	Close() error
}
