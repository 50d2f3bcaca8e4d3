package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"StructSentinel/internal/model"
)

// MemoryStore is an in-memory Store with the same compare-and-set semantics
// as the SQLite implementation. It backs tests and dry-run mode.
type MemoryStore struct {
	mu      sync.Mutex
	signals map[string]model.Signal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{signals: make(map[string]model.Signal)}
}

func (m *MemoryStore) Insert(_ context.Context, sig *model.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.signals[sig.ID]; exists {
		return fmt.Errorf("insert signal %s: duplicate id", sig.ID)
	}
	m.signals[sig.ID] = *sig
	return nil
}

func (m *MemoryStore) FindByStates(_ context.Context, states ...model.SignalState) ([]model.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(s model.Signal) bool { return inStates(s.State, states) }), nil
}

func (m *MemoryStore) FindBySymbolInStates(_ context.Context, symbol string, states ...model.SignalState) ([]model.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(s model.Signal) bool {
		return s.Symbol == symbol && inStates(s.State, states)
	}), nil
}

func (m *MemoryStore) CompareAndSetState(_ context.Context, id string, from, to model.SignalState, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sig, exists := m.signals[id]
	if !exists || sig.State != from {
		return false, nil
	}
	sig.State = to
	sig.Reason = reason
	sig.UpdatedAt = time.Now().UTC()
	m.signals[id] = sig
	return true, nil
}

func (m *MemoryStore) Close() error { return nil }

// Get returns a copy of a stored signal, for test assertions.
func (m *MemoryStore) Get(id string) (model.Signal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sig, ok := m.signals[id]
	return sig, ok
}

func (m *MemoryStore) filter(keep func(model.Signal) bool) []model.Signal {
	var out []model.Signal
	for _, s := range m.signals {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func inStates(state model.SignalState, states []model.SignalState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
