package lifecycle

import (
	"context"
	"log"
	"time"

	"StructSentinel/internal/model"
	"StructSentinel/internal/store"
)

// JanitorConfig holds the sweep parameters.
type JanitorConfig struct {
	Interval time.Duration
	Grace    time.Duration // extra slack past a deadline before force-closing
}

// DefaultJanitorConfig returns the standard sweep parameters.
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Interval: 5 * time.Minute,
		Grace:    10 * time.Minute,
	}
}

// Janitor force-closes signals stuck past their deadlines. It is the
// fail-safe against a watcher outage: with the same conditional-write
// discipline it can run concurrently with the watcher, and a sweep that
// loses the race is a silent no-op. It guarantees no signal can block the
// one-open-signal admission policy indefinitely.
type Janitor struct {
	store store.Store
	trans *Transitioner
	cfg   JanitorConfig
	now   func() time.Time
}

func NewJanitor(st store.Store, trans *Transitioner, cfg JanitorConfig) *Janitor {
	d := DefaultJanitorConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = d.Interval
	}
	if cfg.Grace <= 0 {
		cfg.Grace = d.Grace
	}
	return &Janitor{store: st, trans: trans, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// Run sweeps until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	log.Printf("[INFO] janitor started, interval %s, grace %s", j.cfg.Interval, j.cfg.Grace)
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] janitor stopped")
			return
		case <-ticker.C:
			if err := j.Sweep(ctx); err != nil {
				log.Printf("[ERROR] janitor sweep: %v", err)
			}
		}
	}
}

// Sweep force-closes every signal stuck past deadline + grace. Idempotent:
// a second sweep over the same set finds nothing left to do.
func (j *Janitor) Sweep(ctx context.Context) error {
	signals, err := j.store.FindByStates(ctx, model.NonTerminalStates()...)
	if err != nil {
		return err
	}

	now := j.now()
	for _, sig := range signals {
		switch sig.State {
		case model.SignalPrepared, model.SignalWaitingForEntry:
			if now.After(sig.EntryDeadline.Add(j.cfg.Grace)) {
				if _, err := j.trans.TryTransition(ctx, sig, model.SignalCancelled, "janitor: stuck past entry deadline"); err != nil {
					log.Printf("[ERROR] janitor close %s: %v", sig.ID, err)
				}
			}
		case model.SignalEntryHit:
			if now.After(sig.TradeDeadline.Add(j.cfg.Grace)) {
				if _, err := j.trans.TryTransition(ctx, sig, model.SignalTimeExit, "janitor: stuck past trade deadline"); err != nil {
					log.Printf("[ERROR] janitor close %s: %v", sig.ID, err)
				}
			}
		}
	}
	return nil
}
