package lifecycle

import (
	"context"
	"log"
	"time"

	"StructSentinel/internal/feed"
	"StructSentinel/internal/metrics"
	"StructSentinel/internal/model"
	"StructSentinel/internal/store"
)

// WatcherConfig holds the polling parameters.
type WatcherConfig struct {
	Interval     time.Duration
	Tolerance    float64 // symmetric touch tolerance, fraction of the level
	NearMissBand float64 // wider band logged as telemetry, fraction of the level
}

// DefaultWatcherConfig returns the standard polling parameters.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Interval:     30 * time.Second,
		Tolerance:    0.0002,
		NearMissBand: 0.001,
	}
}

// Watcher advances open signals through their lifecycle from polled price
// observations. All cross-worker coordination happens through the store's
// conditional write; the watcher itself holds no shared mutable state.
type Watcher struct {
	store store.Store
	feed  feed.PriceFeed
	trans *Transitioner
	cfg   WatcherConfig
	now   func() time.Time
}

func NewWatcher(st store.Store, pf feed.PriceFeed, trans *Transitioner, cfg WatcherConfig) *Watcher {
	d := DefaultWatcherConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = d.Interval
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = d.Tolerance
	}
	if cfg.NearMissBand <= 0 {
		cfg.NearMissBand = d.NearMissBand
	}
	return &Watcher{store: st, feed: pf, trans: trans, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// Run polls until the context is cancelled. The loop stops only at iteration
// boundaries, never mid-cycle.
func (w *Watcher) Run(ctx context.Context) {
	log.Printf("[INFO] watcher started, interval %s", w.cfg.Interval)
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] watcher stopped")
			return
		case <-ticker.C:
			w.safeCycle(ctx)
		}
	}
}

// safeCycle isolates a cycle failure to that cycle.
func (w *Watcher) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] watcher cycle panic: %v", r)
		}
	}()
	if err := w.Cycle(ctx); err != nil {
		log.Printf("[ERROR] watcher cycle: %v", err)
	}
}

// Cycle runs one poll pass: load open signals, fetch one fresh observation
// per symbol, and apply the transition rules per signal.
func (w *Watcher) Cycle(ctx context.Context) error {
	signals, err := w.store.FindByStates(ctx, model.SignalWaitingForEntry, model.SignalEntryHit)
	if err != nil {
		return err
	}
	metrics.WatcherCycles.Inc()
	if len(signals) == 0 {
		return nil
	}

	type observation struct {
		tick model.Tick
		ok   bool
	}
	ticks := make(map[string]observation)
	for _, sig := range signals {
		obs, seen := ticks[sig.Symbol]
		if !seen {
			tick, ok, err := w.feed.FetchTick(ctx, sig.Symbol)
			if err != nil {
				log.Printf("[WARN] tick fetch for %s: %v, touch checks skipped", sig.Symbol, err)
				ok = false
			}
			obs = observation{tick: tick, ok: ok}
			ticks[sig.Symbol] = obs
		}
		if err := w.evaluate(ctx, sig, obs.tick, obs.ok); err != nil {
			log.Printf("[ERROR] evaluate signal %s: %v", sig.ID, err)
		}
	}
	return nil
}

// evaluate applies the lifecycle rules for one signal against one observation.
// When the tick is unavailable only the deadline checks run.
func (w *Watcher) evaluate(ctx context.Context, sig model.Signal, tick model.Tick, tickOK bool) error {
	switch sig.State {
	case model.SignalWaitingForEntry:
		return w.evaluateWaiting(ctx, sig, tick, tickOK)
	case model.SignalEntryHit:
		return w.evaluateActive(ctx, sig, tick, tickOK)
	}
	return nil
}

func (w *Watcher) evaluateWaiting(ctx context.Context, sig model.Signal, tick model.Tick, tickOK bool) error {
	if w.now().After(sig.EntryDeadline) {
		_, err := w.trans.TryTransition(ctx, sig, model.SignalCancelled, "entry window expired")
		return err
	}
	if !tickOK {
		return nil
	}

	// A stop-loss touch before entry means price is already running against
	// the signal; entering now would be chasing a broken setup.
	if w.touched(sig.Direction == model.DirectionBuy, sig.StopLoss, tick) {
		_, err := w.trans.TryTransition(ctx, sig, model.SignalCancelled, "invalidated: stop level touched before entry")
		return err
	}
	if w.touched(sig.Direction == model.DirectionBuy, sig.EntryPrice, tick) {
		_, err := w.trans.TryTransition(ctx, sig, model.SignalEntryHit, "entry touched")
		return err
	}
	w.recordNearMiss("entry", sig, sig.EntryPrice, tick)
	return nil
}

func (w *Watcher) evaluateActive(ctx context.Context, sig model.Signal, tick model.Tick, tickOK bool) error {
	if tickOK {
		// TP and SL run before the timeout check so a target hit exactly at
		// the deadline is recorded as a win/loss, not a timeout.
		if w.touched(sig.Direction != model.DirectionBuy, sig.TakeProfit, tick) {
			_, err := w.trans.TryTransition(ctx, sig, model.SignalTPHit, "take profit touched")
			return err
		}
		if w.touched(sig.Direction == model.DirectionBuy, sig.StopLoss, tick) {
			_, err := w.trans.TryTransition(ctx, sig, model.SignalSLHit, "stop loss touched")
			return err
		}
	}
	if w.now().After(sig.TradeDeadline) {
		_, err := w.trans.TryTransition(ctx, sig, model.SignalTimeExit, "trade deadline elapsed")
		return err
	}
	if tickOK {
		w.recordNearMiss("take_profit", sig, sig.TakeProfit, tick)
		w.recordNearMiss("stop_loss", sig, sig.StopLoss, tick)
	}
	return nil
}

// touched reports whether the observation reached the level within tolerance.
// fromBelow selects which candle extreme must reach down/up to the level:
// true means the low must dip to it, false means the high must rise to it.
func (w *Watcher) touched(fromBelow bool, level float64, tick model.Tick) bool {
	tol := level * w.cfg.Tolerance
	if fromBelow {
		return tick.Low <= level+tol
	}
	return tick.High >= level-tol
}

// recordNearMiss logs observations inside the near-miss band that did not
// touch, as telemetry only; no transition is triggered.
func (w *Watcher) recordNearMiss(label string, sig model.Signal, level float64, tick model.Tick) {
	band := level * w.cfg.NearMissBand
	dLow := abs(tick.Low - level)
	dHigh := abs(tick.High - level)
	d := dLow
	if dHigh < d {
		d = dHigh
	}
	if d <= band {
		metrics.NearMisses.WithLabelValues(label).Inc()
		log.Printf("[INFO] signal %s: near miss on %s, %.5f within %.5f of %.5f", sig.ID, label, d, band, level)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
