package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"StructSentinel/internal/model"
	"StructSentinel/internal/store"
	"StructSentinel/internal/structure"
)

// PlanConfig holds the parameters for turning a directional structure state
// into a concrete signal.
type PlanConfig struct {
	EntryTTL    time.Duration // how long the signal may wait for entry
	TradeTTL    time.Duration // how long an active trade may run
	StopBuffer  float64       // fraction added beyond the anchoring swing
	RewardRatio float64       // take-profit distance as a multiple of risk
	SwingWindow int           // window used to locate the anchoring swing
}

// DefaultPlanConfig returns the standard planning parameters.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		EntryTTL:    30 * time.Minute,
		TradeTTL:    4 * time.Hour,
		StopBuffer:  0.0005,
		RewardRatio: 2.0,
		SwingWindow: 2,
	}
}

// Planner seeds signals from directional structure states. Admission policy:
// one open signal per symbol at a time.
type Planner struct {
	store store.Store
	trans *Transitioner
	cfg   PlanConfig
	now   func() time.Time
}

func NewPlanner(st store.Store, trans *Transitioner, cfg PlanConfig) *Planner {
	d := DefaultPlanConfig()
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = d.EntryTTL
	}
	if cfg.TradeTTL <= 0 {
		cfg.TradeTTL = d.TradeTTL
	}
	if cfg.StopBuffer <= 0 {
		cfg.StopBuffer = d.StopBuffer
	}
	if cfg.RewardRatio <= 0 {
		cfg.RewardRatio = d.RewardRatio
	}
	if cfg.SwingWindow < 1 {
		cfg.SwingWindow = d.SwingWindow
	}
	return &Planner{store: st, trans: trans, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// Seed creates and activates a signal from a directional structure state.
// Returns (nil, nil) when the state is not directional or a signal for the
// symbol is already open. Deadlines are computed once here and never
// re-derived during polling.
func (p *Planner) Seed(ctx context.Context, st *model.StructureState, candles []model.Candle) (*model.Signal, error) {
	var direction model.SignalDirection
	switch st.State {
	case model.StateBullish:
		direction = model.DirectionBuy
	case model.StateBearish:
		direction = model.DirectionSell
	default:
		return nil, nil
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("seed %s: no candles", st.Symbol)
	}

	open, err := p.store.FindBySymbolInStates(ctx, st.Symbol, model.NonTerminalStates()...)
	if err != nil {
		return nil, fmt.Errorf("seed %s: check open signals: %w", st.Symbol, err)
	}
	if len(open) > 0 {
		log.Printf("[INFO] %s: signal %s still open, skipping new signal", st.Symbol, open[0].ID)
		return nil, nil
	}

	entry := candles[len(candles)-1].Close
	stop, err := p.stopLevel(direction, entry, candles)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", st.Symbol, err)
	}

	risk := entry - stop
	if direction == model.DirectionSell {
		risk = stop - entry
	}
	if risk <= 0 {
		return nil, fmt.Errorf("seed %s: stop %.5f does not protect entry %.5f", st.Symbol, stop, entry)
	}

	target := entry + p.cfg.RewardRatio*risk
	if direction == model.DirectionSell {
		target = entry - p.cfg.RewardRatio*risk
	}

	now := p.now()
	sig := &model.Signal{
		ID:            uuid.NewString(),
		Symbol:        st.Symbol,
		Direction:     direction,
		EntryPrice:    entry,
		TakeProfit:    target,
		StopLoss:      stop,
		State:         model.SignalPrepared,
		Reason:        fmt.Sprintf("structure %s, confidence %.2f", st.State, st.Confidence),
		TraceID:       st.TraceID,
		CreatedAt:     now,
		EntryDeadline: now.Add(p.cfg.EntryTTL),
		TradeDeadline: now.Add(p.cfg.TradeTTL),
		UpdatedAt:     now,
	}
	if err := p.store.Insert(ctx, sig); err != nil {
		return nil, err
	}

	ok, err := p.trans.TryTransition(ctx, *sig, model.SignalWaitingForEntry, "signal armed")
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", sig.ID, err)
	}
	if ok {
		sig.State = model.SignalWaitingForEntry
	}
	return sig, nil
}

// stopLevel anchors the stop beyond the latest opposing swing, padded by the
// configured buffer.
func (p *Planner) stopLevel(direction model.SignalDirection, entry float64, candles []model.Candle) (float64, error) {
	swings := structure.DetectSwings(candles, p.cfg.SwingWindow)

	if direction == model.DirectionBuy {
		for i := len(swings) - 1; i >= 0; i-- {
			if swings[i].Kind == model.SwingLow && swings[i].Price < entry {
				return swings[i].Price * (1 - p.cfg.StopBuffer), nil
			}
		}
		return 0, fmt.Errorf("no swing low below entry %.5f", entry)
	}
	for i := len(swings) - 1; i >= 0; i-- {
		if swings[i].Kind == model.SwingHigh && swings[i].Price > entry {
			return swings[i].Price * (1 + p.cfg.StopBuffer), nil
		}
	}
	return 0, fmt.Errorf("no swing high above entry %.5f", entry)
}
