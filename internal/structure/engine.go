package structure

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"StructSentinel/internal/model"
)

// Config holds the tunable parameters of the reasoning pipeline.
type Config struct {
	SwingWindow int // symmetric confirmation window n
}

// DefaultConfig returns the standard pipeline parameters.
func DefaultConfig() Config {
	return Config{SwingWindow: 2}
}

// Engine runs the full structure reasoning pipeline: swings, break events,
// fake-breakout filtering, supplementary evidence, scoring, and resolution.
// Analyze is deterministic for a fixed candle series except for the trace id.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine, applying defaults for zero-valued config.
func NewEngine(cfg Config) *Engine {
	if cfg.SwingWindow < 1 {
		cfg.SwingWindow = DefaultConfig().SwingWindow
	}
	return &Engine{cfg: cfg}
}

const rangeConfidence = 0.6 // fixed confidence when no break events exist

// Analyze converts a candle series into a StructureState. Analysis failure
// never propagates: any panic is converted into an unclear state carrying the
// error text as evidence.
func (e *Engine) Analyze(candles []model.Candle, symbol, timeframe string) (result *model.StructureState) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] structure analysis for %s %s: %v", symbol, timeframe, r)
			result = e.unclear(symbol, timeframe, fmt.Sprintf("analysis failed: %v", r))
		}
	}()

	for _, c := range candles {
		if err := c.Validate(); err != nil {
			return e.unclear(symbol, timeframe, fmt.Sprintf("malformed input: %v", err))
		}
	}

	swings := DetectSwings(candles, e.cfg.SwingWindow)
	if len(swings) < 2 {
		return e.unclear(symbol, timeframe, fmt.Sprintf("insufficient data: %d swings", len(swings)))
	}

	events := DetectEvents(candles, swings)
	if len(events) == 0 {
		return &model.StructureState{
			Symbol:     symbol,
			Timeframe:  timeframe,
			State:      model.StateRange,
			Confidence: rangeConfidence,
			TraceID:    uuid.NewString(),
		}
	}

	evidence := make([]model.Evidence, 0, len(events))
	for _, ev := range events {
		if checks := FakeBreakoutChecks(candles, ev); checks >= fakeConditionCount {
			evidence = append(evidence, FakeoutEvidence(ev, checks))
		} else {
			evidence = append(evidence, EventEvidence(ev))
		}
	}
	evidence = append(evidence, DetectGapZones(candles)...)
	evidence = append(evidence, DetectStopHunts(candles, swings)...)

	dominance := Aggregate(evidence)
	state, confidence := Resolve(dominance)

	return &model.StructureState{
		Symbol:     symbol,
		Timeframe:  timeframe,
		State:      state,
		Confidence: confidence,
		Dominance:  dominance,
		Evidence:   evidence,
		TraceID:    uuid.NewString(),
	}
}

func (e *Engine) unclear(symbol, timeframe, why string) *model.StructureState {
	return &model.StructureState{
		Symbol:    symbol,
		Timeframe: timeframe,
		State:     model.StateUnclear,
		Evidence: []model.Evidence{{
			Kind:        model.EvidenceNote,
			Description: why,
		}},
		TraceID: uuid.NewString(),
	}
}
