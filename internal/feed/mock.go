package feed

import (
	"context"

	"StructSentinel/internal/model"
)

// MockFeed returns controllable fixed data for development and testing.
type MockFeed struct {
	Candles []model.Candle
	Tick    model.Tick
	TickOK  bool
	Err     error
}

func (m *MockFeed) Name() string { return "mock" }

func (m *MockFeed) FetchCandles(_ context.Context, _, _ string, limit int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Candles) > limit {
		return m.Candles[len(m.Candles)-limit:], nil
	}
	return m.Candles, nil
}

func (m *MockFeed) FetchTick(_ context.Context, _ string) (model.Tick, bool, error) {
	if m.Err != nil {
		return model.Tick{}, false, m.Err
	}
	return m.Tick, m.TickOK, nil
}
