package feed

import (
	"context"

	"StructSentinel/internal/model"
)

// CandleFeed supplies an ordered, gap-free, timeframe-aligned candle series.
// The core does not reconstruct missing candles.
type CandleFeed interface {
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error)
	Name() string
}

// PriceFeed supplies the single most recent OHLC observation per poll cycle.
// ok is false when no fresh observation is available; callers must skip touch
// checks for that cycle but still run their timeout checks.
type PriceFeed interface {
	FetchTick(ctx context.Context, symbol string) (tick model.Tick, ok bool, err error)
}
