package model

import (
	"fmt"
	"math"
	"time"
)

// Candle represents a single OHLC bar, timeframe-aligned and UTC.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Validate checks the basic OHLC geometry: low ≤ min(open,close) ≤ max(open,close) ≤ high,
// all values finite and positive.
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("candle at %s: non-finite or non-positive price", c.Time.Format(time.RFC3339))
		}
	}
	if c.Low > math.Min(c.Open, c.Close) || c.High < math.Max(c.Open, c.Close) {
		return fmt.Errorf("candle at %s: low/high do not bound open/close", c.Time.Format(time.RFC3339))
	}
	return nil
}

// Range returns high minus low.
func (c Candle) Range() float64 { return c.High - c.Low }

// Body returns the absolute open-to-close distance.
func (c Candle) Body() float64 { return math.Abs(c.Close - c.Open) }

// BodyRatio returns body size as a fraction of the full range, clamped to [0,1].
func (c Candle) BodyRatio() float64 {
	r := c.Range()
	if r <= 0 {
		return 0
	}
	ratio := c.Body() / r
	if ratio > 1 {
		return 1
	}
	return ratio
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool { return c.Close > c.Open }

// Tick is the most recent OHLC observation from the price feed,
// used by the lifecycle watcher for touch detection.
type Tick struct {
	Time  time.Time
	High  float64
	Low   float64
	Close float64
}
