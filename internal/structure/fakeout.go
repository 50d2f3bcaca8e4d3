package structure

import "StructSentinel/internal/model"

const (
	fakeWickThreshold  = 0.60 // total wick ≥ 60% of range
	fakeBodyThreshold  = 0.30 // body < 30% of range
	fakeConditionCount = 2    // conditions required to call a break fake
	followThroughSpan  = 2    // candles inspected after the break
)

// FakeBreakoutChecks counts how many of the four independent fake-breakout
// conditions hold for a structure event: close not accepted beyond the level,
// dominant wick, weak body, and missing follow-through.
func FakeBreakoutChecks(candles []model.Candle, ev model.StructureEvent) int {
	c := candles[ev.CandleIndex]
	checks := 0

	if !ev.CloseAccepted {
		checks++
	}
	if r := c.Range(); r > 0 && (r-c.Body())/r >= fakeWickThreshold {
		checks++
	}
	if c.BodyRatio() < fakeBodyThreshold {
		checks++
	}
	if !hasFollowThrough(candles, ev) {
		checks++
	}
	return checks
}

// IsFakeBreakout reports whether the break should be discounted as fake.
func IsFakeBreakout(candles []model.Candle, ev model.StructureEvent) bool {
	return FakeBreakoutChecks(candles, ev) >= fakeConditionCount
}

// hasFollowThrough requires at least half of the next candles after the break
// to close beyond the broken level. A break at the end of the series has no
// follow-through by definition.
func hasFollowThrough(candles []model.Candle, ev model.StructureEvent) bool {
	confirmed := 0
	for i := ev.CandleIndex + 1; i <= ev.CandleIndex+followThroughSpan && i < len(candles); i++ {
		switch ev.Direction {
		case model.Bullish:
			if candles[i].Close > ev.BrokenLevel {
				confirmed++
			}
		case model.Bearish:
			if candles[i].Close < ev.BrokenLevel {
				confirmed++
			}
		}
	}
	return float64(confirmed) >= float64(followThroughSpan)/2
}
