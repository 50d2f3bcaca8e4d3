package structure

import "StructSentinel/internal/model"

// maxRecentSwings bounds how many of the latest swings are tested for breaks.
const maxRecentSwings = 10

// TrendContext derives the prevailing trend from the two most recent
// HIGH/LOW swing pairs: higher high + higher low means uptrend, lower low +
// lower high means downtrend, anything else is ranging.
func TrendContext(swings []model.SwingPoint) model.Trend {
	var highs, lows []model.SwingPoint
	for _, s := range swings {
		switch s.Kind {
		case model.SwingHigh:
			highs = append(highs, s)
		case model.SwingLow:
			lows = append(lows, s)
		}
	}
	if len(highs) < 2 || len(lows) < 2 {
		return model.TrendRanging
	}
	h1, h2 := highs[len(highs)-2], highs[len(highs)-1]
	l1, l2 := lows[len(lows)-2], lows[len(lows)-1]

	if h2.Price > h1.Price && l2.Price > l1.Price {
		return model.TrendUp
	}
	if l2.Price < l1.Price && h2.Price < h1.Price {
		return model.TrendDown
	}
	return model.TrendRanging
}

// DetectEvents tests the most recent swings against all later candles and
// emits one break event per pierced swing: the first candle whose high/low
// crosses the swing price. A close beyond the level is an accepted break,
// a wick-only pierce is not. Break direction matching the trend is a BOS,
// against it a CHoCH.
func DetectEvents(candles []model.Candle, swings []model.SwingPoint) []model.StructureEvent {
	trend := TrendContext(swings)

	recent := swings
	if len(recent) > maxRecentSwings {
		recent = recent[len(recent)-maxRecentSwings:]
	}

	var events []model.StructureEvent
	for _, sw := range recent {
		for i := sw.Index + 1; i < len(candles); i++ {
			c := candles[i]
			var dir model.Direction
			var accepted bool
			switch sw.Kind {
			case model.SwingHigh:
				if c.High <= sw.Price {
					continue
				}
				dir = model.Bullish
				accepted = c.Close > sw.Price
			case model.SwingLow:
				if c.Low >= sw.Price {
					continue
				}
				dir = model.Bearish
				accepted = c.Close < sw.Price
			}
			events = append(events, model.StructureEvent{
				Kind:          classifyBreak(trend, dir),
				Direction:     dir,
				BrokenLevel:   sw.Price,
				CandleIndex:   i,
				BodyStrength:  c.BodyRatio(),
				CloseAccepted: accepted,
				Trend:         trend,
			})
			break
		}
	}
	return events
}

func classifyBreak(trend model.Trend, dir model.Direction) model.EventKind {
	if (trend == model.TrendUp && dir == model.Bullish) ||
		(trend == model.TrendDown && dir == model.Bearish) {
		return model.EventBOS
	}
	return model.EventCHoCH
}
