package structure

import (
	"fmt"

	"StructSentinel/internal/model"
)

// DetectStopHunts finds wick-only breaches of a swing level where the candle
// closes back inside the prior range: a sweep of a swing HIGH argues bearish
// (liquidity above was taken), a sweep of a swing LOW argues bullish.
// Strength is the wick penetration beyond the level as a fraction of the
// sweeping candle's range.
func DetectStopHunts(candles []model.Candle, swings []model.SwingPoint) []model.Evidence {
	recent := swings
	if len(recent) > maxRecentSwings {
		recent = recent[len(recent)-maxRecentSwings:]
	}

	var out []model.Evidence
	for _, sw := range recent {
		for i := sw.Index + 1; i < len(candles); i++ {
			c := candles[i]
			r := c.Range()
			if r <= 0 {
				continue
			}
			switch sw.Kind {
			case model.SwingHigh:
				if c.High <= sw.Price {
					continue
				}
				if c.Close >= sw.Price {
					// Close accepted beyond the level: a break, not a sweep.
					break
				}
				out = append(out, sweepEvidence(model.Bearish, sw.Price, i, (c.High-sw.Price)/r))
			case model.SwingLow:
				if c.Low >= sw.Price {
					continue
				}
				if c.Close <= sw.Price {
					break
				}
				out = append(out, sweepEvidence(model.Bullish, sw.Price, i, (sw.Price-c.Low)/r))
			}
			break
		}
	}
	return out
}

func sweepEvidence(dir model.Direction, level float64, idx int, penetration float64) model.Evidence {
	if penetration > 1 {
		penetration = 1
	}
	return model.Evidence{
		Kind:        model.EvidenceStopHunt,
		Direction:   dir,
		Strength:    penetration,
		Quality:     1 - penetration/2, // shallow sweeps that snap back are the cleanest
		Description: fmt.Sprintf("stop hunt through %.5f rejected (%s)", level, dirWord(dir)),
		Sweep: &model.SweepDetail{
			SweptLevel:  level,
			CandleIndex: idx,
			Penetration: penetration,
		},
	}
}
