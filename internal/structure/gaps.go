package structure

import (
	"fmt"

	"StructSentinel/internal/model"
)

// DetectGapZones scans for unfilled price imbalances: a bullish gap exists
// when the candle after an impulse opens its low above the high of the candle
// before it (mirror for bearish). A gap later traded through is considered
// filled and dropped. Strength follows the impulse candle's body ratio,
// quality the gap size relative to the impulse range.
func DetectGapZones(candles []model.Candle) []model.Evidence {
	var out []model.Evidence
	for i := 1; i < len(candles)-1; i++ {
		prev, impulse, next := candles[i-1], candles[i], candles[i+1]

		if next.Low > prev.High {
			top, bottom := next.Low, prev.High
			if gapFilled(candles, i+2, bottom, model.Bullish) {
				continue
			}
			out = append(out, gapEvidence(model.Bullish, top, bottom, i, impulse))
		}
		if next.High < prev.Low {
			top, bottom := prev.Low, next.High
			if gapFilled(candles, i+2, top, model.Bearish) {
				continue
			}
			out = append(out, gapEvidence(model.Bearish, top, bottom, i, impulse))
		}
	}
	return out
}

// gapFilled reports whether any later candle traded back through the far edge of the gap.
func gapFilled(candles []model.Candle, from int, edge float64, dir model.Direction) bool {
	for i := from; i < len(candles); i++ {
		if dir == model.Bullish && candles[i].Low <= edge {
			return true
		}
		if dir == model.Bearish && candles[i].High >= edge {
			return true
		}
	}
	return false
}

func gapEvidence(dir model.Direction, top, bottom float64, impulseIdx int, impulse model.Candle) model.Evidence {
	body := impulse.BodyRatio()
	quality := 0.0
	if r := impulse.Range(); r > 0 {
		quality = (top - bottom) / r
		if quality > 1 {
			quality = 1
		}
	}
	return model.Evidence{
		Kind:        model.EvidenceGapZone,
		Direction:   dir,
		Strength:    body,
		Quality:     quality,
		Description: fmt.Sprintf("unfilled %s gap %.5f-%.5f", dirWord(dir), bottom, top),
		Gap: &model.GapDetail{
			Top:          top,
			Bottom:       bottom,
			ImpulseIndex: impulseIdx,
			ImpulseBody:  body,
		},
	}
}

func dirWord(dir model.Direction) string {
	if dir == model.Bullish {
		return "bullish"
	}
	return "bearish"
}
