package structure

import "StructSentinel/internal/model"

// DetectSwings finds confirmed swing points using a symmetric ±window scan.
// A candle at index i is a swing HIGH only if its high strictly exceeds the
// highs of all `window` candles on both sides; LOW is the mirror with strict
// lows. No swing is produced within `window` candles of either boundary.
// Returned points are ordered by index.
func DetectSwings(candles []model.Candle, window int) []model.SwingPoint {
	if window < 1 {
		window = 1
	}
	var swings []model.SwingPoint
	for i := window; i < len(candles)-window; i++ {
		if isSwingHigh(candles, i, window) {
			swings = append(swings, model.SwingPoint{
				Index:    i,
				Price:    candles[i].High,
				Kind:     model.SwingHigh,
				Strength: window,
			})
			continue
		}
		if isSwingLow(candles, i, window) {
			swings = append(swings, model.SwingPoint{
				Index:    i,
				Price:    candles[i].Low,
				Kind:     model.SwingLow,
				Strength: window,
			})
		}
	}
	return swings
}

func isSwingHigh(candles []model.Candle, i, window int) bool {
	h := candles[i].High
	for j := i - window; j <= i+window; j++ {
		if j == i {
			continue
		}
		if candles[j].High >= h {
			return false
		}
	}
	return true
}

func isSwingLow(candles []model.Candle, i, window int) bool {
	l := candles[i].Low
	for j := i - window; j <= i+window; j++ {
		if j == i {
			continue
		}
		if candles[j].Low <= l {
			return false
		}
	}
	return true
}

// lastSwing returns the most recent swing of the given kind, or false when none exists.
func lastSwing(swings []model.SwingPoint, kind model.SwingKind) (model.SwingPoint, bool) {
	for i := len(swings) - 1; i >= 0; i-- {
		if swings[i].Kind == kind {
			return swings[i], true
		}
	}
	return model.SwingPoint{}, false
}
