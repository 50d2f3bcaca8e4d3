package structure

import (
	"fmt"

	"StructSentinel/internal/model"
)

// baseWeights maps each evidence kind to its base contribution. The fakeout
// weight is negative: a rejected break argues against its own direction.
var baseWeights = map[model.EvidenceKind]float64{
	model.EvidenceBOS:      0.6,
	model.EvidenceCHoCH:    0.5,
	model.EvidenceBreak:    0.4,
	model.EvidenceFakeout:  -0.4,
	model.EvidenceGapZone:  0.3,
	model.EvidenceStopHunt: 0.3,
	model.EvidenceNote:     0,
}

// BaseWeight returns the base contribution for an evidence kind.
func BaseWeight(kind model.EvidenceKind) float64 { return baseWeights[kind] }

// Aggregate sums baseWeight × strength × quality per direction.
// A per-side total is floored at zero so that heavily discounted sides do not
// distort the dominance ratio.
func Aggregate(evidence []model.Evidence) model.Dominance {
	var d model.Dominance
	for _, ev := range evidence {
		contribution := baseWeights[ev.Kind] * ev.Strength * ev.Quality
		switch ev.Direction {
		case model.Bullish:
			d.Bullish += contribution
		case model.Bearish:
			d.Bearish += contribution
		}
	}
	if d.Bullish < 0 {
		d.Bullish = 0
	}
	if d.Bearish < 0 {
		d.Bearish = 0
	}
	return d
}

const (
	minEvidenceTotal = 0.3 // below this the picture is unclear
	decisiveRatio    = 2.0
	leanRatio        = 1.2
)

// Resolve converts aggregated dominance scores into the final categorical
// state and confidence. Thresholds are relative (dominance ratios), not
// absolute score cutoffs.
func Resolve(d model.Dominance) (model.MarketState, float64) {
	total := d.Bullish + d.Bearish
	if total < minEvidenceTotal {
		return model.StateUnclear, 0
	}
	confidence := (d.Bullish - d.Bearish) / total
	if confidence < 0 {
		confidence = -confidence
	}

	switch {
	case d.Bullish >= decisiveRatio*d.Bearish:
		return model.StateBullish, confidence
	case d.Bearish >= decisiveRatio*d.Bullish:
		return model.StateBearish, confidence
	case d.Bullish > leanRatio*d.Bearish:
		return model.StateBullish, confidence
	case d.Bearish > leanRatio*d.Bullish:
		return model.StateBearish, confidence
	default:
		return model.StateRange, confidence
	}
}

// EventEvidence projects a structure event into positive evidence. Quality is
// full for close-accepted breaks and reduced for wick-only pierces. Breaks
// that happened under a ranging trend score with the generic break weight.
func EventEvidence(ev model.StructureEvent) model.Evidence {
	kind := model.EvidenceBOS
	if ev.Kind == model.EventCHoCH {
		kind = model.EvidenceCHoCH
	}
	if ev.Trend == model.TrendRanging {
		kind = model.EvidenceBreak
	}
	quality := 1.0
	if !ev.CloseAccepted {
		quality = 0.6
	}
	return model.Evidence{
		Kind:        kind,
		Direction:   ev.Direction,
		Strength:    ev.BodyStrength,
		Quality:     quality,
		Description: fmt.Sprintf("%s %s of %.5f at candle %d", dirWord(ev.Direction), ev.Kind, ev.BrokenLevel, ev.CandleIndex),
		Break: &model.BreakDetail{
			Level:         ev.BrokenLevel,
			CandleIndex:   ev.CandleIndex,
			BodyStrength:  ev.BodyStrength,
			CloseAccepted: ev.CloseAccepted,
		},
	}
}

// FakeoutEvidence projects a rejected break into negative evidence against
// the break's own direction.
func FakeoutEvidence(ev model.StructureEvent, checks int) model.Evidence {
	return model.Evidence{
		Kind:        model.EvidenceFakeout,
		Direction:   ev.Direction,
		Strength:    ev.BodyStrength,
		Quality:     float64(checks) / 4,
		Description: fmt.Sprintf("fake %s break of %.5f rejected (%d/4 checks)", dirWord(ev.Direction), ev.BrokenLevel, checks),
		Break: &model.BreakDetail{
			Level:         ev.BrokenLevel,
			CandleIndex:   ev.CandleIndex,
			BodyStrength:  ev.BodyStrength,
			CloseAccepted: ev.CloseAccepted,
			FakeChecks:    checks,
		},
	}
}
