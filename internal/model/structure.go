package model

// Direction is the side a piece of structural evidence argues for.
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Bullish {
		return Bearish
	}
	return Bullish
}

// SwingKind distinguishes confirmed local highs from confirmed local lows.
type SwingKind string

const (
	SwingHigh SwingKind = "HIGH"
	SwingLow  SwingKind = "LOW"
)

// SwingPoint is a locally extreme candle high/low confirmed by n candles on each side.
// Immutable once created; ordered by Index within a detection pass.
type SwingPoint struct {
	Index    int
	Price    float64
	Kind     SwingKind
	Strength int // symmetric confirmation count
}

// Trend labels the prevailing swing structure at the time of a break.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendRanging Trend = "RANGING"
)

// EventKind classifies a structural break relative to the prevailing trend.
type EventKind string

const (
	// EventBOS is a break of structure in the direction of the trend.
	EventBOS EventKind = "BOS"
	// EventCHoCH is a break against the trend, signalling possible reversal.
	EventCHoCH EventKind = "CHOCH"
)

// StructureEvent records a swing level being pierced by a later candle.
type StructureEvent struct {
	Kind          EventKind
	Direction     Direction
	BrokenLevel   float64
	CandleIndex   int
	BodyStrength  float64 // breaking candle body as fraction of its range, [0,1]
	CloseAccepted bool    // close beyond the level, not just a wick
	Trend         Trend   // trend context at classification time
}

// EvidenceKind tags one shape of structural evidence.
type EvidenceKind string

const (
	EvidenceBOS      EvidenceKind = "BOS"
	EvidenceCHoCH    EvidenceKind = "CHOCH"
	EvidenceBreak    EvidenceKind = "BREAK" // break under a ranging trend
	EvidenceFakeout  EvidenceKind = "FAKEOUT"
	EvidenceGapZone  EvidenceKind = "GAP_ZONE"
	EvidenceStopHunt EvidenceKind = "STOP_HUNT"
	EvidenceNote     EvidenceKind = "NOTE" // carries error/insufficient-data text, weight zero
)

// BreakDetail is the payload for BOS/CHoCH/break/fakeout evidence.
type BreakDetail struct {
	Level         float64
	CandleIndex   int
	BodyStrength  float64
	CloseAccepted bool
	FakeChecks    int // fake-breakout conditions that held (0 when genuine)
}

// GapDetail is the payload for gap-zone evidence.
type GapDetail struct {
	Top          float64
	Bottom       float64
	ImpulseIndex int
	ImpulseBody  float64 // impulse candle body ratio
}

// SweepDetail is the payload for stop-hunt evidence.
type SweepDetail struct {
	SweptLevel  float64
	CandleIndex int
	Penetration float64 // wick penetration as fraction of candle range
}

// Evidence is one immutable, signed contribution to the dominance scores.
// Exactly one payload pointer is set, matching Kind; Note evidence has none.
type Evidence struct {
	Kind        EvidenceKind
	Direction   Direction
	Strength    float64 // [0,1]
	Quality     float64 // [0,1]
	Description string  // presentation only, never re-parsed
	Break       *BreakDetail
	Gap         *GapDetail
	Sweep       *SweepDetail
}

// MarketState is the final categorical structure verdict.
type MarketState string

const (
	StateBullish MarketState = "bullish"
	StateBearish MarketState = "bearish"
	StateRange   MarketState = "range"
	StateUnclear MarketState = "unclear"
)

// Dominance holds the aggregated evidence score per direction.
type Dominance struct {
	Bullish float64
	Bearish float64
}

// StructureState is the one immutable result object per analysis call.
type StructureState struct {
	Symbol     string
	Timeframe  string
	State      MarketState
	Confidence float64 // [0,1]
	Dominance  Dominance
	Evidence   []Evidence
	TraceID    string
}
