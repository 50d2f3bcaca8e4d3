package structure

import (
	"testing"

	"StructSentinel/internal/model"
)

func TestFakeBreakout_GenuineBreak(t *testing.T) {
	// Strong accepted body with follow-through: zero conditions hold.
	candles := series(
		[4]float64{1.1000, 1.1012, 1.0998, 1.1005},
		[4]float64{1.1005, 1.1030, 1.1004, 1.1028},
		[4]float64{1.1028, 1.1035, 1.1020, 1.1032},
		[4]float64{1.1032, 1.1040, 1.1025, 1.1038},
	)
	ev := model.StructureEvent{
		Direction:     model.Bullish,
		BrokenLevel:   1.1010,
		CandleIndex:   1,
		BodyStrength:  candles[1].BodyRatio(),
		CloseAccepted: true,
	}
	if checks := FakeBreakoutChecks(candles, ev); checks != 0 {
		t.Errorf("expected 0 fake conditions, got %d", checks)
	}
	if IsFakeBreakout(candles, ev) {
		t.Error("genuine break classified as fake")
	}
}

func TestFakeBreakout_AllConditions(t *testing.T) {
	// Wick-dominated candle closing back below the level, no follow-through.
	candles := series(
		[4]float64{1.1000, 1.1012, 1.0998, 1.1005},
		[4]float64{1.1008, 1.1030, 1.1006, 1.1009},
		[4]float64{1.1009, 1.1012, 1.0995, 1.1000},
		[4]float64{1.1000, 1.1005, 1.0990, 1.0995},
	)
	ev := model.StructureEvent{
		Direction:     model.Bullish,
		BrokenLevel:   1.1010,
		CandleIndex:   1,
		BodyStrength:  candles[1].BodyRatio(),
		CloseAccepted: false,
	}
	if checks := FakeBreakoutChecks(candles, ev); checks != 4 {
		t.Errorf("expected all 4 fake conditions, got %d", checks)
	}
	if !IsFakeBreakout(candles, ev) {
		t.Error("wick-only rejected break not classified as fake")
	}
}

func TestFakeBreakout_TwoConditionBoundary(t *testing.T) {
	// Strong body, but close not accepted and no follow-through: exactly 2.
	candles := series(
		[4]float64{1.1000, 1.1012, 1.0998, 1.1005},
		[4]float64{1.0995, 1.1015, 1.0993, 1.1008},
		[4]float64{1.1008, 1.1009, 1.0996, 1.1000},
		[4]float64{1.1000, 1.1006, 1.0992, 1.0998},
	)
	ev := model.StructureEvent{
		Direction:     model.Bullish,
		BrokenLevel:   1.1010,
		CandleIndex:   1,
		BodyStrength:  candles[1].BodyRatio(),
		CloseAccepted: false,
	}
	if checks := FakeBreakoutChecks(candles, ev); checks != 2 {
		t.Fatalf("expected exactly 2 fake conditions, got %d", checks)
	}
	if !IsFakeBreakout(candles, ev) {
		t.Error("two conditions must already classify the break as fake")
	}
}

func TestFakeBreakout_FollowThroughRescues(t *testing.T) {
	// Same candle shape, but the next two candles close beyond the level:
	// only the unaccepted-close condition remains.
	candles := series(
		[4]float64{1.1000, 1.1012, 1.0998, 1.1005},
		[4]float64{1.0995, 1.1015, 1.0993, 1.1008},
		[4]float64{1.1008, 1.1020, 1.1006, 1.1018},
		[4]float64{1.1018, 1.1025, 1.1012, 1.1022},
	)
	ev := model.StructureEvent{
		Direction:     model.Bullish,
		BrokenLevel:   1.1010,
		CandleIndex:   1,
		BodyStrength:  candles[1].BodyRatio(),
		CloseAccepted: false,
	}
	if checks := FakeBreakoutChecks(candles, ev); checks != 1 {
		t.Fatalf("expected 1 fake condition, got %d", checks)
	}
	if IsFakeBreakout(candles, ev) {
		t.Error("break with follow-through classified as fake")
	}
}

func TestFakeBreakout_BreakAtSeriesEnd(t *testing.T) {
	// No candles after the break: follow-through cannot be confirmed.
	candles := series(
		[4]float64{1.1000, 1.1012, 1.0998, 1.1005},
		[4]float64{1.1005, 1.1030, 1.1004, 1.1028},
	)
	ev := model.StructureEvent{
		Direction:     model.Bullish,
		BrokenLevel:   1.1010,
		CandleIndex:   1,
		BodyStrength:  candles[1].BodyRatio(),
		CloseAccepted: true,
	}
	if checks := FakeBreakoutChecks(candles, ev); checks != 1 {
		t.Errorf("expected only the follow-through condition, got %d", checks)
	}
}
