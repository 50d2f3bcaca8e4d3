package structure

import (
	"math"
	"testing"

	"StructSentinel/internal/model"
)

func TestDetectGapZones_UnfilledBullishGap(t *testing.T) {
	candles := series(
		[4]float64{1.1000, 1.1005, 1.0995, 1.1003},
		[4]float64{1.1003, 1.1030, 1.1002, 1.1028}, // impulse
		[4]float64{1.1028, 1.1040, 1.1010, 1.1035},
		[4]float64{1.1035, 1.1045, 1.1030, 1.1040},
	)
	evidence := DetectGapZones(candles)
	if len(evidence) != 1 {
		t.Fatalf("expected 1 gap, got %d: %+v", len(evidence), evidence)
	}
	gap := evidence[0]
	if gap.Kind != model.EvidenceGapZone || gap.Direction != model.Bullish {
		t.Errorf("unexpected gap evidence: %+v", gap)
	}
	if gap.Gap == nil {
		t.Fatal("gap payload missing")
	}
	if math.Abs(gap.Gap.Bottom-1.1005) > 1e-9 || math.Abs(gap.Gap.Top-1.1010) > 1e-9 {
		t.Errorf("unexpected gap bounds: %+v", gap.Gap)
	}
	if gap.Strength <= 0.5 {
		t.Errorf("impulse body should drive strength, got %.2f", gap.Strength)
	}
}

func TestDetectGapZones_FilledGapDropped(t *testing.T) {
	candles := series(
		[4]float64{1.1000, 1.1005, 1.0995, 1.1003},
		[4]float64{1.1003, 1.1030, 1.1002, 1.1028},
		[4]float64{1.1028, 1.1040, 1.1010, 1.1035},
		[4]float64{1.1010, 1.1015, 1.1000, 1.1005}, // trades back through the gap
	)
	if evidence := DetectGapZones(candles); len(evidence) != 0 {
		t.Fatalf("filled gap must be dropped, got %+v", evidence)
	}
}

func TestDetectGapZones_BearishMirror(t *testing.T) {
	candles := series(
		[4]float64{1.1040, 1.1045, 1.1035, 1.1038},
		[4]float64{1.1038, 1.1039, 1.1010, 1.1012}, // impulse down
		[4]float64{1.1012, 1.1030, 1.1005, 1.1008},
		[4]float64{1.1008, 1.1015, 1.1000, 1.1005},
	)
	evidence := DetectGapZones(candles)
	if len(evidence) != 1 {
		t.Fatalf("expected 1 bearish gap, got %d: %+v", len(evidence), evidence)
	}
	if evidence[0].Direction != model.Bearish {
		t.Errorf("expected bearish gap, got %s", evidence[0].Direction)
	}
}

func TestDetectStopHunts_SweepOfHighs(t *testing.T) {
	candles := series(
		[4]float64{1.1000, 1.1006, 1.0996, 1.1002},
		[4]float64{1.1002, 1.1020, 1.1000, 1.1012}, // swing high 1.1020
		[4]float64{1.1012, 1.1014, 1.0998, 1.1005},
		[4]float64{1.1005, 1.1026, 1.1002, 1.1008}, // wick through, close back inside
	)
	swings := DetectSwings(candles, 1)
	evidence := DetectStopHunts(candles, swings)

	if len(evidence) != 1 {
		t.Fatalf("expected 1 stop hunt, got %d: %+v", len(evidence), evidence)
	}
	hunt := evidence[0]
	if hunt.Kind != model.EvidenceStopHunt || hunt.Direction != model.Bearish {
		t.Errorf("sweep of highs should argue bearish, got %+v", hunt)
	}
	if hunt.Sweep == nil {
		t.Fatal("sweep payload missing")
	}
	if math.Abs(hunt.Sweep.Penetration-0.25) > 1e-9 {
		t.Errorf("expected penetration 0.25, got %.4f", hunt.Sweep.Penetration)
	}
}

func TestDetectStopHunts_AcceptedBreakIsNotASweep(t *testing.T) {
	candles := series(
		[4]float64{1.1000, 1.1006, 1.0996, 1.1002},
		[4]float64{1.1002, 1.1020, 1.1000, 1.1012},
		[4]float64{1.1012, 1.1014, 1.0998, 1.1005},
		[4]float64{1.1005, 1.1030, 1.1002, 1.1028}, // closes beyond: a break
	)
	swings := DetectSwings(candles, 1)
	for _, ev := range DetectStopHunts(candles, swings) {
		if ev.Sweep != nil && ev.Sweep.SweptLevel == 1.1020 {
			t.Errorf("accepted break misclassified as stop hunt: %+v", ev)
		}
	}
}
