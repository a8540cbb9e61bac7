package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestOverallWeightedScenario(t *testing.T) {
	// Leadership 75% weight 2, Communication 50% weight 1 → (75*2+50)/3
	scores := []PillarScore{
		{PillarID: "leadership", Percentage: 75, Weight: 2},
		{PillarID: "communication", Percentage: 50, Weight: 1},
	}
	got, err := Overall(scores)
	if err != nil {
		t.Fatal(err)
	}
	want := (75.0*2 + 50.0*1) / 3
	if !almostEqual(got, want) {
		t.Errorf("overall = %v, want %v", got, want)
	}
	// one-decimal display convention: 66.7
	if math.Round(got*10)/10 != 66.7 {
		t.Errorf("rounded = %v, want 66.7", math.Round(got*10)/10)
	}
}

func TestOverallUnweightedFallback(t *testing.T) {
	scores := []PillarScore{
		{Percentage: 80, Weight: 0},
		{Percentage: 40, Weight: 0},
	}
	got, err := Overall(scores)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 60) {
		t.Errorf("overall = %v, want 60 (plain mean when no weights)", got)
	}
}

func TestOverallEmpty(t *testing.T) {
	if _, err := Overall(nil); !errors.Is(err, ErrSessionEmpty) {
		t.Errorf("err = %v, want ErrSessionEmpty", err)
	}
}

// Weighted averages stay within [min, max] of the input percentages.
func TestOverallBoundedness(t *testing.T) {
	cases := [][]PillarScore{
		{{Percentage: 10, Weight: 1}, {Percentage: 90, Weight: 5}},
		{{Percentage: 0, Weight: 3}, {Percentage: 100, Weight: 3}, {Percentage: 55, Weight: 0.5}},
		{{Percentage: 33.3, Weight: 0}, {Percentage: 66.6, Weight: 2}},
		{{Percentage: 42, Weight: 7}},
	}
	for i, scores := range cases {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range scores {
			lo = math.Min(lo, s.Percentage)
			hi = math.Max(hi, s.Percentage)
		}
		got, err := Overall(scores)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if got < lo-1e-9 || got > hi+1e-9 {
			t.Errorf("case %d: overall %v outside [%v, %v]", i, got, lo, hi)
		}
	}
}
