package catalog

import (
	"errors"
	"testing"
)

func TestValidateProfileRangeOverlap(t *testing.T) {
	existing := []ResultProfile{
		{ID: "p1", Key: "good", Name: "Good", MinScore: 60, MaxScore: 85},
	}
	// Scenario: creating [50,90] over existing [60,85) must be rejected
	err := ValidateProfileRange(ResultProfile{ID: "p2", Key: "wide", MinScore: 50, MaxScore: 90}, existing)
	var overlap *RangeOverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("err = %v, want RangeOverlapError", err)
	}
	if overlap.Key != "good" {
		t.Errorf("overlap.Key = %q, want %q (actionable admin message)", overlap.Key, "good")
	}
}

func TestValidateProfileRangePartialOverlaps(t *testing.T) {
	existing := []ResultProfile{{ID: "p1", Key: "mid", MinScore: 40, MaxScore: 60}}
	for _, c := range []struct{ min, max float64 }{
		{30, 45}, // overlaps from below
		{55, 70}, // overlaps from above
		{45, 55}, // contained
		{40, 60}, // identical
	} {
		err := ValidateProfileRange(ResultProfile{ID: "p2", MinScore: c.min, MaxScore: c.max}, existing)
		var overlap *RangeOverlapError
		if !errors.As(err, &overlap) {
			t.Errorf("[%g,%g): err = %v, want RangeOverlapError", c.min, c.max, err)
		}
	}
}

func TestValidateProfileRangeAdjacentOK(t *testing.T) {
	existing := []ResultProfile{{ID: "p1", Key: "mid", MinScore: 40, MaxScore: 60}}
	// half-open ranges: [20,40) and [60,80) touch but do not intersect
	for _, c := range []struct{ min, max float64 }{{20, 40}, {60, 80}} {
		if err := ValidateProfileRange(ResultProfile{ID: "p2", MinScore: c.min, MaxScore: c.max}, existing); err != nil {
			t.Errorf("[%g,%g): unexpected err %v", c.min, c.max, err)
		}
	}
}

func TestValidateProfileRangeInvalid(t *testing.T) {
	for _, c := range []struct{ min, max float64 }{
		{50, 50},  // empty
		{70, 60},  // inverted
		{-5, 20},  // below scale
		{90, 110}, // above scale
	} {
		err := ValidateProfileRange(ResultProfile{MinScore: c.min, MaxScore: c.max}, nil)
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("[%g,%g): err = %v, want ErrInvalidRange", c.min, c.max, err)
		}
	}
}

func TestValidateProfileRangeSkipsSelfOnUpdate(t *testing.T) {
	existing := []ResultProfile{{ID: "p1", Key: "mid", MinScore: 40, MaxScore: 60}}
	// shrinking p1 within its own old range is fine
	if err := ValidateProfileRange(ResultProfile{ID: "p1", MinScore: 45, MaxScore: 60}, existing); err != nil {
		t.Errorf("update over self: unexpected err %v", err)
	}
}

// Any catalog the validator accepted piecewise has pairwise-disjoint ranges.
func TestValidatedCatalogIsDisjoint(t *testing.T) {
	candidates := []ResultProfile{
		{ID: "a", Key: "a", MinScore: 0, MaxScore: 25},
		{ID: "b", Key: "b", MinScore: 25, MaxScore: 50},
		{ID: "c", Key: "c", MinScore: 40, MaxScore: 70}, // rejected
		{ID: "d", Key: "d", MinScore: 50, MaxScore: 100},
	}
	accepted := []ResultProfile{}
	for _, c := range candidates {
		if err := ValidateProfileRange(c, accepted); err == nil {
			accepted = append(accepted, c)
		}
	}
	if len(accepted) != 3 {
		t.Fatalf("accepted %d profiles, want 3", len(accepted))
	}
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			if a.MinScore < b.MaxScore && b.MinScore < a.MaxScore {
				t.Errorf("profiles %s and %s intersect", a.ID, b.ID)
			}
		}
	}
}
