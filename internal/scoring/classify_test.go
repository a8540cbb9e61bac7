package scoring

import (
	"errors"
	"testing"
)

func standardProfiles() []Profile {
	return []Profile{
		{Key: "needs_improvement", Name: "Needs improvement", MinScore: 0, MaxScore: 60},
		{Key: "good", Name: "Good", MinScore: 60, MaxScore: 85},
		{Key: "excellent", Name: "Excellent", MinScore: 85, MaxScore: 100},
	}
}

func TestClassifyBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "needs_improvement"},
		{59.999, "needs_improvement"},
		{60, "good"},
		{66.7, "good"}, // Scenario C
		{84.999, "good"},
		{85, "excellent"},
		{99.9, "excellent"},
		{100, "excellent"}, // top bracket admits its upper bound
	}
	profiles := standardProfiles()
	for _, c := range cases {
		got, err := Classify(c.score, profiles)
		if err != nil {
			t.Fatalf("Classify(%v): %v", c.score, err)
		}
		if got.Key != c.want {
			t.Errorf("Classify(%v) = %q, want %q", c.score, got.Key, c.want)
		}
	}
}

func TestClassifyHalfOpenBoundary(t *testing.T) {
	profiles := []Profile{{Key: "top", MinScore: 80, MaxScore: 100}}
	if got, err := Classify(80, profiles); err != nil || got.Key != "top" {
		t.Errorf("Classify(80) = %v, %v; want top", got.Key, err)
	}
	if _, err := Classify(79.999, profiles); err == nil {
		t.Error("Classify(79.999) matched; 80 is the inclusive lower bound")
	}
}

func TestClassifyGap(t *testing.T) {
	profiles := []Profile{
		{Key: "low", MinScore: 0, MaxScore: 40},
		{Key: "high", MinScore: 70, MaxScore: 100},
	}
	_, err := Classify(55, profiles)
	var gap *NoMatchingProfileError
	if !errors.As(err, &gap) {
		t.Fatalf("err = %v, want NoMatchingProfileError", err)
	}
	if gap.Score != 55 {
		t.Errorf("gap.Score = %v, want 55", gap.Score)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	profiles := standardProfiles()
	first, err := Classify(72.4, profiles)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Classify(72.4, profiles)
		if err != nil {
			t.Fatal(err)
		}
		if again.Key != first.Key {
			t.Fatalf("classification changed between calls: %q vs %q", again.Key, first.Key)
		}
	}
}

func TestClassifyEmptyCatalog(t *testing.T) {
	var gap *NoMatchingProfileError
	if _, err := Classify(50, nil); !errors.As(err, &gap) {
		t.Errorf("err = %v, want NoMatchingProfileError", err)
	}
}
