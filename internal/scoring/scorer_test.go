package scoring

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func tenPointQuestion(id string) Question {
	return Question{
		ID:     id,
		Type:   "multiple_choice",
		Active: true,
		Options: []Option{
			{ID: id + "-low", Score: 0},
			{ID: id + "-mid", Score: 5},
			{ID: id + "-high", Score: 10},
		},
	}
}

func TestScorePillarLeadershipScenario(t *testing.T) {
	// two questions scored 0..10; respondent picks 10 and 5 → 75%
	p := Pillar{
		ID:        "leadership",
		Name:      "Leadership",
		Weight:    2,
		Questions: []Question{tenPointQuestion("q1"), tenPointQuestion("q2")},
	}
	resp := Responses{
		"q1": {"q1-high"},
		"q2": {"q2-mid"},
	}
	got, err := ScorePillar(p, resp)
	if err != nil {
		t.Fatalf("ScorePillar: %v", err)
	}
	if !almostEqual(got.Percentage, 75) {
		t.Errorf("percentage = %v, want 75", got.Percentage)
	}
	if got.Answered != 2 {
		t.Errorf("answered = %d, want 2", got.Answered)
	}
	if got.Weight != 2 {
		t.Errorf("weight = %v, want 2", got.Weight)
	}
}

func TestScorePillarRoundTripBounds(t *testing.T) {
	p := Pillar{
		ID:        "p",
		Questions: []Question{tenPointQuestion("q1"), tenPointQuestion("q2"), tenPointQuestion("q3")},
	}

	allMax := Responses{"q1": {"q1-high"}, "q2": {"q2-high"}, "q3": {"q3-high"}}
	got, err := ScorePillar(p, allMax)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got.Percentage, 100) {
		t.Errorf("all-max percentage = %v, want 100", got.Percentage)
	}

	allMin := Responses{"q1": {"q1-low"}, "q2": {"q2-low"}, "q3": {"q3-low"}}
	got, err = ScorePillar(p, allMin)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got.Percentage, 0) {
		t.Errorf("all-min percentage = %v, want 0", got.Percentage)
	}
}

func TestScorePillarIncomplete(t *testing.T) {
	p := Pillar{ID: "p", Questions: []Question{tenPointQuestion("q1")}}
	if _, err := ScorePillar(p, Responses{}); !errors.Is(err, ErrPillarIncomplete) {
		t.Errorf("err = %v, want ErrPillarIncomplete", err)
	}
	// answers for unknown questions don't count either
	if _, err := ScorePillar(p, Responses{"other": {"x"}}); !errors.Is(err, ErrPillarIncomplete) {
		t.Errorf("err = %v, want ErrPillarIncomplete", err)
	}
}

func TestScorePillarSkipsInactiveAndText(t *testing.T) {
	inactive := tenPointQuestion("q2")
	inactive.Active = false
	p := Pillar{
		ID: "p",
		Questions: []Question{
			tenPointQuestion("q1"),
			inactive,
			{ID: "q3", Type: "text", Active: true},
		},
	}
	resp := Responses{
		"q1": {"q1-high"},
		"q2": {"q2-low"}, // inactive, ignored
		"q3": {"free text answers carry no options"},
	}
	got, err := ScorePillar(p, resp)
	if err != nil {
		t.Fatal(err)
	}
	if got.Answered != 1 {
		t.Errorf("answered = %d, want 1 (inactive and text excluded)", got.Answered)
	}
	if !almostEqual(got.Percentage, 100) {
		t.Errorf("percentage = %v, want 100", got.Percentage)
	}
}

func TestCheckboxSumThenClamp(t *testing.T) {
	q := Question{
		ID:     "cb",
		Type:   "checkbox",
		Active: true,
		Options: []Option{
			{ID: "a", Score: 2},
			{ID: "b", Score: 3},
			{ID: "c", Score: 5},
		},
	}
	p := Pillar{ID: "p", Questions: []Question{q}}

	// two of three selected: (2+3)/10 = 50%
	got, err := ScorePillar(p, Responses{"cb": {"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got.Percentage, 50) {
		t.Errorf("percentage = %v, want 50", got.Percentage)
	}

	// everything selected reaches exactly 100, never above
	got, err = ScorePillar(p, Responses{"cb": {"a", "b", "c"}})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got.Percentage, 100) {
		t.Errorf("percentage = %v, want 100", got.Percentage)
	}
}

func TestScaleScoresLikeSingleChoice(t *testing.T) {
	q := Question{
		ID:     "s",
		Type:   "scale",
		Active: true,
		Options: []Option{
			{ID: "1", Score: 1},
			{ID: "2", Score: 2},
			{ID: "3", Score: 3},
			{ID: "4", Score: 4},
			{ID: "5", Score: 5},
		},
	}
	p := Pillar{ID: "p", Questions: []Question{q}}
	got, err := ScorePillar(p, Responses{"s": {"3"}})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got.Percentage, 50) {
		t.Errorf("percentage = %v, want 50 (midpoint of 1..5)", got.Percentage)
	}
}

func TestDegenerateOptionsDoNotDivideByZero(t *testing.T) {
	q := Question{
		ID:     "flat",
		Type:   "multiple_choice",
		Active: true,
		Options: []Option{
			{ID: "a", Score: 4},
			{ID: "b", Score: 4},
		},
	}
	p := Pillar{ID: "p", Questions: []Question{q}}
	// the only question is unscorable, so the pillar is incomplete
	if _, err := ScorePillar(p, Responses{"flat": {"a"}}); !errors.Is(err, ErrPillarIncomplete) {
		t.Errorf("err = %v, want ErrPillarIncomplete", err)
	}
}
