package scoring

import "fmt"

// Option is a minimal view of a catalog option needed for scoring.
// Keep this in sync with whatever fields your store uses.
type Option struct {
	ID    string
	Score float64
}

// Question is the scorer's view of a catalog question.
type Question struct {
	ID      string
	Type    string // multiple_choice|checkbox|scale|text
	Active  bool
	Options []Option
}

// Pillar bundles one pillar's questions with its aggregation weight.
type Pillar struct {
	ID        string
	Name      string
	Weight    float64
	Questions []Question
}

// Responses maps question ID to the selected option IDs. Single-choice
// questions carry one element; checkbox questions may carry several.
type Responses map[string][]string

// PillarScore is one pillar's computed percentage plus audit counts.
type PillarScore struct {
	PillarID   string  `json:"pillar_id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"` // 0..100
	Weight     float64 `json:"weight"`
	Answered   int     `json:"questions_answered"`
}

// strategy turns one answered question into a 0..1 fraction. ok=false means
// the question contributes nothing (unscorable type or empty selection).
type strategy interface {
	fraction(q Question, selected []string) (float64, bool)
}

var strategies = map[string]strategy{
	"multiple_choice": choiceStrategy{},
	"scale":           choiceStrategy{},
	"checkbox":        checkboxStrategy{},
	// "text" has no strategy: free-text answers carry no score
}

// ScorePillar converts one pillar's responses into a 0..100 percentage.
// Each answered question is normalized against its own min/max possible
// score, then the per-question fractions are averaged. A pillar with no
// answered scorable questions returns ErrPillarIncomplete.
//
// Pure function: no I/O, no shared state.
func ScorePillar(p Pillar, resp Responses) (PillarScore, error) {
	sum := 0.0
	answered := 0
	for _, q := range p.Questions {
		if !q.Active {
			continue
		}
		s, ok := strategies[q.Type]
		if !ok {
			continue
		}
		selected, has := resp[q.ID]
		if !has || len(selected) == 0 {
			continue
		}
		frac, ok := s.fraction(q, selected)
		if !ok {
			continue
		}
		sum += frac
		answered++
	}
	if answered == 0 {
		return PillarScore{}, fmt.Errorf("pillar %s: %w", p.ID, ErrPillarIncomplete)
	}
	return PillarScore{
		PillarID:   p.ID,
		Name:       p.Name,
		Percentage: (sum / float64(answered)) * 100,
		Weight:     p.Weight,
		Answered:   answered,
	}, nil
}

// choiceStrategy scores single-selection questions (multiple_choice, scale).
// The achieved score is the selected option's value, normalized against the
// bounds of the question's option values. Extra selections beyond the first
// are ignored.
type choiceStrategy struct{}

func (choiceStrategy) fraction(q Question, selected []string) (float64, bool) {
	lo, hi, ok := optionBounds(q.Options)
	if !ok || hi == lo {
		// a question whose options all score the same cannot discriminate
		return 0, false
	}
	opt, ok := findOption(q.Options, selected[0])
	if !ok {
		return 0, false
	}
	return clamp01((opt.Score - lo) / (hi - lo)), true
}

// checkboxStrategy scores multi-selection questions by summing the selected
// options' values and clamping into the question's possible range. The floor
// is the sum of negative option values (zero when none are negative), the
// ceiling the sum of positive values. Sum-then-clamp rewards each selected
// choice; averaging would penalize picking several small-valued options.
type checkboxStrategy struct{}

func (checkboxStrategy) fraction(q Question, selected []string) (float64, bool) {
	lo, hi := 0.0, 0.0
	for _, o := range q.Options {
		if o.Score < 0 {
			lo += o.Score
		} else {
			hi += o.Score
		}
	}
	if hi == lo {
		return 0, false
	}
	achieved := 0.0
	matched := false
	for _, id := range selected {
		if opt, ok := findOption(q.Options, id); ok {
			achieved += opt.Score
			matched = true
		}
	}
	if !matched {
		return 0, false
	}
	return clamp01((achieved - lo) / (hi - lo)), true
}

func optionBounds(opts []Option) (lo, hi float64, ok bool) {
	if len(opts) == 0 {
		return 0, 0, false
	}
	lo, hi = opts[0].Score, opts[0].Score
	for _, o := range opts[1:] {
		if o.Score < lo {
			lo = o.Score
		}
		if o.Score > hi {
			hi = o.Score
		}
	}
	return lo, hi, true
}

func findOption(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
