package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidRange rejects profiles where min >= max or the bounds leave the
// 0..100 scale.
var ErrInvalidRange = errors.New("invalid score range")

// RangeOverlapError reports which existing profile the candidate collides
// with, so admins get an actionable message instead of a bare failure.
type RangeOverlapError struct {
	Key      string  // existing profile's key
	Name     string  // existing profile's name
	MinScore float64
	MaxScore float64
}

func (e *RangeOverlapError) Error() string {
	return fmt.Sprintf("score range overlaps with profile %q [%g, %g)", e.Key, e.MinScore, e.MaxScore)
}

// ValidateProfileRange enforces the write-time invariants for a result
// profile: min < max, bounds within 0..100, and no intersection with any
// existing [min,max) range for the same assessment. When updating, pass the
// candidate's own ID so it is not compared against itself.
func ValidateProfileRange(candidate ResultProfile, existing []ResultProfile) error {
	if candidate.MinScore >= candidate.MaxScore {
		return fmt.Errorf("%w: min_score %g must be below max_score %g",
			ErrInvalidRange, candidate.MinScore, candidate.MaxScore)
	}
	if candidate.MinScore < 0 || candidate.MaxScore > 100 {
		return fmt.Errorf("%w: bounds must stay within 0..100", ErrInvalidRange)
	}
	for _, p := range existing {
		if p.ID == candidate.ID {
			continue
		}
		// Half-open intervals [min,max) intersect unless one ends at or
		// before the other begins.
		if candidate.MinScore < p.MaxScore && p.MinScore < candidate.MaxScore {
			return &RangeOverlapError{Key: p.Key, Name: p.Name, MinScore: p.MinScore, MaxScore: p.MaxScore}
		}
	}
	return nil
}
