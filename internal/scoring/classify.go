package scoring

// Profile is the classifier's view of a configured result profile.
type Profile struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	MinScore    float64 `json:"min_score"`
	MaxScore    float64 `json:"max_score"`
}

// Classify maps an overall score to the profile whose [min,max) bracket
// contains it. Brackets are half-open, except that the profile with the
// highest max_score admits its upper bound, so a perfect 100 still lands in
// the top bracket. A score no bracket covers returns NoMatchingProfileError;
// the validator guarantees non-overlap but not gap-free coverage.
//
// Deterministic and idempotent given the same score and catalog.
func Classify(score float64, profiles []Profile) (Profile, error) {
	topMax := 0.0
	hasTop := false
	for _, p := range profiles {
		if !hasTop || p.MaxScore > topMax {
			topMax = p.MaxScore
			hasTop = true
		}
	}
	for _, p := range profiles {
		if score >= p.MinScore && score < p.MaxScore {
			return p, nil
		}
		if p.MaxScore == topMax && score == p.MaxScore {
			return p, nil
		}
	}
	return Profile{}, &NoMatchingProfileError{Score: score}
}
