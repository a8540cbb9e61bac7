package scoring

// Overall combines pillar percentages into one 0..100 score using the
// pillar weights: Σ(pct×w)/Σ(w). Pillars without a defined score must be
// excluded by the caller before this point. When no pillar carries a
// positive weight the result falls back to the unweighted mean, so catalogs
// that never configured weights still score sensibly.
func Overall(scores []PillarScore) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrSessionEmpty
	}
	weightSum := 0.0
	for _, s := range scores {
		if s.Weight > 0 {
			weightSum += s.Weight
		}
	}
	if weightSum == 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s.Percentage
		}
		return sum / float64(len(scores)), nil
	}
	acc := 0.0
	for _, s := range scores {
		if s.Weight > 0 {
			acc += s.Percentage * s.Weight
		}
	}
	return acc / weightSum, nil
}
