package scoring

import (
	"errors"
	"fmt"
)

// ErrPillarIncomplete marks a pillar with no answered active questions. The
// caller excludes it from the overall average; it is never coerced to zero.
var ErrPillarIncomplete = errors.New("pillar incomplete")

// ErrSessionEmpty means no pillar in the session produced a defined score,
// so there is nothing to aggregate.
var ErrSessionEmpty = errors.New("session has no scored pillars")

// NoMatchingProfileError reports a gap in the administrator-authored profile
// ranges. It is a configuration defect and must reach an admin, not be
// papered over by picking the nearest bracket.
type NoMatchingProfileError struct {
	Score float64
}

func (e *NoMatchingProfileError) Error() string {
	return fmt.Sprintf("no result profile covers score %.2f", e.Score)
}
