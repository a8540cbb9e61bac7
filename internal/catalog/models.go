package catalog

// Assessment statuses. Archiving is a status change, not a delete.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Assessment types offered by the business.
const (
	TypeGrowthIndicator = "growth_indicator"
	TypeTrackP          = "trackp"
	TypeTrackB          = "trackb"
)

// Question types. Scale questions materialize their points as Options, so
// they score through the same path as multiple_choice. Text questions carry
// no score.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionCheckbox       = "checkbox"
	QuestionScale          = "scale"
	QuestionText           = "text"
)

type Option struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	ScoreValue float64 `json:"score_value"`
}

type Question struct {
	ID       string   `json:"id"`
	PillarID string   `json:"pillar_id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"` // multiple_choice|checkbox|scale|text
	IsActive bool     `json:"is_active"`
	Options  []Option `json:"options,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type Pillar struct {
	ID           string  `json:"id"`
	AssessmentID string  `json:"assessment_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Weight       float64 `json:"weight"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

type Assessment struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Key    string `json:"key"`
	Type   string `json:"type"`   // growth_indicator|trackp|trackb
	Status string `json:"status"` // draft|published|archived

	CreatedAt int64 `json:"created_at,omitempty"`
}

// ResultProfile is a named score bracket on the 0..100 scale. Key is
// immutable after creation; ranges within one assessment must not overlap.
type ResultProfile struct {
	ID           string  `json:"id"`
	AssessmentID string  `json:"assessment_id"`
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	MinScore     float64 `json:"min_score"`
	MaxScore     float64 `json:"max_score"`

	CreatedAt int64 `json:"created_at,omitempty"`
}
