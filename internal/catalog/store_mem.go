package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryStore backs tests and offline demos. Semantics mirror SQLStore,
// including the validator path for profile writes.
type memoryStore struct {
	mu          sync.RWMutex
	assessments map[string]Assessment
	pillars     map[string]Pillar
	questions   map[string]Question
	profiles    map[string]ResultProfile
}

func NewInMemoryStore() Store {
	return &memoryStore{
		assessments: map[string]Assessment{},
		pillars:     map[string]Pillar{},
		questions:   map[string]Question{},
		profiles:    map[string]ResultProfile{},
	}
}

func (m *memoryStore) PutAssessment(_ context.Context, a Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	m.assessments[a.ID] = a
	return nil
}

func (m *memoryStore) GetAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return a, nil
}

func (m *memoryStore) ListAssessments(_ context.Context, opts ListOpts) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Assessment{}
	q := strings.ToLower(strings.TrimSpace(opts.Q))
	for _, a := range m.assessments {
		if q != "" && !strings.Contains(strings.ToLower(a.Name), q) {
			continue
		}
		if opts.Type != "" && a.Type != opts.Type {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) SetAssessmentStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	a.Status = status
	m.assessments[id] = a
	return nil
}

func (m *memoryStore) PutPillar(_ context.Context, p Pillar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	m.pillars[p.ID] = p
	return nil
}

func (m *memoryStore) GetPillar(_ context.Context, id string) (Pillar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pillars[id]
	if !ok {
		return Pillar{}, fmt.Errorf("pillar %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (m *memoryStore) ListPillars(_ context.Context, assessmentID string) ([]Pillar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Pillar{}
	for _, p := range m.pillars {
		if p.AssessmentID == assessmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) DeletePillar(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pillars[id]; !ok {
		return fmt.Errorf("pillar %s: %w", id, ErrNotFound)
	}
	delete(m.pillars, id)
	for qid, q := range m.questions {
		if q.PillarID == id {
			delete(m.questions, qid)
		}
	}
	return nil
}

func (m *memoryStore) PutQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.CreatedAt == 0 {
		q.CreatedAt = time.Now().Unix()
	}
	m.questions[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return q, nil
}

func (m *memoryStore) ListQuestions(_ context.Context, pillarID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Question{}
	for _, q := range m.questions {
		if q.PillarID == pillarID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) DeleteQuestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	delete(m.questions, id)
	return nil
}

func (m *memoryStore) CreateResultProfile(ctx context.Context, p ResultProfile) (ResultProfile, error) {
	existing, _ := m.ListResultProfiles(ctx, p.AssessmentID)
	if err := ValidateProfileRange(p, existing); err != nil {
		return ResultProfile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now().Unix()
	m.profiles[p.ID] = p
	return p, nil
}

func (m *memoryStore) UpdateResultProfile(ctx context.Context, p ResultProfile) (ResultProfile, error) {
	existing, _ := m.ListResultProfiles(ctx, p.AssessmentID)
	if err := ValidateProfileRange(p, existing); err != nil {
		return ResultProfile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.profiles[p.ID]
	if !ok {
		return ResultProfile{}, fmt.Errorf("result profile %s: %w", p.ID, ErrNotFound)
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.MinScore = p.MinScore
	cur.MaxScore = p.MaxScore
	m.profiles[p.ID] = cur
	return cur, nil
}

func (m *memoryStore) ListResultProfiles(_ context.Context, assessmentID string) ([]ResultProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []ResultProfile{}
	for _, p := range m.profiles {
		if p.AssessmentID == assessmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinScore < out[j].MinScore })
	return out, nil
}

func (m *memoryStore) DeleteResultProfile(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return fmt.Errorf("result profile %s: %w", id, ErrNotFound)
	}
	delete(m.profiles, id)
	return nil
}

func page[T any](in []T, limit, offset int) []T {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return []T{}
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}
