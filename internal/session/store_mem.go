package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	results  map[string]Result
}

func NewInMemoryStore() Store {
	return &memoryStore{
		sessions: map[string]Session{},
		results:  map[string]Result{},
	}
}

func (m *memoryStore) NewSession(_ context.Context, assessmentID, leadID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := Session{
		ID:           uuid.NewString(),
		AssessmentID: assessmentID,
		LeadID:       leadID,
		Status:       StatusInProgress,
		Responses:    map[string][]string{},
		StartedAt:    time.Now().Unix(),
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *memoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sess, nil
}

func (m *memoryStore) SaveResponses(_ context.Context, id string, resp map[string][]string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if sess.Status == StatusFinalized {
		return Session{}, ErrFinalized
	}
	for k, v := range resp {
		sess.Responses[k] = v
	}
	m.sessions[id] = sess
	return sess, nil
}

func (m *memoryStore) MarkFinalized(_ context.Context, id string, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if sess.Status == StatusFinalized {
		return ErrFinalized
	}
	now := time.Now().Unix()
	sess.Status = StatusFinalized
	sess.FinalizedAt = now
	r.CreatedAt = now
	m.sessions[id] = sess
	m.results[id] = r
	return nil
}

func (m *memoryStore) GetResult(_ context.Context, sessionID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[sessionID]
	if !ok {
		return Result{}, fmt.Errorf("result for session %s: %w", sessionID, ErrNotFound)
	}
	return r, nil
}

func (m *memoryStore) ListResults(_ context.Context, opts ResultListOpts) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Result{}
	for _, r := range m.results {
		if opts.AssessmentID != "" && r.AssessmentID != opts.AssessmentID {
			continue
		}
		if opts.LeadID != "" && r.LeadID != opts.LeadID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if opts.Offset >= len(out) {
		return []Result{}, nil
	}
	end := opts.Offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[opts.Offset:end], nil
}
