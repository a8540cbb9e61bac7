package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/growthsignal/assessment-api/internal/scoring"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrFinalized = errors.New("session already finalized")
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// resultDoc is the breakdown_json shape: matched profile plus per-pillar
// percentages, exactly what the result-detail screen renders.
type resultDoc struct {
	Profile   scoring.Profile       `json:"profile"`
	Breakdown []scoring.PillarScore `json:"breakdown"`
}

func (s *SQLStore) NewSession(ctx context.Context, assessmentID, leadID string) (Session, error) {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM assessments WHERE id=$1`, assessmentID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("assessment %s: %w", assessmentID, ErrNotFound)
		}
		return Session{}, err
	}
	sess := Session{
		ID:           uuid.NewString(),
		AssessmentID: assessmentID,
		LeadID:       leadID,
		Status:       StatusInProgress,
		Responses:    map[string][]string{},
		StartedAt:    time.Now().Unix(),
	}
	rj, _ := json.Marshal(sess.Responses)
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (id,assessment_id,lead_id,status,responses_json,started_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		sess.ID, sess.AssessmentID, sess.LeadID, sess.Status, string(rj), sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,assessment_id,lead_id,status,responses_json,started_at,COALESCE(finalized_at,0) FROM sessions WHERE id=$1`, id)
	var sess Session
	var rj string
	if err := row.Scan(&sess.ID, &sess.AssessmentID, &sess.LeadID, &sess.Status, &rj, &sess.StartedAt, &sess.FinalizedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(rj), &sess.Responses); err != nil {
		sess.Responses = map[string][]string{}
	}
	return sess, nil
}

func (s *SQLStore) SaveResponses(ctx context.Context, id string, resp map[string][]string) (Session, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Status == StatusFinalized {
		return Session{}, ErrFinalized
	}
	if sess.Responses == nil {
		sess.Responses = map[string][]string{}
	}
	for k, v := range resp {
		sess.Responses[k] = v
	}
	buf, _ := json.Marshal(sess.Responses)
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET responses_json=$1 WHERE id=$2`, string(buf), id); err != nil {
		return Session{}, err
	}
	return s.GetSession(ctx, id)
}

func (s *SQLStore) MarkFinalized(ctx context.Context, id string, r Result) error {
	doc, err := json.Marshal(resultDoc{Profile: r.Profile, Breakdown: r.Breakdown})
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET status=$1, finalized_at=$2 WHERE id=$3 AND status=$4`,
		StatusFinalized, now, id, StatusInProgress)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFinalized
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (session_id,assessment_id,lead_id,overall_score,profile_key,breakdown_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, r.AssessmentID, r.LeadID, r.OverallScore, r.Profile.Key, string(doc), now)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) GetResult(ctx context.Context, sessionID string) (Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id,assessment_id,lead_id,overall_score,breakdown_json,created_at FROM results WHERE session_id=$1`,
		sessionID)
	return scanResult(row)
}

func (s *SQLStore) ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if opts.AssessmentID != "" {
		where = append(where, "assessment_id="+arg(opts.AssessmentID))
	}
	if opts.LeadID != "" {
		where = append(where, "lead_id="+arg(opts.LeadID))
	}
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT session_id,assessment_id,lead_id,overall_score,breakdown_json,created_at FROM results WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var doc string
	if err := row.Scan(&r.SessionID, &r.AssessmentID, &r.LeadID, &r.OverallScore, &doc, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, fmt.Errorf("result: %w", ErrNotFound)
		}
		return Result{}, err
	}
	var d resultDoc
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return Result{}, err
	}
	r.Profile = d.Profile
	r.Breakdown = d.Breakdown
	return r, nil
}
