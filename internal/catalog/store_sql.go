package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned for lookups of missing catalog rows. Handlers map
// it to 404.
var ErrNotFound = errors.New("not found")

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutAssessment(ctx context.Context, a Assessment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessments (id,name,key,type,status,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, type=EXCLUDED.type, status=EXCLUDED.status`,
		a.ID, a.Name, a.Key, a.Type, a.Status, time.Now().Unix())
	return err
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,key,type,status,created_at FROM assessments WHERE id=$1`, id)
	var a Assessment
	if err := row.Scan(&a.ID, &a.Name, &a.Key, &a.Type, &a.Status, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
		}
		return Assessment{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAssessments(ctx context.Context, opts ListOpts) ([]Assessment, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q := strings.TrimSpace(opts.Q); q != "" {
		where = append(where, "name LIKE "+arg("%"+q+"%"))
	}
	if opts.Type != "" {
		where = append(where, "type="+arg(opts.Type))
	}
	if opts.Status != "" {
		where = append(where, "status="+arg(opts.Status))
	}
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT id,name,key,type,status,created_at FROM assessments WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assessment{}
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.Key, &a.Type, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetAssessmentStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE assessments SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) PutPillar(ctx context.Context, p Pillar) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO pillars (id,assessment_id,name,description,weight,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description, weight=EXCLUDED.weight`,
		p.ID, p.AssessmentID, p.Name, p.Description, p.Weight, time.Now().Unix())
	return err
}

func (s *SQLStore) GetPillar(ctx context.Context, id string) (Pillar, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,assessment_id,name,description,weight,created_at FROM pillars WHERE id=$1`, id)
	var p Pillar
	if err := row.Scan(&p.ID, &p.AssessmentID, &p.Name, &p.Description, &p.Weight, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pillar{}, fmt.Errorf("pillar %s: %w", id, ErrNotFound)
		}
		return Pillar{}, err
	}
	return p, nil
}

func (s *SQLStore) ListPillars(ctx context.Context, assessmentID string) ([]Pillar, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,assessment_id,name,description,weight,created_at FROM pillars WHERE assessment_id=$1 ORDER BY created_at`,
		assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Pillar{}
	for rows.Next() {
		var p Pillar
		if err := rows.Scan(&p.ID, &p.AssessmentID, &p.Name, &p.Description, &p.Weight, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeletePillar(ctx context.Context, id string) error {
	// questions cascade via FK
	res, err := s.db.ExecContext(ctx, `DELETE FROM pillars WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pillar %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (id,pillar_id,text,type,is_active,options_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET text=EXCLUDED.text, type=EXCLUDED.type, is_active=EXCLUDED.is_active, options_json=EXCLUDED.options_json`,
		q.ID, q.PillarID, q.Text, q.Type, q.IsActive, string(oj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,pillar_id,text,type,is_active,options_json,created_at FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func (s *SQLStore) ListQuestions(ctx context.Context, pillarID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,pillar_id,text,type,is_active,options_json,created_at FROM questions WHERE pillar_id=$1 ORDER BY created_at`,
		pillarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) CreateResultProfile(ctx context.Context, p ResultProfile) (ResultProfile, error) {
	existing, err := s.ListResultProfiles(ctx, p.AssessmentID)
	if err != nil {
		return ResultProfile{}, err
	}
	if err := ValidateProfileRange(p, existing); err != nil {
		return ResultProfile{}, err
	}
	p.CreatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO result_profiles (id,assessment_id,key,name,description,min_score,max_score,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.AssessmentID, p.Key, p.Name, p.Description, p.MinScore, p.MaxScore, p.CreatedAt)
	if err != nil {
		return ResultProfile{}, err
	}
	return p, nil
}

func (s *SQLStore) UpdateResultProfile(ctx context.Context, p ResultProfile) (ResultProfile, error) {
	existing, err := s.ListResultProfiles(ctx, p.AssessmentID)
	if err != nil {
		return ResultProfile{}, err
	}
	if err := ValidateProfileRange(p, existing); err != nil {
		return ResultProfile{}, err
	}
	// key is immutable after creation
	res, err := s.db.ExecContext(ctx, `UPDATE result_profiles
		SET name=$1, description=$2, min_score=$3, max_score=$4
		WHERE id=$5 AND assessment_id=$6`,
		p.Name, p.Description, p.MinScore, p.MaxScore, p.ID, p.AssessmentID)
	if err != nil {
		return ResultProfile{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ResultProfile{}, fmt.Errorf("result profile %s: %w", p.ID, ErrNotFound)
	}
	return s.getResultProfile(ctx, p.ID)
}

func (s *SQLStore) getResultProfile(ctx context.Context, id string) (ResultProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,assessment_id,key,name,description,min_score,max_score,created_at FROM result_profiles WHERE id=$1`, id)
	var p ResultProfile
	if err := row.Scan(&p.ID, &p.AssessmentID, &p.Key, &p.Name, &p.Description, &p.MinScore, &p.MaxScore, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResultProfile{}, fmt.Errorf("result profile %s: %w", id, ErrNotFound)
		}
		return ResultProfile{}, err
	}
	return p, nil
}

func (s *SQLStore) ListResultProfiles(ctx context.Context, assessmentID string) ([]ResultProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,assessment_id,key,name,description,min_score,max_score,created_at
		 FROM result_profiles WHERE assessment_id=$1 ORDER BY min_score`,
		assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ResultProfile{}
	for rows.Next() {
		var p ResultProfile
		if err := rows.Scan(&p.ID, &p.AssessmentID, &p.Key, &p.Name, &p.Description, &p.MinScore, &p.MaxScore, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteResultProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM result_profiles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("result profile %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (Question, error) {
	var q Question
	var oj string
	if err := row.Scan(&q.ID, &q.PillarID, &q.Text, &q.Type, &q.IsActive, &oj, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, fmt.Errorf("question: %w", ErrNotFound)
		}
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
		return Question{}, err
	}
	return q, nil
}
