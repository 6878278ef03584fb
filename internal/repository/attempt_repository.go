package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classhub/examly-backend/internal/model"
)

// AttemptRepository handles attempt session data access. All state
// transitions are status-guarded UPDATEs, so two near-simultaneous requests
// against the same session cannot both observe in_progress and
// double-transition: the database serializes them and the loser sees zero
// affected rows.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new in-progress attempt. The conditional insert races
// against the partial unique index on (exam_id, student_id) for in-progress
// rows; the loser of a duplicate start gets pgx.ErrNoRows from the empty
// RETURNING set.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (exam_id, student_id, duration_minutes, answers, status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (exam_id, student_id) WHERE status = 'in_progress' DO NOTHING
		 RETURNING id, started_at`,
		a.ExamID, a.StudentID, a.DurationMinutes, answers, model.AttemptInProgress,
	).Scan(&a.ID, &a.StartedAt)
}

// GetByID retrieves an attempt.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, started_at, duration_minutes,
		        answers, status, submitted_at, result
		 FROM attempts WHERE id = $1`, id))
}

// GetActive retrieves the in-progress attempt for an (exam, student) pair.
func (r *AttemptRepository) GetActive(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, started_at, duration_minutes,
		        answers, status, submitted_at, result
		 FROM attempts
		 WHERE exam_id = $1 AND student_id = $2 AND status = $3`,
		examID, studentID, model.AttemptInProgress))
}

// Finalize freezes an in-progress attempt into a terminal state with its
// answers and grade result. Returns false when the attempt was already
// terminal, which makes submit idempotent under duplicate network retries.
func (r *AttemptRepository) Finalize(ctx context.Context, id uuid.UUID, status model.AttemptStatus, answers []model.Answer, result *model.GradeResult, submittedAt time.Time) (bool, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return false, fmt.Errorf("marshal answers: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("marshal result: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, answers = $2, result = $3, submitted_at = $4
		 WHERE id = $5 AND status = $6`,
		status, answersJSON, resultJSON, submittedAt, id, model.AttemptInProgress)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateResult overwrites a finalized attempt's grade result (review flow).
func (r *AttemptRepository) UpdateResult(ctx context.Context, id uuid.UUID, result *model.GradeResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE attempts SET result = $1 WHERE id = $2`, resultJSON, id)
	return err
}

// ListByExam retrieves all attempts against an exam, newest first.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, student_id, started_at, duration_minutes,
		        answers, status, submitted_at, result
		 FROM attempts
		 WHERE exam_id = $1
		 ORDER BY started_at DESC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// ListOverdue retrieves in-progress attempts whose deadline has passed.
// Used by the expiry sweeper; the lazy on-access check remains authoritative.
func (r *AttemptRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, student_id, started_at, duration_minutes,
		        answers, status, submitted_at, result
		 FROM attempts
		 WHERE status = $1
		   AND started_at + make_interval(mins => duration_minutes) <= $2
		 ORDER BY started_at ASC
		 LIMIT $3`,
		model.AttemptInProgress, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// DraftAnswers reads the durably persisted draft answers for an attempt.
// Fallback for when the Redis buffer went cold before finalization.
func (r *AttemptRepository) DraftAnswers(ctx context.Context, attemptID uuid.UUID) (map[int]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_index, answer FROM attempt_answers WHERE attempt_id = $1`,
		attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[int]model.Answer)
	for rows.Next() {
		var idx int
		var raw []byte
		if err := rows.Scan(&idx, &raw); err != nil {
			return nil, err
		}
		var ans model.Answer
		if err := json.Unmarshal(raw, &ans); err != nil {
			return nil, fmt.Errorf("unmarshal draft answer: %w", err)
		}
		answers[idx] = ans
	}
	return answers, rows.Err()
}

// CountByExam returns how many attempts reference an exam. A non-zero count
// freezes the definition against structural edits.
func (r *AttemptRepository) CountByExam(ctx context.Context, examID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE exam_id = $1`, examID,
	).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AttemptRepository) scanOne(row rowScanner) (*model.Attempt, error) {
	return scanAttempt(row.Scan)
}

func scanAttempt(scan func(dest ...any) error) (*model.Attempt, error) {
	a := &model.Attempt{}
	var answers, result []byte
	if err := scan(&a.ID, &a.ExamID, &a.StudentID, &a.StartedAt, &a.DurationMinutes,
		&answers, &a.Status, &a.SubmittedAt, &result); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if result != nil {
		a.Result = &model.GradeResult{}
		if err := json.Unmarshal(result, a.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return a, nil
}
