package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classhub/examly-backend/internal/model"
)

// ExamRepository handles exam definition data access. Questions live as a
// JSONB document on the exam row: answer slots align to them by index, so the
// ordered sequence is stored and loaded as one unit.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Create inserts a new exam definition.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (class_id, title, description, duration_minutes, total_score,
		                    questions, availability_status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		e.ClassID, e.Title, e.Description, e.DurationMinutes, e.TotalScore,
		questions, e.AvailabilityStatus, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves an exam definition.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	var questions []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, class_id, title, description, duration_minutes, total_score,
		        questions, availability_status, created_by, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.ClassID, &e.Title, &e.Description, &e.DurationMinutes, &e.TotalScore,
		&questions, &e.AvailabilityStatus, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &e.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return e, nil
}

// ListByClass retrieves all exams of a class, newest first.
func (r *ExamRepository) ListByClass(ctx context.Context, classID int) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, title, description, duration_minutes, total_score,
		        questions, availability_status, created_by, created_at, updated_at
		 FROM exams
		 WHERE class_id = $1
		 ORDER BY created_at DESC`, classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		var questions []byte
		if err := rows.Scan(&e.ID, &e.ClassID, &e.Title, &e.Description, &e.DurationMinutes,
			&e.TotalScore, &questions, &e.AvailabilityStatus, &e.CreatedBy,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &e.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListEnabled retrieves every enabled exam. Used at startup to prewarm the
// paper cache.
func (r *ExamRepository) ListEnabled(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, title, description, duration_minutes, total_score,
		        questions, availability_status, created_by, created_at, updated_at
		 FROM exams
		 WHERE availability_status = $1`, model.AvailabilityEnabled,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		var questions []byte
		if err := rows.Scan(&e.ID, &e.ClassID, &e.Title, &e.Description, &e.DurationMinutes,
			&e.TotalScore, &questions, &e.AvailabilityStatus, &e.CreatedBy,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &e.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// SetAvailability toggles whether new attempts may start.
func (r *ExamRepository) SetAvailability(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET availability_status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// Update replaces a definition's content. Callers must have verified the exam
// is not yet referenced by any attempt.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, duration_minutes = $3, total_score = $4,
		     questions = $5, updated_at = NOW()
		 WHERE id = $6`,
		e.Title, e.Description, e.DurationMinutes, e.TotalScore, questions, e.ID)
	return err
}

// Delete removes an exam definition.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}
