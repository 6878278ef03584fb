package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classhub/examly-backend/internal/model"
)

// ClassRepository handles class and roster data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, teacher_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.Name, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID retrieves a class by ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, teacher_id, created_at
		 FROM classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByTeacher retrieves the classes a teacher owns.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, teacher_id, created_at
		 FROM classes
		 WHERE teacher_id = $1
		 ORDER BY created_at DESC`, teacherID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListByStudent retrieves the classes a student is enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.teacher_id, c.created_at
		 FROM classes c
		 JOIN class_students cs ON cs.class_id = c.id
		 WHERE cs.student_id = $1
		 ORDER BY c.created_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Enroll adds a student to a class roster. Re-enrolling is a no-op.
func (r *ClassRepository) Enroll(ctx context.Context, classID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO class_students (class_id, student_id)
		 VALUES ($1, $2)
		 ON CONFLICT (class_id, student_id) DO NOTHING`,
		classID, studentID)
	return err
}

// Unenroll removes a student from a class roster.
func (r *ClassRepository) Unenroll(ctx context.Context, classID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM class_students WHERE class_id = $1 AND student_id = $2`,
		classID, studentID)
	return err
}

// IsEnrolled reports whether a student belongs to a class roster.
func (r *ClassRepository) IsEnrolled(ctx context.Context, classID, studentID int) (bool, error) {
	var enrolled bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM class_students WHERE class_id = $1 AND student_id = $2
		 )`, classID, studentID,
	).Scan(&enrolled)
	return enrolled, err
}

// ListStudents retrieves the roster of a class.
func (r *ClassRepository) ListStudents(ctx context.Context, classID int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.role, u.created_at
		 FROM users u
		 JOIN class_students cs ON cs.student_id = u.id
		 WHERE cs.class_id = $1
		 ORDER BY u.name ASC`, classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}
