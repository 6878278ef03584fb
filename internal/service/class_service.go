package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classhub/examly-backend/internal/model"
	"github.com/classhub/examly-backend/internal/repository"
)

// Domain errors.
var (
	ErrNotClassOwner   = errors.New("not the teacher of this class")
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrNotAStudent     = errors.New("user is not a student")
)

// ClassService handles class and roster business logic.
type ClassService struct {
	classRepo *repository.ClassRepository
	userRepo  *repository.UserRepository
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository, userRepo *repository.UserRepository) *ClassService {
	return &ClassService{classRepo: classRepo, userRepo: userRepo}
}

// Create inserts a new class owned by the teacher.
func (s *ClassService) Create(ctx context.Context, teacherID int, req *model.CreateClassRequest) (*model.Class, error) {
	class := &model.Class{
		Name:      req.Name,
		TeacherID: teacherID,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	return class, nil
}

// GetOwned retrieves a class and verifies teacher ownership.
func (s *ClassService) GetOwned(ctx context.Context, classID, teacherID int) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}
	return class, nil
}

// ListForUser retrieves the classes a user teaches or is enrolled in.
func (s *ClassService) ListForUser(ctx context.Context, userID int, role model.Role) ([]model.Class, error) {
	if role == model.RoleTeacher {
		return s.classRepo.ListByTeacher(ctx, userID)
	}
	return s.classRepo.ListByStudent(ctx, userID)
}

// Enroll adds a student to a class roster. Idempotent: re-enrolling is a no-op.
func (s *ClassService) Enroll(ctx context.Context, classID, teacherID int, req *model.EnrollRequest) error {
	if _, err := s.GetOwned(ctx, classID, teacherID); err != nil {
		return err
	}

	student, err := s.userRepo.GetByEmail(ctx, req.StudentEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("get student: %w", err)
	}
	if student.Role != model.RoleStudent {
		return ErrNotAStudent
	}

	return s.classRepo.Enroll(ctx, classID, student.ID)
}

// Unenroll removes a student from a class roster.
func (s *ClassService) Unenroll(ctx context.Context, classID, teacherID, studentID int) error {
	if _, err := s.GetOwned(ctx, classID, teacherID); err != nil {
		return err
	}
	return s.classRepo.Unenroll(ctx, classID, studentID)
}

// ListStudents retrieves the roster of a class.
func (s *ClassService) ListStudents(ctx context.Context, classID, teacherID int) ([]model.User, error) {
	if _, err := s.GetOwned(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	return s.classRepo.ListStudents(ctx, classID)
}

// IsEnrolled reports whether a student belongs to a class.
func (s *ClassService) IsEnrolled(ctx context.Context, classID, studentID int) (bool, error) {
	return s.classRepo.IsEnrolled(ctx, classID, studentID)
}
