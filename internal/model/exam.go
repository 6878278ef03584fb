package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityStatus gates whether new attempts may start on an exam.
type AvailabilityStatus string

const (
	AvailabilityEnabled  AvailabilityStatus = "enabled"
	AvailabilityDisabled AvailabilityStatus = "disabled"
)

// Valid reports whether s is a known availability status.
func (s AvailabilityStatus) Valid() bool {
	return s == AvailabilityEnabled || s == AvailabilityDisabled
}

// ErrDefinitionIntegrity is returned when an exam's declared total score does
// not equal the sum of its question points.
var ErrDefinitionIntegrity = errors.New("total_score does not equal the sum of question points")

// Exam is an exam definition: an ordered set of questions plus timing and
// scoring metadata. It is treated as frozen the moment any attempt references
// it; only availability_status may still be toggled.
type Exam struct {
	ID                 uuid.UUID          `json:"id"`
	ClassID            int                `json:"class_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	DurationMinutes    int                `json:"duration_minutes"`
	TotalScore         int                `json:"total_score"`
	Questions          []Question         `json:"questions"`
	AvailabilityStatus AvailabilityStatus `json:"availability_status"`
	CreatedBy          int                `json:"created_by"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// TotalDeclaredPoints sums the points of all questions.
func (e *Exam) TotalDeclaredPoints() int {
	sum := 0
	for _, q := range e.Questions {
		sum += q.Points
	}
	return sum
}

// QuestionCount returns the number of questions.
func (e *Exam) QuestionCount() int {
	return len(e.Questions)
}

// ValidateDefinition checks every question's invariants and the declared
// total score. Called at creation time; a mismatched total is a caller error.
func (e *Exam) ValidateDefinition() error {
	if e.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be positive")
	}
	if len(e.Questions) == 0 {
		return errors.New("exam has no questions")
	}
	for i, q := range e.Questions {
		if q.ID != i+1 {
			return fmt.Errorf("question at index %d has id %d, want %d", i, q.ID, i+1)
		}
		if err := q.Validate(); err != nil {
			return err
		}
	}
	if e.TotalDeclaredPoints() != e.TotalScore {
		return ErrDefinitionIntegrity
	}
	return nil
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	ClassID         int               `json:"class_id" binding:"required,min=1"`
	Title           string            `json:"title" binding:"required,min=3,max=255"`
	Description     string            `json:"description" binding:"max=5000"`
	DurationMinutes int               `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalScore      int               `json:"total_score" binding:"required,min=1"`
	Questions       []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// ToggleAvailabilityRequest is the payload for enabling or disabling an exam.
type ToggleAvailabilityRequest struct {
	AvailabilityStatus string `json:"availability_status" binding:"required,oneof=enabled disabled"`
}

// ExamPaper is the student-facing exam payload, cached in Redis at enable
// time. It never carries answer keys.
type ExamPaper struct {
	ExamID          uuid.UUID            `json:"exam_id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	DurationMinutes int                  `json:"duration_minutes"`
	TotalScore      int                  `json:"total_score"`
	Questions       []QuestionForStudent `json:"questions"`
}

// Paper builds the student-facing payload from the definition.
func (e *Exam) Paper() *ExamPaper {
	qs := make([]QuestionForStudent, len(e.Questions))
	for i, q := range e.Questions {
		qs[i] = q.ForStudent()
	}
	return &ExamPaper{
		ExamID:          e.ID,
		Title:           e.Title,
		Description:     e.Description,
		DurationMinutes: e.DurationMinutes,
		TotalScore:      e.TotalScore,
		Questions:       qs,
	}
}
