package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt session states.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptExpired    AttemptStatus = "expired"
)

// Terminal reports whether the attempt can no longer change.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptSubmitted || s == AttemptExpired
}

// Attempt is one student's timed session against one exam. DurationMinutes is
// copied from the exam at start time, so later edits to the definition never
// change an in-flight attempt's time budget. The deadline is a pure function
// of StartedAt and DurationMinutes, evaluated on every access against the
// server clock.
type Attempt struct {
	ID              uuid.UUID     `json:"id"`
	ExamID          uuid.UUID     `json:"exam_id"`
	StudentID       int           `json:"student_id"`
	StartedAt       time.Time     `json:"started_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Answers         []Answer      `json:"answers"`
	Status          AttemptStatus `json:"status"`
	SubmittedAt     *time.Time    `json:"submitted_at,omitempty"`
	Result          *GradeResult  `json:"result,omitempty"`
}

// Deadline returns the wall-clock instant the attempt's time budget elapses.
func (a *Attempt) Deadline() time.Time {
	return a.StartedAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// OverdueAt reports whether the deadline has passed at the given instant.
func (a *Attempt) OverdueAt(now time.Time) bool {
	return !now.Before(a.Deadline())
}

// RemainingAt returns the time left at the given instant, floored at zero.
func (a *Attempt) RemainingAt(now time.Time) time.Duration {
	remaining := a.Deadline().Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecordAnswerRequest is the payload for writing one answer slot.
type RecordAnswerRequest struct {
	QuestionIndex int    `json:"question_index" binding:"min=0"`
	Value         Answer `json:"value"`
}

// ReviewRequest is the payload for a teacher overwriting a subjective
// question's awarded points.
type ReviewRequest struct {
	QuestionIndex int `json:"question_index" binding:"min=0"`
	Points        int `json:"points" binding:"min=0"`
}

// AttemptState is the read model for a session: enough to reconstruct the
// current status, the buffered answers, the time remaining, and (after
// submission) the grade breakdown.
type AttemptState struct {
	AttemptID        uuid.UUID     `json:"attempt_id"`
	ExamID           uuid.UUID     `json:"exam_id"`
	Status           AttemptStatus `json:"status"`
	Answers          []Answer      `json:"answers"`
	RemainingSeconds float64       `json:"remaining_seconds"`
	SubmittedAt      *time.Time    `json:"submitted_at,omitempty"`
	Result           *GradeResult  `json:"result,omitempty"`
}
