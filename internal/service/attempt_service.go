package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/classhub/examly-backend/internal/grading"
	"github.com/classhub/examly-backend/internal/model"
)

// Domain errors.
var (
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrNotAttemptOwner   = errors.New("attempt belongs to another student")
	ErrAlreadyInProgress = errors.New("an attempt for this exam is already in progress")
	ErrSessionClosed     = errors.New("attempt is no longer in progress")
	ErrDeadlineExceeded  = errors.New("attempt deadline has passed")
	ErrAttemptActive     = errors.New("attempt is still in progress")
	ErrAnswerKind        = errors.New("answer shape does not match the question kind")
)

// AttemptStore is the persistence surface AttemptService needs.
type AttemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	GetActive(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error)
	Finalize(ctx context.Context, id uuid.UUID, status model.AttemptStatus, answers []model.Answer, result *model.GradeResult, submittedAt time.Time) (bool, error)
	UpdateResult(ctx context.Context, id uuid.UUID, result *model.GradeResult) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Attempt, error)
	DraftAnswers(ctx context.Context, attemptID uuid.UUID) (map[int]model.Answer, error)
}

// ExamStore resolves exam definitions for attempts.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

// EnrollmentStore answers roster membership checks.
type EnrollmentStore interface {
	IsEnrolled(ctx context.Context, classID, studentID int) (bool, error)
}

// AnswerStore is the hot buffer for in-progress answers.
type AnswerStore interface {
	Save(ctx context.Context, attemptID uuid.UUID, questionIndex int, answer model.Answer) error
	Snapshot(ctx context.Context, attemptID uuid.UUID) (map[int]model.Answer, error)
	Clear(ctx context.Context, attemptID uuid.UUID) error
}

// AttemptService drives the attempt session state machine: start, answer
// buffering, the lazy server-side deadline, idempotent submission, grading,
// and teacher review. The deadline is enforced on every access; no timer
// fires when it passes.
type AttemptService struct {
	attempts AttemptStore
	exams    ExamStore
	rosters  EnrollmentStore
	buffer   AnswerStore
	log      zerolog.Logger
	now      func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attempts AttemptStore,
	exams ExamStore,
	rosters EnrollmentStore,
	buffer AnswerStore,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attempts: attempts,
		exams:    exams,
		rosters:  rosters,
		buffer:   buffer,
		log:      log.With().Str("component", "attempt_service").Logger(),
		now:      time.Now,
	}
}

// Start opens a new attempt for a student on an enabled exam. A second start
// while one is in progress is rejected; the database conditional insert
// serializes concurrent starts so exactly one wins.
func (s *AttemptService) Start(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.AvailabilityStatus != model.AvailabilityEnabled {
		return nil, ErrExamUnavailable
	}

	enrolled, err := s.rosters.IsEnrolled(ctx, exam.ClassID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	attempt := &model.Attempt{
		ExamID:          examID,
		StudentID:       studentID,
		DurationMinutes: exam.DurationMinutes,
		Answers:         model.EmptyAnswers(exam.QuestionCount()),
		Status:          model.AttemptInProgress,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyInProgress
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("exam_id", examID.String()).
		Int("student_id", studentID).
		Msg("Attempt started")
	return attempt, nil
}

// Active returns the student's in-progress attempt on an exam, expiring it
// first when overdue. Lets a client resume a session after a reconnect.
func (s *AttemptService) Active(ctx context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.attempts.GetActive(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get active attempt: %w", err)
	}
	if attempt.OverdueAt(s.now()) {
		return s.expire(ctx, attempt)
	}
	return attempt, nil
}

// RecordAnswer buffers one answer slot for an in-progress attempt. Writing to
// an overdue attempt expires it and reports the deadline breach.
func (s *AttemptService) RecordAnswer(ctx context.Context, attemptID uuid.UUID, studentID int, req *model.RecordAnswerRequest) error {
	attempt, err := s.getOwned(ctx, attemptID, studentID)
	if err != nil {
		return err
	}
	if attempt.Status.Terminal() {
		return ErrSessionClosed
	}
	if attempt.OverdueAt(s.now()) {
		if _, err := s.expire(ctx, attempt); err != nil {
			return err
		}
		return ErrDeadlineExceeded
	}

	exam, err := s.exams.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return fmt.Errorf("get exam: %w", err)
	}
	if req.QuestionIndex < 1 || req.QuestionIndex > exam.QuestionCount() {
		return model.ErrQuestionIndex
	}
	question := exam.Questions[req.QuestionIndex-1]
	if !req.Value.MatchesKind(question.Kind) {
		return ErrAnswerKind
	}

	return s.buffer.Save(ctx, attemptID, req.QuestionIndex, req.Value)
}

// Submit finalizes an attempt, grades it, and returns the result. Submitting
// an already-terminal attempt returns it unchanged; submitting past the
// deadline expires it instead, with the answers buffered so far.
func (s *AttemptService) Submit(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.getOwned(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.Terminal() {
		return attempt, nil
	}

	now := s.now()
	if attempt.OverdueAt(now) {
		return s.expire(ctx, attempt)
	}
	return s.finalize(ctx, attempt, model.AttemptSubmitted, now)
}

// State returns the current session state. Reading an overdue in-progress
// attempt expires it first, so clients always observe the enforced status.
func (s *AttemptService) State(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.AttemptState, error) {
	attempt, err := s.getOwned(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if attempt.Status == model.AttemptInProgress && attempt.OverdueAt(now) {
		attempt, err = s.expire(ctx, attempt)
		if err != nil {
			return nil, err
		}
	}

	answers := attempt.Answers
	if attempt.Status == model.AttemptInProgress {
		answers, err = s.collectAnswers(ctx, attempt)
		if err != nil {
			return nil, err
		}
	}

	return &model.AttemptState{
		AttemptID:        attempt.ID,
		ExamID:           attempt.ExamID,
		Status:           attempt.Status,
		Answers:          answers,
		RemainingSeconds: attempt.RemainingAt(now).Seconds(),
		SubmittedAt:      attempt.SubmittedAt,
		Result:           attempt.Result,
	}, nil
}

// ListByExam returns all attempts on an exam for its owning teacher. Overdue
// in-progress attempts are expired on the way out so the listing never shows
// a session that should already be closed.
func (s *AttemptService) ListByExam(ctx context.Context, examID uuid.UUID, teacherID int) ([]model.Attempt, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != teacherID {
		return nil, ErrNotExamAuthor
	}

	attempts, err := s.attempts.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range attempts {
		if attempts[i].Status == model.AttemptInProgress && attempts[i].OverdueAt(now) {
			expired, err := s.expire(ctx, &attempts[i])
			if err != nil {
				return nil, err
			}
			attempts[i] = *expired
		}
	}
	return attempts, nil
}

// Review lets the owning teacher overwrite the awarded points of a subjective
// question on a finalized attempt. Objective questions are not reviewable.
func (s *AttemptService) Review(ctx context.Context, attemptID uuid.UUID, teacherID int, req *model.ReviewRequest) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	exam, err := s.exams.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != teacherID {
		return nil, ErrNotExamAuthor
	}

	if attempt.Status == model.AttemptInProgress {
		if !attempt.OverdueAt(s.now()) {
			return nil, ErrAttemptActive
		}
		attempt, err = s.expire(ctx, attempt)
		if err != nil {
			return nil, err
		}
	}

	if req.QuestionIndex < 1 || req.QuestionIndex > exam.QuestionCount() {
		return nil, model.ErrQuestionIndex
	}
	question := exam.Questions[req.QuestionIndex-1]

	if err := grading.ApplyReview(attempt.Result, question, req.Points); err != nil {
		return nil, err
	}
	if err := s.attempts.UpdateResult(ctx, attemptID, attempt.Result); err != nil {
		return nil, fmt.Errorf("update result: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attemptID.String()).
		Int("question", req.QuestionIndex).
		Int("points", req.Points).
		Msg("Review applied")
	return attempt, nil
}

// ExpireOverdue finalizes one overdue attempt. Used by the background sweeper.
func (s *AttemptService) ExpireOverdue(ctx context.Context, attempt *model.Attempt) (*model.Attempt, error) {
	if attempt.Status.Terminal() {
		return attempt, nil
	}
	if !attempt.OverdueAt(s.now()) {
		return attempt, nil
	}
	return s.expire(ctx, attempt)
}

// getOwned loads an attempt and verifies student ownership.
func (s *AttemptService) getOwned(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	return attempt, nil
}

// expire freezes an overdue attempt with whatever answers were buffered
// before the deadline.
func (s *AttemptService) expire(ctx context.Context, attempt *model.Attempt) (*model.Attempt, error) {
	return s.finalize(ctx, attempt, model.AttemptExpired, attempt.Deadline())
}

// finalize collects the buffered answers, grades them, and transitions the
// attempt into a terminal state. The status-guarded update makes the
// transition exactly-once; the loser of a race returns the winner's row.
func (s *AttemptService) finalize(ctx context.Context, attempt *model.Attempt, status model.AttemptStatus, at time.Time) (*model.Attempt, error) {
	exam, err := s.exams.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	answers, err := s.collectAnswers(ctx, attempt)
	if err != nil {
		return nil, err
	}

	result := grading.Grade(exam.Questions, answers)

	ok, err := s.attempts.Finalize(ctx, attempt.ID, status, answers, &result, at)
	if err != nil {
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}
	if !ok {
		// Lost the race against a concurrent submit or expiry.
		return s.attempts.GetByID(ctx, attempt.ID)
	}

	if err := s.buffer.Clear(ctx, attempt.ID); err != nil {
		s.log.Warn().Err(err).
			Str("attempt_id", attempt.ID.String()).
			Msg("Failed to clear answer buffer")
	}

	attempt.Status = status
	attempt.Answers = answers
	attempt.Result = &result
	attempt.SubmittedAt = &at

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("status", string(status)).
		Int("score", result.ScoreTotal).
		Bool("fully_graded", result.FullyGraded).
		Msg("Attempt finalized")
	return attempt, nil
}

// collectAnswers assembles the full answer slice for an attempt: the durable
// drafts first, overlaid by the hot buffer. Out-of-range indices from stale
// buffers are dropped.
func (s *AttemptService) collectAnswers(ctx context.Context, attempt *model.Attempt) ([]model.Answer, error) {
	answers := model.EmptyAnswers(len(attempt.Answers))

	drafts, err := s.attempts.DraftAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load draft answers: %w", err)
	}
	for idx, ans := range drafts {
		if idx >= 1 && idx <= len(answers) {
			answers[idx-1] = ans
		}
	}

	buffered, err := s.buffer.Snapshot(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("snapshot answer buffer: %w", err)
	}
	for idx, ans := range buffered {
		if idx >= 1 && idx <= len(answers) {
			answers[idx-1] = ans
		}
	}
	return answers, nil
}
