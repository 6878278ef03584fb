package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classhub/examly-backend/internal/config"
	"github.com/classhub/examly-backend/internal/model"
	"github.com/classhub/examly-backend/internal/repository"
)

// Domain errors.
var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrNotExamAuthor   = errors.New("not the author of this exam")
	ErrExamLocked      = errors.New("exam has attempts and can no longer be modified")
	ErrExamUnavailable = errors.New("exam is not available")
	ErrNotEnrolled     = errors.New("student is not enrolled in this class")
	ErrBadDefinition   = errors.New("invalid exam definition")
)

// checkDefinition validates an exam, keeping the integrity sentinel intact
// and folding every other definition problem under ErrBadDefinition.
func checkDefinition(exam *model.Exam) error {
	if err := exam.ValidateDefinition(); err != nil {
		if errors.Is(err, model.ErrDefinitionIntegrity) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrBadDefinition, err)
	}
	return nil
}

// ExamService handles exam definition business logic and paper caching.
type ExamService struct {
	examRepo    *repository.ExamRepository
	classRepo   *repository.ClassRepository
	attemptRepo *repository.AttemptRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	classRepo *repository.ClassRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:    examRepo,
		classRepo:   classRepo,
		attemptRepo: attemptRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "exam_service").Logger(),
	}
}

// Create validates and inserts a new exam definition, disabled by default.
func (s *ExamService) Create(ctx context.Context, teacherID int, req *model.CreateExamRequest) (*model.Exam, error) {
	class, err := s.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}

	questions := make([]model.Question, len(req.Questions))
	for i, qr := range req.Questions {
		questions[i] = qr.ToQuestion(i + 1)
	}

	exam := &model.Exam{
		ClassID:            req.ClassID,
		Title:              req.Title,
		Description:        req.Description,
		DurationMinutes:    req.DurationMinutes,
		TotalScore:         req.TotalScore,
		Questions:          questions,
		AvailabilityStatus: model.AvailabilityDisabled,
		CreatedBy:          teacherID,
	}
	if err := checkDefinition(exam); err != nil {
		return nil, err
	}

	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.log.Info().
		Str("exam_id", exam.ID.String()).
		Int("questions", exam.QuestionCount()).
		Msg("Exam created")
	return exam, nil
}

// GetOwned retrieves the full exam definition, answer keys included, and
// verifies teacher ownership.
func (s *ExamService) GetOwned(ctx context.Context, examID uuid.UUID, teacherID int) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != teacherID {
		return nil, ErrNotExamAuthor
	}
	return exam, nil
}

// ListByClass retrieves the exams of a class. Teachers must own the class,
// students must be enrolled in it.
func (s *ExamService) ListByClass(ctx context.Context, classID, userID int, role model.Role) ([]model.Exam, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}

	if role == model.RoleTeacher {
		if class.TeacherID != userID {
			return nil, ErrNotClassOwner
		}
	} else {
		enrolled, err := s.classRepo.IsEnrolled(ctx, classID, userID)
		if err != nil {
			return nil, fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	}

	exams, err := s.examRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	// Students never see answer keys, even in listings.
	if role == model.RoleStudent {
		for i := range exams {
			for j := range exams[i].Questions {
				exams[i].Questions[j].CorrectAnswer = ""
				exams[i].Questions[j].CorrectAnswers = nil
			}
		}
	}
	return exams, nil
}

// SetAvailability toggles whether new attempts may start. Enabling warms the
// paper cache so the first wave of students reads from Redis.
func (s *ExamService) SetAvailability(ctx context.Context, examID uuid.UUID, teacherID int, status model.AvailabilityStatus) (*model.Exam, error) {
	exam, err := s.GetOwned(ctx, examID, teacherID)
	if err != nil {
		return nil, err
	}

	if err := s.examRepo.SetAvailability(ctx, examID, status); err != nil {
		return nil, fmt.Errorf("set availability: %w", err)
	}
	exam.AvailabilityStatus = status

	if status == model.AvailabilityEnabled {
		if err := s.warmPaperCache(ctx, exam); err != nil {
			s.log.Warn().Err(err).
				Str("exam_id", examID.String()).
				Msg("Failed to warm paper cache")
		}
	} else {
		if err := s.rdb.Del(ctx, config.CacheKey.ExamPaperKey(examID.String())).Err(); err != nil {
			s.log.Warn().Err(err).
				Str("exam_id", examID.String()).
				Msg("Failed to drop paper cache")
		}
	}

	s.log.Info().
		Str("exam_id", examID.String()).
		Str("status", string(status)).
		Msg("Exam availability changed")
	return exam, nil
}

// Update replaces the definition of an exam that has no attempts yet.
func (s *ExamService) Update(ctx context.Context, examID uuid.UUID, teacherID int, req *model.CreateExamRequest) (*model.Exam, error) {
	existing, err := s.GetOwned(ctx, examID, teacherID)
	if err != nil {
		return nil, err
	}

	count, err := s.attemptRepo.CountByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}
	if count > 0 {
		return nil, ErrExamLocked
	}

	questions := make([]model.Question, len(req.Questions))
	for i, qr := range req.Questions {
		questions[i] = qr.ToQuestion(i + 1)
	}

	exam := &model.Exam{
		ID:                 examID,
		ClassID:            existing.ClassID,
		Title:              req.Title,
		Description:        req.Description,
		DurationMinutes:    req.DurationMinutes,
		TotalScore:         req.TotalScore,
		Questions:          questions,
		AvailabilityStatus: existing.AvailabilityStatus,
		CreatedBy:          existing.CreatedBy,
	}
	if err := checkDefinition(exam); err != nil {
		return nil, err
	}

	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}

	if exam.AvailabilityStatus == model.AvailabilityEnabled {
		if err := s.warmPaperCache(ctx, exam); err != nil {
			s.log.Warn().Err(err).
				Str("exam_id", examID.String()).
				Msg("Failed to refresh paper cache")
		}
	}
	return exam, nil
}

// Delete removes an exam that has no attempts yet.
func (s *ExamService) Delete(ctx context.Context, examID uuid.UUID, teacherID int) error {
	if _, err := s.GetOwned(ctx, examID, teacherID); err != nil {
		return err
	}

	count, err := s.attemptRepo.CountByExam(ctx, examID)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}
	if count > 0 {
		return ErrExamLocked
	}

	if err := s.examRepo.Delete(ctx, examID); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return s.rdb.Del(ctx, config.CacheKey.ExamPaperKey(examID.String())).Err()
}

// GetPaper retrieves the student-facing paper for an enabled exam. Reads the
// Redis cache first and self-heals from PostgreSQL on a miss.
func (s *ExamService) GetPaper(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamPaper, error) {
	key := config.CacheKey.ExamPaperKey(examID.String())

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var paper model.ExamPaper
		if err := json.Unmarshal(data, &paper); err != nil {
			return nil, fmt.Errorf("unmarshal paper: %w", err)
		}
		if err := s.checkPaperAccess(ctx, examID, studentID); err != nil {
			return nil, err
		}
		return &paper, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get paper from cache: %w", err)
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.AvailabilityStatus != model.AvailabilityEnabled {
		return nil, ErrExamUnavailable
	}
	enrolled, err := s.classRepo.IsEnrolled(ctx, exam.ClassID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	if err := s.warmPaperCache(ctx, exam); err != nil {
		s.log.Warn().Err(err).
			Str("exam_id", examID.String()).
			Msg("Failed to self-heal paper cache")
	}
	return exam.Paper(), nil
}

// checkPaperAccess enforces availability and enrollment on the cache-hit path.
func (s *ExamService) checkPaperAccess(ctx context.Context, examID uuid.UUID, studentID int) error {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return fmt.Errorf("get exam: %w", err)
	}
	if exam.AvailabilityStatus != model.AvailabilityEnabled {
		return ErrExamUnavailable
	}
	enrolled, err := s.classRepo.IsEnrolled(ctx, exam.ClassID, studentID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}

// warmPaperCache serializes the answer-key-free paper into Redis.
func (s *ExamService) warmPaperCache(ctx context.Context, exam *model.Exam) error {
	paperJSON, err := json.Marshal(exam.Paper())
	if err != nil {
		return fmt.Errorf("marshal paper: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamPaperKey(exam.ID.String()), paperJSON, 0).Err(); err != nil {
		return fmt.Errorf("cache paper: %w", err)
	}

	s.log.Debug().
		Str("exam_id", exam.ID.String()).
		Int("questions", exam.QuestionCount()).
		Msg("Paper cache warmed")
	return nil
}

// PrewarmAllPapers loads every enabled exam's paper into Redis on startup.
func (s *ExamService) PrewarmAllPapers(ctx context.Context) error {
	exams, err := s.examRepo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("list enabled exams: %w", err)
	}
	if len(exams) == 0 {
		s.log.Info().Msg("No enabled exams to prewarm")
		return nil
	}

	warmed := 0
	for i := range exams {
		if err := s.warmPaperCache(ctx, &exams[i]); err != nil {
			s.log.Warn().Err(err).
				Str("exam_id", exams[i].ID.String()).
				Msg("Failed to warm exam, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(exams)).
		Msg("Paper prewarming complete")
	return nil
}
