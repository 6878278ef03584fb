package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/classhub/examly-backend/internal/grading"
	"github.com/classhub/examly-backend/internal/model"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeAttemptStore struct {
	attempts map[uuid.UUID]*model.Attempt
	drafts   map[uuid.UUID]map[int]model.Answer
	clock    func() time.Time
}

func newFakeAttemptStore(clock func() time.Time) *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts: make(map[uuid.UUID]*model.Attempt),
		drafts:   make(map[uuid.UUID]map[int]model.Answer),
		clock:    clock,
	}
}

func (f *fakeAttemptStore) Create(_ context.Context, a *model.Attempt) error {
	for _, existing := range f.attempts {
		if existing.ExamID == a.ExamID && existing.StudentID == a.StudentID &&
			existing.Status == model.AttemptInProgress {
			return pgx.ErrNoRows
		}
	}
	a.ID = uuid.New()
	a.StartedAt = f.clock()
	stored := *a
	f.attempts[a.ID] = &stored
	return nil
}

func (f *fakeAttemptStore) GetByID(_ context.Context, id uuid.UUID) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAttemptStore) GetActive(_ context.Context, examID uuid.UUID, studentID int) (*model.Attempt, error) {
	for _, a := range f.attempts {
		if a.ExamID == examID && a.StudentID == studentID && a.Status == model.AttemptInProgress {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttemptStore) Finalize(_ context.Context, id uuid.UUID, status model.AttemptStatus, answers []model.Answer, result *model.GradeResult, submittedAt time.Time) (bool, error) {
	a, ok := f.attempts[id]
	if !ok || a.Status != model.AttemptInProgress {
		return false, nil
	}
	a.Status = status
	a.Answers = answers
	a.Result = result
	a.SubmittedAt = &submittedAt
	return true, nil
}

func (f *fakeAttemptStore) UpdateResult(_ context.Context, id uuid.UUID, result *model.GradeResult) error {
	a, ok := f.attempts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Result = result
	return nil
}

func (f *fakeAttemptStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.ExamID == examID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) DraftAnswers(_ context.Context, attemptID uuid.UUID) (map[int]model.Answer, error) {
	out := make(map[int]model.Answer)
	for idx, ans := range f.drafts[attemptID] {
		out[idx] = ans
	}
	return out, nil
}

type fakeExamStore struct {
	exams map[uuid.UUID]*model.Exam
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

type fakeRoster struct {
	enrolled map[int]bool // studentID -> enrolled
}

func (f *fakeRoster) IsEnrolled(_ context.Context, _, studentID int) (bool, error) {
	return f.enrolled[studentID], nil
}

type fakeBuffer struct {
	answers map[uuid.UUID]map[int]model.Answer
	cleared map[uuid.UUID]bool
}

func newFakeBuffer() *fakeBuffer {
	return &fakeBuffer{
		answers: make(map[uuid.UUID]map[int]model.Answer),
		cleared: make(map[uuid.UUID]bool),
	}
}

func (f *fakeBuffer) Save(_ context.Context, attemptID uuid.UUID, questionIndex int, answer model.Answer) error {
	if f.answers[attemptID] == nil {
		f.answers[attemptID] = make(map[int]model.Answer)
	}
	f.answers[attemptID][questionIndex] = answer
	return nil
}

func (f *fakeBuffer) Snapshot(_ context.Context, attemptID uuid.UUID) (map[int]model.Answer, error) {
	out := make(map[int]model.Answer)
	for idx, ans := range f.answers[attemptID] {
		out[idx] = ans
	}
	return out, nil
}

func (f *fakeBuffer) Clear(_ context.Context, attemptID uuid.UUID) error {
	delete(f.answers, attemptID)
	f.cleared[attemptID] = true
	return nil
}

type fixture struct {
	svc      *AttemptService
	attempts *fakeAttemptStore
	exams    *fakeExamStore
	roster   *fakeRoster
	buffer   *fakeBuffer
	exam     *model.Exam
	now      time.Time
}

// testExam has one question of each kind: 5 + 10 + 7 + 8 = 30 points,
// 40 minute budget.
func testExam() *model.Exam {
	return &model.Exam{
		ID:              uuid.New(),
		ClassID:         1,
		Title:           "Midterm",
		DurationMinutes: 40,
		TotalScore:      30,
		Questions: []model.Question{
			{ID: 1, Kind: model.QuestionMultipleChoice, Prompt: "Pick B", Options: []string{"A", "B", "C"}, CorrectAnswer: "B", Points: 5},
			{ID: 2, Kind: model.QuestionEnumeration, Prompt: "Name two", CorrectAnswers: []string{"alpha", "beta"}, Points: 10},
			{ID: 3, Kind: model.QuestionEssay, Prompt: "Discuss", Points: 7},
			{ID: 4, Kind: model.QuestionCoding, Prompt: "Implement", Points: 8},
		},
		AvailabilityStatus: model.AvailabilityEnabled,
		CreatedBy:          100,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		exams:  &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)},
		roster: &fakeRoster{enrolled: map[int]bool{7: true}},
		buffer: newFakeBuffer(),
		exam:   testExam(),
		now:    baseTime,
	}
	f.attempts = newFakeAttemptStore(func() time.Time { return f.now })
	f.exams.exams[f.exam.ID] = f.exam

	f.svc = NewAttemptService(f.attempts, f.exams, f.roster, f.buffer, zerolog.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) start(t *testing.T, studentID int) *model.Attempt {
	t.Helper()
	attempt, err := f.svc.Start(context.Background(), f.exam.ID, studentID)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return attempt
}

func TestStart(t *testing.T) {
	t.Run("creates in-progress attempt with empty answer slots", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		if attempt.Status != model.AttemptInProgress {
			t.Errorf("Status = %q, want %q", attempt.Status, model.AttemptInProgress)
		}
		if attempt.DurationMinutes != 40 {
			t.Errorf("DurationMinutes = %d, want 40", attempt.DurationMinutes)
		}
		if len(attempt.Answers) != 4 {
			t.Fatalf("len(Answers) = %d, want 4", len(attempt.Answers))
		}
		for i, ans := range attempt.Answers {
			if !ans.IsZero() {
				t.Errorf("Answers[%d] not empty", i)
			}
		}
	})

	t.Run("rejects disabled exam", func(t *testing.T) {
		f := newFixture(t)
		f.exam.AvailabilityStatus = model.AvailabilityDisabled

		_, err := f.svc.Start(context.Background(), f.exam.ID, 7)
		if !errors.Is(err, ErrExamUnavailable) {
			t.Errorf("error = %v, want ErrExamUnavailable", err)
		}
	})

	t.Run("rejects unenrolled student", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Start(context.Background(), f.exam.ID, 99)
		if !errors.Is(err, ErrNotEnrolled) {
			t.Errorf("error = %v, want ErrNotEnrolled", err)
		}
	})

	t.Run("rejects second start while one is in progress", func(t *testing.T) {
		f := newFixture(t)
		f.start(t, 7)

		_, err := f.svc.Start(context.Background(), f.exam.ID, 7)
		if !errors.Is(err, ErrAlreadyInProgress) {
			t.Errorf("error = %v, want ErrAlreadyInProgress", err)
		}
	})

	t.Run("allows restart after previous attempt finished", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		if _, err := f.svc.Submit(context.Background(), attempt.ID, 7); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}

		if _, err := f.svc.Start(context.Background(), f.exam.ID, 7); err != nil {
			t.Errorf("Start() after submit error = %v", err)
		}
	})

	t.Run("unknown exam", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Start(context.Background(), uuid.New(), 7)
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("error = %v, want ErrExamNotFound", err)
		}
	})
}

func TestRecordAnswer(t *testing.T) {
	t.Run("buffers a valid answer", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		req := &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")}
		if err := f.svc.RecordAnswer(context.Background(), attempt.ID, 7, req); err != nil {
			t.Fatalf("RecordAnswer() error = %v", err)
		}

		buffered := f.buffer.answers[attempt.ID]
		if got := buffered[1]; got.Text == nil || *got.Text != "B" {
			t.Errorf("buffered answer = %+v, want text B", got)
		}
	})

	t.Run("overwrites a previous answer", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		ctx := context.Background()

		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("A")})
		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("C")})

		if got := f.buffer.answers[attempt.ID][1]; *got.Text != "C" {
			t.Errorf("buffered answer = %q, want C", *got.Text)
		}
	})

	t.Run("rejects wrong owner", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		err := f.svc.RecordAnswer(context.Background(), attempt.ID, 8,
			&model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		if !errors.Is(err, ErrNotAttemptOwner) {
			t.Errorf("error = %v, want ErrNotAttemptOwner", err)
		}
	})

	t.Run("rejects out-of-range question index", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		for _, idx := range []int{0, 5} {
			err := f.svc.RecordAnswer(context.Background(), attempt.ID, 7,
				&model.RecordAnswerRequest{QuestionIndex: idx, Value: model.TextAnswer("B")})
			if !errors.Is(err, model.ErrQuestionIndex) {
				t.Errorf("index %d: error = %v, want ErrQuestionIndex", idx, err)
			}
		}
	})

	t.Run("rejects answer shape mismatched to question kind", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		// List answer on a multiple choice question.
		err := f.svc.RecordAnswer(context.Background(), attempt.ID, 7,
			&model.RecordAnswerRequest{QuestionIndex: 1, Value: model.ListAnswer("B")})
		if !errors.Is(err, ErrAnswerKind) {
			t.Errorf("error = %v, want ErrAnswerKind", err)
		}

		// Text answer on an enumeration question.
		err = f.svc.RecordAnswer(context.Background(), attempt.ID, 7,
			&model.RecordAnswerRequest{QuestionIndex: 2, Value: model.TextAnswer("alpha")})
		if !errors.Is(err, ErrAnswerKind) {
			t.Errorf("error = %v, want ErrAnswerKind", err)
		}
	})

	t.Run("rejects writes to a submitted attempt", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		if _, err := f.svc.Submit(context.Background(), attempt.ID, 7); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}

		err := f.svc.RecordAnswer(context.Background(), attempt.ID, 7,
			&model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		if !errors.Is(err, ErrSessionClosed) {
			t.Errorf("error = %v, want ErrSessionClosed", err)
		}
	})

	t.Run("expires overdue attempt and reports deadline breach", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		f.advance(41 * time.Minute)

		err := f.svc.RecordAnswer(context.Background(), attempt.ID, 7,
			&model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		if !errors.Is(err, ErrDeadlineExceeded) {
			t.Fatalf("error = %v, want ErrDeadlineExceeded", err)
		}

		stored := f.attempts.attempts[attempt.ID]
		if stored.Status != model.AttemptExpired {
			t.Errorf("stored status = %q, want %q", stored.Status, model.AttemptExpired)
		}
	})
}

func TestSubmit(t *testing.T) {
	t.Run("grades buffered answers and freezes them", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		ctx := context.Background()

		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 2, Value: model.ListAnswer("alpha", "gamma")})
		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 3, Value: model.TextAnswer("my essay")})

		f.advance(20 * time.Minute)
		submitted, err := f.svc.Submit(ctx, attempt.ID, 7)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}

		if submitted.Status != model.AttemptSubmitted {
			t.Errorf("Status = %q, want %q", submitted.Status, model.AttemptSubmitted)
		}
		if submitted.SubmittedAt == nil || !submitted.SubmittedAt.Equal(f.now) {
			t.Errorf("SubmittedAt = %v, want %v", submitted.SubmittedAt, f.now)
		}
		// MC full 5, enumeration 1/2 of 10, essay and coding pending.
		if submitted.Result.ScoreTotal != 10 {
			t.Errorf("ScoreTotal = %d, want 10", submitted.Result.ScoreTotal)
		}
		if submitted.Result.FullyGraded {
			t.Error("FullyGraded = true, want false (essay and coding pending)")
		}
		if !f.buffer.cleared[attempt.ID] {
			t.Error("answer buffer not cleared after submit")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		ctx := context.Background()

		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})

		first, err := f.svc.Submit(ctx, attempt.ID, 7)
		if err != nil {
			t.Fatalf("first Submit() error = %v", err)
		}
		f.advance(5 * time.Minute)
		second, err := f.svc.Submit(ctx, attempt.ID, 7)
		if err != nil {
			t.Fatalf("second Submit() error = %v", err)
		}

		if !second.SubmittedAt.Equal(*first.SubmittedAt) {
			t.Errorf("second SubmittedAt = %v, want %v", second.SubmittedAt, first.SubmittedAt)
		}
		if second.Result.ScoreTotal != first.Result.ScoreTotal {
			t.Errorf("second ScoreTotal = %d, want %d", second.Result.ScoreTotal, first.Result.ScoreTotal)
		}
	})

	t.Run("submit past deadline expires with answers buffered so far", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		ctx := context.Background()

		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		f.advance(2 * time.Hour)

		got, err := f.svc.Submit(ctx, attempt.ID, 7)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if got.Status != model.AttemptExpired {
			t.Errorf("Status = %q, want %q", got.Status, model.AttemptExpired)
		}
		if !got.SubmittedAt.Equal(baseTime.Add(40 * time.Minute)) {
			t.Errorf("SubmittedAt = %v, want deadline %v", got.SubmittedAt, baseTime.Add(40*time.Minute))
		}
		if got.Result.ScoreTotal != 5 {
			t.Errorf("ScoreTotal = %d, want 5", got.Result.ScoreTotal)
		}
	})

	t.Run("falls back to durable drafts when buffer is cold", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		// Simulate Redis eviction: the draft survived, the buffer did not.
		f.attempts.drafts[attempt.ID] = map[int]model.Answer{
			1: model.TextAnswer("B"),
		}

		got, err := f.svc.Submit(context.Background(), attempt.ID, 7)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if got.Result.ScoreTotal != 5 {
			t.Errorf("ScoreTotal = %d, want 5", got.Result.ScoreTotal)
		}
	})
}

func TestState(t *testing.T) {
	t.Run("reports remaining time and buffered answers", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		ctx := context.Background()

		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		f.advance(10 * time.Minute)

		state, err := f.svc.State(ctx, attempt.ID, 7)
		if err != nil {
			t.Fatalf("State() error = %v", err)
		}
		if state.Status != model.AttemptInProgress {
			t.Errorf("Status = %q, want %q", state.Status, model.AttemptInProgress)
		}
		if want := (30 * time.Minute).Seconds(); state.RemainingSeconds != want {
			t.Errorf("RemainingSeconds = %v, want %v", state.RemainingSeconds, want)
		}
		if state.Answers[0].Text == nil || *state.Answers[0].Text != "B" {
			t.Errorf("Answers[0] = %+v, want text B", state.Answers[0])
		}
		if state.Result != nil {
			t.Error("Result present on in-progress state")
		}
	})

	t.Run("expires an overdue attempt on read", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)
		f.advance(40 * time.Minute) // exactly at deadline counts as overdue

		state, err := f.svc.State(context.Background(), attempt.ID, 7)
		if err != nil {
			t.Fatalf("State() error = %v", err)
		}
		if state.Status != model.AttemptExpired {
			t.Errorf("Status = %q, want %q", state.Status, model.AttemptExpired)
		}
		if state.RemainingSeconds != 0 {
			t.Errorf("RemainingSeconds = %v, want 0", state.RemainingSeconds)
		}
		if state.Result == nil {
			t.Error("Result missing on expired state")
		}
	})
}

func TestReview(t *testing.T) {
	submitWithEssay := func(t *testing.T, f *fixture) *model.Attempt {
		t.Helper()
		ctx := context.Background()
		attempt := f.start(t, 7)
		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 1, Value: model.TextAnswer("B")})
		_ = f.svc.RecordAnswer(ctx, attempt.ID, 7, &model.RecordAnswerRequest{QuestionIndex: 3, Value: model.TextAnswer("essay text")})
		submitted, err := f.svc.Submit(ctx, attempt.ID, 7)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		return submitted
	}

	t.Run("overwrites essay points and recomputes total", func(t *testing.T) {
		f := newFixture(t)
		attempt := submitWithEssay(t, f)

		got, err := f.svc.Review(context.Background(), attempt.ID, 100,
			&model.ReviewRequest{QuestionIndex: 3, Points: 6})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if got.Result.Questions[2].AwardedPoints != 6 {
			t.Errorf("AwardedPoints = %d, want 6", got.Result.Questions[2].AwardedPoints)
		}
		if got.Result.Questions[2].NeedsReview {
			t.Error("NeedsReview still true after review")
		}
		if got.Result.ScoreTotal != 11 {
			t.Errorf("ScoreTotal = %d, want 11", got.Result.ScoreTotal)
		}
		if got.Result.FullyGraded {
			t.Error("FullyGraded = true, want false (coding still pending)")
		}

		// Reviewing the remaining coding question completes grading.
		got, err = f.svc.Review(context.Background(), attempt.ID, 100,
			&model.ReviewRequest{QuestionIndex: 4, Points: 8})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if !got.Result.FullyGraded {
			t.Error("FullyGraded = false after all reviews")
		}
		if got.Result.ScoreTotal != 19 {
			t.Errorf("ScoreTotal = %d, want 19", got.Result.ScoreTotal)
		}
	})

	t.Run("rejects non-owner teacher", func(t *testing.T) {
		f := newFixture(t)
		attempt := submitWithEssay(t, f)

		_, err := f.svc.Review(context.Background(), attempt.ID, 200,
			&model.ReviewRequest{QuestionIndex: 3, Points: 6})
		if !errors.Is(err, ErrNotExamAuthor) {
			t.Errorf("error = %v, want ErrNotExamAuthor", err)
		}
	})

	t.Run("rejects review of an in-progress attempt", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		_, err := f.svc.Review(context.Background(), attempt.ID, 100,
			&model.ReviewRequest{QuestionIndex: 3, Points: 6})
		if !errors.Is(err, ErrAttemptActive) {
			t.Errorf("error = %v, want ErrAttemptActive", err)
		}
	})

	t.Run("rejects auto-graded question", func(t *testing.T) {
		f := newFixture(t)
		attempt := submitWithEssay(t, f)

		_, err := f.svc.Review(context.Background(), attempt.ID, 100,
			&model.ReviewRequest{QuestionIndex: 1, Points: 5})
		if !errors.Is(err, grading.ErrNotReviewable) {
			t.Errorf("error = %v, want grading.ErrNotReviewable", err)
		}
	})

	t.Run("rejects points outside the question budget", func(t *testing.T) {
		f := newFixture(t)
		attempt := submitWithEssay(t, f)

		_, err := f.svc.Review(context.Background(), attempt.ID, 100,
			&model.ReviewRequest{QuestionIndex: 3, Points: 8})
		if !errors.Is(err, grading.ErrInvalidPoints) {
			t.Errorf("error = %v, want grading.ErrInvalidPoints", err)
		}
	})
}

func TestActive(t *testing.T) {
	t.Run("returns the running attempt", func(t *testing.T) {
		f := newFixture(t)
		attempt := f.start(t, 7)

		got, err := f.svc.Active(context.Background(), f.exam.ID, 7)
		if err != nil {
			t.Fatalf("Active() error = %v", err)
		}
		if got.ID != attempt.ID {
			t.Errorf("ID = %v, want %v", got.ID, attempt.ID)
		}
	})

	t.Run("no active attempt", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Active(context.Background(), f.exam.ID, 7)
		if !errors.Is(err, ErrAttemptNotFound) {
			t.Errorf("error = %v, want ErrAttemptNotFound", err)
		}
	})
}
