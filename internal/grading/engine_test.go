package grading

import (
	"errors"
	"reflect"
	"testing"

	"github.com/classhub/examly-backend/internal/model"
)

func mcQuestion(id, points int, correct string, options ...string) model.Question {
	return model.Question{
		ID:            id,
		Kind:          model.QuestionMultipleChoice,
		Prompt:        "pick one",
		Options:       options,
		CorrectAnswer: correct,
		Points:        points,
	}
}

func enumQuestion(id, points int, correct ...string) model.Question {
	return model.Question{
		ID:             id,
		Kind:           model.QuestionEnumeration,
		Prompt:         "list them",
		CorrectAnswers: correct,
		Points:         points,
	}
}

func TestGradeMultipleChoice(t *testing.T) {
	q := mcQuestion(1, 10, "B", "A", "B", "C")

	tests := []struct {
		name   string
		answer model.Answer
		want   int
	}{
		{"exact match", model.TextAnswer("B"), 10},
		{"wrong option", model.TextAnswer("A"), 0},
		{"case sensitive", model.TextAnswer("b"), 0},
		{"no trimming", model.TextAnswer(" B"), 0},
		{"empty string", model.TextAnswer(""), 0},
		{"empty slot", model.Answer{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Grade([]model.Question{q}, []model.Answer{tt.answer})
			got := res.Questions[0]
			if got.AwardedPoints != tt.want {
				t.Errorf("awarded = %d, want %d", got.AwardedPoints, tt.want)
			}
			if !got.AutoGraded || got.NeedsReview {
				t.Errorf("auto_graded = %v, needs_review = %v, want true/false",
					got.AutoGraded, got.NeedsReview)
			}
		})
	}
}

func TestGradeEnumerationProportional(t *testing.T) {
	q := enumQuestion(1, 10, "Paris", "London")

	tests := []struct {
		name   string
		answer model.Answer
		want   int
	}{
		{"full set, order irrelevant", model.ListAnswer("London", "Paris"), 10},
		{"half the set", model.ListAnswer("Paris"), 5},
		{"extraneous entries do not subtract", model.ListAnswer("Paris", "Rome"), 5},
		{"empty list", model.ListAnswer(), 0},
		{"empty slot", model.Answer{}, 0},
		{"blank entries discarded", model.ListAnswer("", "  ", "London"), 5},
		{"duplicates collapse", model.ListAnswer("Paris", "Paris"), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Grade([]model.Question{q}, []model.Answer{tt.answer})
			if got := res.Questions[0].AwardedPoints; got != tt.want {
				t.Errorf("awarded = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGradeEnumerationFloorsPartialCredit(t *testing.T) {
	// 10 points over a 3-entry set: one hit is 3, two hits 6, three hits 10.
	q := enumQuestion(1, 10, "x", "y", "z")

	for hits, want := range map[int]int{1: 3, 2: 6, 3: 10} {
		entries := []string{"x", "y", "z"}[:hits]
		res := Grade([]model.Question{q}, []model.Answer{model.ListAnswer(entries...)})
		if got := res.Questions[0].AwardedPoints; got != want {
			t.Errorf("%d hits: awarded = %d, want %d", hits, got, want)
		}
	}
}

func TestGradeSubjectiveAlwaysNeedsReview(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Kind: model.QuestionEssay, Prompt: "discuss", Points: 10},
		{ID: 2, Kind: model.QuestionCoding, Prompt: "implement", Points: 15},
	}
	answers := []model.Answer{
		model.TextAnswer("a very long essay"),
		model.Answer{}, // blank still requires review
	}

	res := Grade(questions, answers)
	for i, qr := range res.Questions {
		if qr.AwardedPoints != 0 || qr.AutoGraded || !qr.NeedsReview {
			t.Errorf("question %d: got %+v, want provisional zero with review flag", i+1, qr)
		}
	}
	if res.FullyGraded {
		t.Error("fully_graded = true, want false while reviews pending")
	}
}

func TestGradeHandlesShortAnswerSlice(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, 5, "A", "A", "B"),
		mcQuestion(2, 5, "B", "A", "B"),
	}

	res := Grade(questions, []model.Answer{model.TextAnswer("A")})
	if res.Questions[0].AwardedPoints != 5 {
		t.Errorf("answered slot awarded = %d, want 5", res.Questions[0].AwardedPoints)
	}
	if res.Questions[1].AwardedPoints != 0 {
		t.Errorf("missing slot awarded = %d, want 0", res.Questions[1].AwardedPoints)
	}
	if res.ScoreTotal != 5 {
		t.Errorf("score_total = %d, want 5", res.ScoreTotal)
	}
}

func TestGradeIsDeterministic(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, 10, "B", "A", "B"),
		enumQuestion(2, 10, "x", "y"),
		{ID: 3, Kind: model.QuestionEssay, Prompt: "discuss", Points: 10},
	}
	answers := []model.Answer{
		model.TextAnswer("B"),
		model.ListAnswer("y", "x"),
		model.TextAnswer("my essay"),
	}

	first := Grade(questions, answers)
	second := Grade(questions, answers)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("grade not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
	if first.ScoreTotal != 20 {
		t.Errorf("score_total = %d, want 20", first.ScoreTotal)
	}
	if first.FullyGraded {
		t.Error("fully_graded = true, want false")
	}
}

func TestApplyReview(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, 10, "B", "A", "B"),
		{ID: 2, Kind: model.QuestionEssay, Prompt: "discuss", Points: 10},
	}
	answers := []model.Answer{model.TextAnswer("B"), model.TextAnswer("essay text")}
	res := Grade(questions, answers)

	if err := ApplyReview(&res, questions[0], 5); !errors.Is(err, ErrNotReviewable) {
		t.Errorf("review on multiple_choice: err = %v, want ErrNotReviewable", err)
	}
	if err := ApplyReview(&res, questions[1], 11); !errors.Is(err, ErrInvalidPoints) {
		t.Errorf("points above max: err = %v, want ErrInvalidPoints", err)
	}
	if err := ApplyReview(&res, questions[1], -1); !errors.Is(err, ErrInvalidPoints) {
		t.Errorf("negative points: err = %v, want ErrInvalidPoints", err)
	}

	before := res.ScoreTotal
	if err := ApplyReview(&res, questions[1], 7); err != nil {
		t.Fatalf("valid review: %v", err)
	}
	if res.ScoreTotal != before+7 {
		t.Errorf("score_total = %d, want %d", res.ScoreTotal, before+7)
	}
	if res.Questions[1].NeedsReview {
		t.Error("needs_review still set after review")
	}
	if !res.FullyGraded {
		t.Error("fully_graded = false after last review")
	}

	// Overwriting again stays within range checks and replaces the score.
	if err := ApplyReview(&res, questions[1], 0); err != nil {
		t.Fatalf("second review: %v", err)
	}
	if res.ScoreTotal != before {
		t.Errorf("score_total = %d, want %d after overwrite to zero", res.ScoreTotal, before)
	}
}

func TestEndToEndScenario(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, 10, "B", "A", "B", "C"),
		enumQuestion(2, 10, "x", "y"),
		{ID: 3, Kind: model.QuestionEssay, Prompt: "discuss", Points: 10},
	}
	answers := []model.Answer{
		model.TextAnswer("B"),
		model.ListAnswer("y", "x"),
		model.TextAnswer("my essay"),
	}

	res := Grade(questions, answers)
	if res.ScoreTotal != 20 {
		t.Fatalf("after submit: score_total = %d, want 20", res.ScoreTotal)
	}
	if res.FullyGraded {
		t.Fatal("after submit: fully_graded = true, want false")
	}

	if err := ApplyReview(&res, questions[2], 7); err != nil {
		t.Fatalf("review: %v", err)
	}
	if res.ScoreTotal != 27 {
		t.Errorf("after review: score_total = %d, want 27", res.ScoreTotal)
	}
	if !res.FullyGraded {
		t.Error("after review: fully_graded = false, want true")
	}
}
