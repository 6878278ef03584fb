package model

import (
	"errors"
	"testing"
)

func validMC() Question {
	return Question{
		ID:            1,
		Kind:          QuestionMultipleChoice,
		Prompt:        "pick one",
		Options:       []string{"A", "B"},
		CorrectAnswer: "B",
		Points:        10,
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr bool
	}{
		{"valid multiple choice", func(q *Question) {}, false},
		{"unknown kind", func(q *Question) { q.Kind = "true_false" }, true},
		{"empty prompt", func(q *Question) { q.Prompt = "" }, true},
		{"zero points", func(q *Question) { q.Points = 0 }, true},
		{"negative points", func(q *Question) { q.Points = -5 }, true},
		{"mc without options", func(q *Question) { q.Options = nil }, true},
		{"mc correct answer not in options", func(q *Question) { q.CorrectAnswer = "Z" }, true},
		{"mc with enumeration key", func(q *Question) { q.CorrectAnswers = []string{"A"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validMC()
			tt.mutate(&q)
			err := q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuestionValidatePerKindKeys(t *testing.T) {
	enum := Question{ID: 1, Kind: QuestionEnumeration, Prompt: "list", CorrectAnswers: []string{"x"}, Points: 5}
	if err := enum.Validate(); err != nil {
		t.Errorf("valid enumeration: %v", err)
	}

	enum.CorrectAnswer = "x"
	if err := enum.Validate(); err == nil {
		t.Error("enumeration with single correct_answer should fail")
	}

	essay := Question{ID: 1, Kind: QuestionEssay, Prompt: "discuss", Points: 5}
	if err := essay.Validate(); err != nil {
		t.Errorf("valid essay: %v", err)
	}

	essay.CorrectAnswers = []string{"anything"}
	if err := essay.Validate(); err == nil {
		t.Error("essay with answer key should fail")
	}

	coding := Question{ID: 1, Kind: QuestionCoding, Prompt: "implement", Points: 5}
	if err := coding.Validate(); err != nil {
		t.Errorf("valid coding: %v", err)
	}
}

func TestExamValidateDefinition(t *testing.T) {
	exam := Exam{
		Title:           "Midterm",
		DurationMinutes: 60,
		TotalScore:      15,
		Questions: []Question{
			validMC(),
			{ID: 2, Kind: QuestionEssay, Prompt: "discuss", Points: 5},
		},
	}
	if err := exam.ValidateDefinition(); err != nil {
		t.Fatalf("valid definition: %v", err)
	}

	exam.TotalScore = 20
	if err := exam.ValidateDefinition(); !errors.Is(err, ErrDefinitionIntegrity) {
		t.Errorf("mismatched total: err = %v, want ErrDefinitionIntegrity", err)
	}

	exam.TotalScore = 15
	exam.Questions[1].ID = 5 // numbering must follow exam order
	if err := exam.ValidateDefinition(); err == nil {
		t.Error("out-of-order question ids should fail")
	}

	exam.Questions = nil
	if err := exam.ValidateDefinition(); err == nil {
		t.Error("empty question list should fail")
	}
}

func TestExamTotalDeclaredPoints(t *testing.T) {
	exam := Exam{Questions: []Question{
		{Points: 10}, {Points: 5}, {Points: 7},
	}}
	if got := exam.TotalDeclaredPoints(); got != 22 {
		t.Errorf("TotalDeclaredPoints() = %d, want 22", got)
	}
	if got := exam.QuestionCount(); got != 3 {
		t.Errorf("QuestionCount() = %d, want 3", got)
	}
}

func TestPaperStripsAnswerKeys(t *testing.T) {
	exam := Exam{
		Questions: []Question{
			validMC(),
			{ID: 2, Kind: QuestionEnumeration, Prompt: "list", CorrectAnswers: []string{"x", "y"}, Points: 5},
		},
	}

	paper := exam.Paper()
	if len(paper.Questions) != 2 {
		t.Fatalf("paper questions = %d, want 2", len(paper.Questions))
	}
	for _, q := range paper.Questions {
		if q.Kind == QuestionMultipleChoice && len(q.Options) == 0 {
			t.Error("paper should keep options for multiple choice")
		}
	}
}
