package model

import (
	"errors"
	"fmt"
)

// QuestionKind enumerates the supported question types.
type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionEnumeration    QuestionKind = "enumeration"
	QuestionEssay          QuestionKind = "essay"
	QuestionCoding         QuestionKind = "coding"
)

// Valid reports whether k is one of the supported kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case QuestionMultipleChoice, QuestionEnumeration, QuestionEssay, QuestionCoding:
		return true
	}
	return false
}

// AutoGraded reports whether answers of this kind are scored by matching
// rules. Essay and coding answers always go through manual review.
func (k QuestionKind) AutoGraded() bool {
	return k == QuestionMultipleChoice || k == QuestionEnumeration
}

// Question is a single exam question. The ID is the question's 1-based
// position within the exam and is stable for the exam's lifetime.
type Question struct {
	ID             int          `json:"id"`
	Kind           QuestionKind `json:"kind"`
	Prompt         string       `json:"prompt"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correct_answer,omitempty"`
	CorrectAnswers []string     `json:"correct_answers,omitempty"`
	Points         int          `json:"points"`
}

// Validate checks the per-kind field invariants: multiple_choice carries
// options and a single correct answer drawn from them, enumeration carries an
// acceptance set, and the manually graded kinds carry no answer key at all.
func (q Question) Validate() error {
	if !q.Kind.Valid() {
		return fmt.Errorf("question %d: unknown kind %q", q.ID, q.Kind)
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %d: empty prompt", q.ID)
	}
	if q.Points <= 0 {
		return fmt.Errorf("question %d: points must be positive", q.ID)
	}

	switch q.Kind {
	case QuestionMultipleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: multiple_choice requires options", q.ID)
		}
		if len(q.CorrectAnswers) > 0 {
			return fmt.Errorf("question %d: multiple_choice must not set correct_answers", q.ID)
		}
		if !containsString(q.Options, q.CorrectAnswer) {
			return fmt.Errorf("question %d: correct_answer must be one of options", q.ID)
		}
	case QuestionEnumeration:
		if len(q.Options) > 0 {
			return fmt.Errorf("question %d: enumeration must not set options", q.ID)
		}
		if q.CorrectAnswer != "" {
			return fmt.Errorf("question %d: enumeration must not set correct_answer", q.ID)
		}
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("question %d: enumeration requires correct_answers", q.ID)
		}
	case QuestionEssay, QuestionCoding:
		if len(q.Options) > 0 || q.CorrectAnswer != "" || len(q.CorrectAnswers) > 0 {
			return fmt.Errorf("question %d: %s must not carry an answer key", q.ID, q.Kind)
		}
	}
	return nil
}

// QuestionRequest is the authoring payload for a single question.
type QuestionRequest struct {
	Kind           string   `json:"kind" binding:"required,oneof=multiple_choice enumeration essay coding"`
	Prompt         string   `json:"prompt" binding:"required,min=1,max=5000"`
	Options        []string `json:"options" binding:"omitempty,dive,min=1"`
	CorrectAnswer  string   `json:"correct_answer" binding:"omitempty,max=1000"`
	CorrectAnswers []string `json:"correct_answers" binding:"omitempty,dive,min=1"`
	Points         int      `json:"points" binding:"required,min=1"`
}

// ToQuestion converts the request into a Question positioned at the given
// 1-based exam index.
func (r QuestionRequest) ToQuestion(position int) Question {
	return Question{
		ID:             position,
		Kind:           QuestionKind(r.Kind),
		Prompt:         r.Prompt,
		Options:        r.Options,
		CorrectAnswer:  r.CorrectAnswer,
		CorrectAnswers: r.CorrectAnswers,
		Points:         r.Points,
	}
}

// QuestionForStudent is a question stripped of its answer key,
// sent to students taking the exam.
type QuestionForStudent struct {
	ID      int          `json:"id"`
	Kind    QuestionKind `json:"kind"`
	Prompt  string       `json:"prompt"`
	Options []string     `json:"options,omitempty"`
	Points  int          `json:"points"`
}

// ForStudent strips the answer key from a question.
func (q Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:      q.ID,
		Kind:    q.Kind,
		Prompt:  q.Prompt,
		Options: q.Options,
		Points:  q.Points,
	}
}

// ErrQuestionIndex is returned when an answer references a question index
// outside the exam's question range.
var ErrQuestionIndex = errors.New("question index out of range")

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
