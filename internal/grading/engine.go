// Package grading scores frozen answer sets against exam definitions. The
// engine is a pure function: it never fails, every question kind has a
// defined score for every possible answer value, and identical inputs always
// yield identical results.
package grading

import (
	"errors"
	"strings"

	"github.com/classhub/examly-backend/internal/model"
)

// Review errors, surfaced when a teacher overwrites a question's score.
var (
	ErrNotReviewable = errors.New("question is auto-graded and cannot be reviewed")
	ErrInvalidPoints = errors.New("review points out of range")
)

// Grade scores the answers of a submitted attempt. Answers are aligned by
// index to questions; a short or nil slice is treated as all-empty slots.
// Objective kinds are scored immediately, subjective kinds get a provisional
// zero and a review flag.
func Grade(questions []model.Question, answers []model.Answer) model.GradeResult {
	result := model.GradeResult{
		Questions: make([]model.QuestionResult, len(questions)),
	}

	for i, q := range questions {
		var ans model.Answer
		if i < len(answers) {
			ans = answers[i]
		}
		result.Questions[i] = gradeOne(q, ans)
	}

	result.Recompute()
	return result
}

func gradeOne(q model.Question, ans model.Answer) model.QuestionResult {
	switch q.Kind {
	case model.QuestionMultipleChoice:
		return gradeMultipleChoice(q, ans)
	case model.QuestionEnumeration:
		return gradeEnumeration(q, ans)
	default:
		// Essay, coding: always manual.
		return model.QuestionResult{AwardedPoints: 0, AutoGraded: false, NeedsReview: true}
	}
}

// gradeMultipleChoice awards full points on exact string equality with the
// correct answer. Case-sensitive, no trimming.
func gradeMultipleChoice(q model.Question, ans model.Answer) model.QuestionResult {
	res := model.QuestionResult{AutoGraded: true}
	if ans.Text != nil && *ans.Text == q.CorrectAnswer {
		res.AwardedPoints = q.Points
	}
	return res
}

// gradeEnumeration awards proportional credit: points × |intersection| /
// |acceptance set|, rounded down. Order is irrelevant, blank entries are
// discarded, and extraneous entries never subtract.
func gradeEnumeration(q model.Question, ans model.Answer) model.QuestionResult {
	res := model.QuestionResult{AutoGraded: true}

	correct := toSet(q.CorrectAnswers)
	if len(correct) == 0 {
		return res
	}

	given := toSet(ans.List)
	matched := 0
	for entry := range given {
		if _, ok := correct[entry]; ok {
			matched++
		}
	}

	res.AwardedPoints = q.Points * matched / len(correct)
	if res.AwardedPoints > q.Points {
		res.AwardedPoints = q.Points
	}
	return res
}

// ApplyReview overwrites a subjective question's awarded points, clearing its
// review flag and recomputing the exam totals. Auto-graded kinds are rejected
// with ErrNotReviewable; points outside [0, q.Points] with ErrInvalidPoints.
func ApplyReview(result *model.GradeResult, q model.Question, points int) error {
	if q.Kind.AutoGraded() {
		return ErrNotReviewable
	}
	if points < 0 || points > q.Points {
		return ErrInvalidPoints
	}

	idx := q.ID - 1
	if idx < 0 || idx >= len(result.Questions) {
		return model.ErrQuestionIndex
	}

	result.Questions[idx].AwardedPoints = points
	result.Questions[idx].NeedsReview = false
	result.Recompute()
	return nil
}

// toSet normalizes a sequence into a set, discarding blank entries.
func toSet(entries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return set
}
