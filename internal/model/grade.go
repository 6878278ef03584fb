package model

// QuestionResult is the grading outcome for a single question.
type QuestionResult struct {
	AwardedPoints int  `json:"awarded_points"`
	AutoGraded    bool `json:"auto_graded"`
	NeedsReview   bool `json:"needs_review"`
}

// GradeResult is the score breakdown of a submitted attempt. Objective
// questions are final immediately; subjective ones carry a provisional zero
// until a teacher reviews them.
type GradeResult struct {
	Questions   []QuestionResult `json:"questions"`
	ScoreTotal  int              `json:"score_total"`
	FullyGraded bool             `json:"fully_graded"`
}

// Recompute refreshes ScoreTotal and FullyGraded from the per-question
// results. Called after a review overwrites a question's awarded points.
func (r *GradeResult) Recompute() {
	total := 0
	fully := true
	for _, q := range r.Questions {
		total += q.AwardedPoints
		if q.NeedsReview {
			fully = false
		}
	}
	r.ScoreTotal = total
	r.FullyGraded = fully
}
