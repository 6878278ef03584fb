package model

import "time"

// Class is a teacher-owned group of students. Enrollment gates which exams a
// student may attempt; ownership gates exam authoring and review.
type Class struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TeacherID int       `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// EnrollRequest is the payload for adding a student to a class roster.
type EnrollRequest struct {
	StudentEmail string `json:"student_email" binding:"required,email,max=255"`
}
