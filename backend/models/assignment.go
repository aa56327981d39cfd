package models

import "time"

type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Submission holds one student's answer to one assignment. A nil grade
// means not graded yet.
type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_unique_submission" json:"assignment_id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_unique_submission" json:"student_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	SubmittedAt  time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	Grade        *int      `json:"grade"`
}
