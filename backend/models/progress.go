package models

import "time"

// Progress records lesson completion per student. CompletedAt stays nil
// until the lesson is first marked complete.
type Progress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   uint       `gorm:"not null;uniqueIndex:idx_unique_progress" json:"student_id"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_unique_progress" json:"lesson_id"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}
