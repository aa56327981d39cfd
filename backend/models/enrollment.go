package models

import "time"

// Enrollment makes a student a member of a course. The composite unique
// index is the real guarantee against double enrollment; handler checks are
// an early exit only.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_unique_enrollment" json:"student_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_unique_enrollment" json:"course_id"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
}
