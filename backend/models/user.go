package models

import "time"

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// User is either a student or an instructor. Role and email are fixed at
// registration; no endpoint mutates them.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
