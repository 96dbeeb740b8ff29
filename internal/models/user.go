package models

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleStudent can enroll, submit work, and take quizzes.
	RoleStudent Role = "Student"
	// RoleTutor can create courses, assignments, and quizzes, and grade submissions.
	RoleTutor Role = "Tutor"
	// RoleAdmin has full access across all courses.
	RoleAdmin Role = "Admin"
)

// ParseRole maps free-form input onto the closed role set, defaulting to Student.
func ParseRole(input string) Role {
	switch Role(strings.TrimSpace(input)) {
	case RoleTutor:
		return RoleTutor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// User represents an account that can authenticate against the API.
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Name                string     `gorm:"size:255;not null" json:"name"`
	Email               string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"size:255;not null" json:"-"`
	Role                Role       `gorm:"size:32;not null;default:Student" json:"role"`
	IsVerified          bool       `gorm:"not null;default:false" json:"is_verified"`
	OTPCode             string     `gorm:"size:16" json:"-"`
	OTPExpiresAt        *time.Time `json:"-"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	Bio                 string     `gorm:"type:text" json:"bio"`
	AvatarURL           string     `gorm:"size:512" json:"avatar_url"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsLocked reports whether the lockout window is still active at the reference time.
func (u User) IsLocked(reference time.Time) bool {
	return u.LockedUntil != nil && reference.Before(*u.LockedUntil)
}

// OTPExpired reports whether the stored verification code is past its expiry.
func (u User) OTPExpired(reference time.Time) bool {
	return u.OTPExpiresAt == nil || reference.After(*u.OTPExpiresAt)
}
