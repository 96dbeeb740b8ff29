package models

import "time"

// ForumPost is a per-course discussion message. A non-nil ParentPostID marks
// the post as a reply within a thread. Content is stored as sanitized plain text.
type ForumPost struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CourseID     uint      `gorm:"not null;index" json:"course_id"`
	AuthorID     uint      `gorm:"not null;index" json:"author_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ParentPostID *uint     `gorm:"index" json:"parent_post_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Author       User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	Course       Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
