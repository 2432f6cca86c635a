// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. A comment is either a root
// (ParentID == nil) or a direct reply to a root; replies to replies are
// rejected at write time, so the thread depth never exceeds one.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	UserID   uint   `gorm:"not null" json:"user_id"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`

	// User is resolved in a batched lookup; nil when the author row is missing.
	User *User `gorm:"-" json:"user"`

	// Replies and RepliesCount are populated by the thread builder for roots.
	Replies      []*Comment `gorm:"-" json:"replies,omitempty"`
	RepliesCount int        `gorm:"-" json:"replies_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsRoot reports whether the comment is a top-of-thread comment.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
