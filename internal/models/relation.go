// Package models contains data structures for the application's domain models.
package models

import "time"

// RelationKind names one of the three toggleable social relations.
type RelationKind string

const (
	RelationLike     RelationKind = "like"
	RelationFollow   RelationKind = "follow"
	RelationBookmark RelationKind = "bookmark"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; existence = "liked".
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow represents a directed follow relationship between two users.
// FollowerID must never equal FollowingID; the service layer rejects
// self-follows before any write.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bookmark represents a user's saved post.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_bookmark_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_bookmark_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
