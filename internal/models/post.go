// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents an image post in the Glimpse application.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	ImageURL  string `gorm:"not null" json:"image_url"`
	ImageHash string `gorm:"index" json:"-"`
	Caption   string `gorm:"type:text" json:"caption"`

	// User is resolved by the feed aggregator; nil when the author row is
	// missing (the post is still returned, see FeedService).
	User *User `gorm:"-" json:"user"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the requesting viewer liked this post (computed)
	Liked bool `gorm:"-" json:"liked"`
	// Bookmarked indicates whether the requesting viewer bookmarked this post (computed)
	Bookmarked bool `gorm:"-" json:"bookmarked"`
	// Comments holds the newest root comments as a preview, not the full thread.
	Comments []*Comment `gorm:"-" json:"comments"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FeedPage is one page of aggregated feed items together with the
// pagination contract derived from the total count.
type FeedPage struct {
	Items      []*Post `json:"data"`
	TotalCount int64   `json:"count"`
	HasMore    bool    `json:"has_more"`
}
