// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a user in the Glimpse application. Users are created
// lazily on the first authenticated action; identity verification itself
// happens at the external identity provider, which supplies ExternalID.
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"uniqueIndex;not null" json:"-"`
	Username   string `gorm:"uniqueIndex;not null" json:"username"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`

	// Computed at query time, never persisted.
	PostsCount     int  `gorm:"-" json:"posts_count"`
	FollowersCount int  `gorm:"-" json:"followers_count"`
	FollowingCount int  `gorm:"-" json:"following_count"`
	IsFollowing    bool `gorm:"-" json:"is_following"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
