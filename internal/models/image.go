// Package models contains data structures for the application's domain models.
package models

import "time"

// Image is an uploaded image stored content-addressed by its SHA-256 hash.
// Re-uploading identical bytes reuses the existing row and files.
type Image struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Hash      string `gorm:"uniqueIndex;not null" json:"hash"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	MimeType  string `gorm:"not null" json:"mime_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
	Path      string `gorm:"not null" json:"-"`
	ThumbPath string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
