package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a feed post. A post always has a text body; attachments
// are optional and kept in insertion order.
type Post struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	Text   string     `gorm:"type:text;not null" json:"text"`
	UserID uint       `gorm:"not null;index" json:"user_id"`
	User   User       `gorm:"foreignKey:UserID" json:"user"`
	Files  []PostFile `gorm:"foreignKey:PostID" json:"files"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comment_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostFile is a single attachment URL belonging to a post. Position
// preserves the upload order.
type PostFile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	URL      string `gorm:"not null" json:"url"`
	Position int    `gorm:"not null;default:0" json:"-"`
}
