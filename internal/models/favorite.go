package models

import "time"

// Favorite marks a post a user wants to find again. Same uniqueness rule as
// likes: at most one row per (post, user).
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user_fav" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user_fav" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `gorm:"foreignKey:PostID" json:"post"`
}
