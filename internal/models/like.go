package models

import "time"

// Like represents a user's like on a post. The combination of PostID and
// UserID is unique: the index is the only mechanism guarding concurrent
// double-likes. Likes are hard-deleted on unlike so the unique pair can be
// re-created.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user_like" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}
