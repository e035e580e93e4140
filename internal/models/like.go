package models

import (
	"time"
)

// Like is one entry of a post's like set. The composite unique index
// guarantees each account appears at most once per post, so like/unlike
// are idempotent set operations rather than read-modify-write.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
