package models

import (
	"time"
)

// PostLike is keyed by (post_id, username) so a user can like a post at most once.
type PostLike struct {
	PostID   uint      `gorm:"primaryKey;autoIncrement:false" json:"postId"`
	Username string    `gorm:"primaryKey;size:50;index" json:"username"`
	LikedAt  time.Time `gorm:"not null" json:"likedAt"`
}
