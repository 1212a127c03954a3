package models

import (
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"postId"`
	Username    string    `gorm:"not null;size:50;index" json:"username"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CommentDate time.Time `gorm:"not null" json:"commentDate"`
}
