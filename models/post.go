package models

import (
	"time"
)

const DefaultAuthor = "Wander With KI"

type BlogPost struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string    `gorm:"not null;size:255" json:"title"`
	Summary  string    `gorm:"type:text" json:"summary"`
	Author   string    `gorm:"not null;size:100" json:"author"`
	PostDate time.Time `gorm:"not null;index" json:"postDate"`
	// Likes mirrors COUNT(*) over post_likes and is only written by the
	// recount statement that runs in the same transaction as the like change.
	Likes   int64 `gorm:"not null;default:0" json:"likes"`
	LogoID  *uint `gorm:"index" json:"logoId"`
	ImageID *uint `gorm:"index" json:"imageId"`
}

// ImageIDs returns the non-nil image references of the post.
func (p *BlogPost) ImageIDs() []uint {
	var ids []uint
	if p.LogoID != nil {
		ids = append(ids, *p.LogoID)
	}
	if p.ImageID != nil {
		ids = append(ids, *p.ImageID)
	}
	return ids
}
