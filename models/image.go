package models

import "time"

// Image is a stored upload. Rows are immutable: replacing an owner's image
// inserts a new row and deletes the old one.
type Image struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	ContentType string    `gorm:"not null;size:100" json:"contentType"`
	Data        []byte    `gorm:"column:image_data;not null" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
