package models

type FoodItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null;size:255" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Location    string  `gorm:"size:255" json:"location"`
	Rating      float64 `gorm:"type:decimal(3,1);not null;default:0" json:"rating"`
	ImageID     *uint   `gorm:"index" json:"imageId"`
}

type Adventure struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null;size:255" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"size:255" json:"location"`
	ImageID     *uint  `gorm:"index" json:"imageId"`
}

const (
	SectionHero        = "hero"
	SectionStory       = "story"
	SectionDestination = "destination"
)

type WebsiteSection struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        string `gorm:"not null;size:20" json:"type"` // hero, story or destination
	Title       string `gorm:"not null;size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Content1    string `gorm:"type:text" json:"content1"`
	Content2    string `gorm:"type:text" json:"content2"`
	SortOrder   int    `gorm:"not null;default:0" json:"sortOrder"`
	ImageID     *uint  `gorm:"index" json:"imageId"`
}
