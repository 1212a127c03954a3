package models

type BucketListItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null;size:255" json:"name"`
	Emoji       string  `gorm:"size:32" json:"emoji"`
	Country     string  `gorm:"size:100" json:"country"`
	Latitude    float64 `gorm:"type:decimal(10,6)" json:"latitude"`
	Longitude   float64 `gorm:"type:decimal(10,6)" json:"longitude"`
	FunFact     string  `gorm:"type:text" json:"funFact"`
	UniqueThing string  `gorm:"type:text" json:"uniqueThing"`
	Completed   bool    `gorm:"not null;default:false" json:"completed"`
	IsWishlist  bool    `gorm:"not null;default:false" json:"isWishlist"`
}

func (BucketListItem) TableName() string {
	return "adventure_bucket_list"
}

type UserWishlist struct {
	UserID       uint `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	BucketItemID uint `gorm:"primaryKey;autoIncrement:false;index" json:"bucketItemId"`
}

func (UserWishlist) TableName() string {
	return "user_wishlist"
}
