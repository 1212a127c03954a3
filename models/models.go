package models

// All returns every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Image{},
		&BlogPost{},
		&Comment{},
		&PostLike{},
		&BucketListItem{},
		&UserWishlist{},
		&FoodItem{},
		&Adventure{},
		&WebsiteSection{},
	}
}
