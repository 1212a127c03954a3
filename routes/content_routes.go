package routes

import (
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/gin-gonic/gin"
)

func SetupBucketListRoutes(api *gin.RouterGroup, bucketListController *controllers.BucketListController, wishlistController *controllers.WishlistController, admin []gin.HandlerFunc) {
	bucket := api.Group("/bucketlist")
	{
		bucket.GET("", bucketListController.GetItems)
		bucket.GET("/:id", bucketListController.GetItem)
		bucket.POST("", with(admin, bucketListController.CreateItem)...)
		bucket.PUT("/:id", with(admin, bucketListController.UpdateItem)...)
		bucket.DELETE("/:id", with(admin, bucketListController.DeleteItem)...)
	}

	wishlist := api.Group("/wishlist")
	{
		wishlist.GET("/:username", wishlistController.GetWishlist)
		wishlist.POST("", wishlistController.UpdateWishlist)
	}
}

func SetupContentRoutes(api *gin.RouterGroup, foodController *controllers.FoodController, adventureController *controllers.AdventureController, sectionController *controllers.SectionController, admin []gin.HandlerFunc) {
	food := api.Group("/fooditems")
	{
		food.GET("", foodController.GetFoodItems)
		food.GET("/:id", foodController.GetFoodItem)
		food.POST("", with(admin, foodController.CreateFoodItem)...)
		food.PUT("/:id", with(admin, foodController.UpdateFoodItem)...)
		food.DELETE("/:id", with(admin, foodController.DeleteFoodItem)...)
	}

	adventures := api.Group("/adventures")
	{
		adventures.GET("", adventureController.GetAdventures)
		adventures.GET("/:id", adventureController.GetAdventure)
		adventures.POST("", with(admin, adventureController.CreateAdventure)...)
		adventures.PUT("/:id", with(admin, adventureController.UpdateAdventure)...)
		adventures.DELETE("/:id", with(admin, adventureController.DeleteAdventure)...)
	}

	// Website sections
	home := api.Group("/home")
	{
		home.GET("", sectionController.GetSections)
		home.GET("/:id", sectionController.GetSection)
		home.POST("", with(admin, sectionController.CreateSection)...)
		home.PUT("/:id", with(admin, sectionController.UpdateSection)...)
		home.DELETE("/:id", with(admin, sectionController.DeleteSection)...)
	}
}
