package routes

import (
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/gin-gonic/gin"
)

func SetupInteractionRoutes(api *gin.RouterGroup, interactionController *controllers.InteractionController) {
	// Post interactions
	posts := api.Group("/posts")
	{
		posts.POST("/:id/like", interactionController.LikePost)
		posts.GET("/:id/likes", interactionController.GetPostLikes)
	}

	// User activity
	api.GET("/liked-posts/:username", interactionController.GetLikedPosts)
	api.GET("/user-comments/:username", interactionController.GetUserComments)
}
