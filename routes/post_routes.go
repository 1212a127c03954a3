package routes

import (
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/gin-gonic/gin"
)

func SetupPostRoutes(api *gin.RouterGroup, postController *controllers.PostController, admin []gin.HandlerFunc) {
	posts := api.Group("/posts")
	{
		posts.GET("", postController.GetPosts)
		posts.GET("/:id", postController.GetPost)
		posts.POST("", with(admin, postController.CreatePost)...)
		posts.PUT("/:id", with(admin, postController.UpdatePost)...)
		posts.DELETE("/:id", with(admin, postController.DeletePost)...)
	}
}

func SetupCommentRoutes(api *gin.RouterGroup, commentController *controllers.CommentController) {
	comments := api.Group("/comments")
	{
		// :id is the post id on GET and the comment id on DELETE
		comments.GET("/:id", commentController.GetComments)
		comments.POST("", commentController.CreateComment)
		comments.DELETE("/:id", commentController.DeleteComment)
	}
}
