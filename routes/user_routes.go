package routes

import (
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(api *gin.RouterGroup, userController *controllers.UserController, self []gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.PUT("/:id", with(self, userController.UpdateUser)...)
		users.DELETE("/:id", with(self, userController.DeleteUser)...)
	}
}
