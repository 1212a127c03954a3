package routes

import (
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(api *gin.RouterGroup, authController *controllers.AuthController, limit gin.HandlerFunc, signedIn []gin.HandlerFunc) {
	api.POST("/auth", limit, authController.Auth)
	api.PUT("/auth/password", with(append([]gin.HandlerFunc{limit}, signedIn...), authController.ChangePassword)...)

	api.POST("/admin", limit, authController.AdminLogin)
	api.POST("/admin/login", limit, authController.AdminLogin)
}
