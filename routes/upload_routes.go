package routes

import (
	"github.com/Kirtivanjode/wanderwithkii/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUploadRoutes(api *gin.RouterGroup, uploadController *controllers.UploadController) {
	api.GET("/images/:id", uploadController.GetImage)
}
