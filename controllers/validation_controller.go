package controllers

import (
	"net/http"
	"strings"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ValidationController struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

func NewValidationController(db *gorm.DB, log *zap.SugaredLogger) *ValidationController {
	return &ValidationController{DB: db, Log: log}
}

func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	vc.available(c, "username", strings.TrimSpace(c.Param("username")), "Failed to check username")
}

func (vc *ValidationController) ValidateEmail(c *gin.Context) {
	vc.available(c, "email", strings.TrimSpace(c.Param("email")), "Failed to check email")
}

func (vc *ValidationController) available(c *gin.Context, column, value, failure string) {
	if value == "" {
		respondMessage(c, http.StatusBadRequest, column+" is required")
		return
	}
	var count int64
	if err := vc.DB.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error; err != nil {
		serverError(c, vc.Log, err, failure)
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Available: count == 0})
}
