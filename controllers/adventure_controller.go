package controllers

import (
	"errors"
	"net/http"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdventureController struct {
	DB      *gorm.DB
	Uploads *UploadController
	Log     *zap.SugaredLogger
}

type AdventureRequest struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	Location    *string `form:"location" json:"location"`
}

type adventureView struct {
	models.Adventure
	ImageName *string `json:"imageName"`
}

func NewAdventureController(db *gorm.DB, uploads *UploadController, log *zap.SugaredLogger) *AdventureController {
	return &AdventureController{DB: db, Uploads: uploads, Log: log}
}

func (r *AdventureRequest) apply(a *models.Adventure) {
	if r.Name != nil {
		a.Name = trimmed(r.Name)
	}
	if r.Description != nil {
		a.Description = trimmed(r.Description)
	}
	if r.Location != nil {
		a.Location = trimmed(r.Location)
	}
}

func (ac *AdventureController) views(c *gin.Context) *gorm.DB {
	return ac.DB.WithContext(c.Request.Context()).
		Model(&models.Adventure{}).
		Select("adventures.*, images.name AS image_name").
		Joins("LEFT JOIN images ON images.id = adventures.image_id")
}

func (ac *AdventureController) GetAdventures(c *gin.Context) {
	adventures := []adventureView{}
	if err := ac.views(c).Order("adventures.id").Scan(&adventures).Error; err != nil {
		serverError(c, ac.Log, err, "Failed to get adventures")
		return
	}
	c.JSON(http.StatusOK, adventures)
}

func (ac *AdventureController) GetAdventure(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var adventure adventureView
	result := ac.views(c).Where("adventures.id = ?", id).Limit(1).Scan(&adventure)
	if result.Error != nil {
		serverError(c, ac.Log, result.Error, "Failed to get adventure")
		return
	}
	if result.RowsAffected == 0 {
		respondMessage(c, http.StatusNotFound, "Adventure not found")
		return
	}
	c.JSON(http.StatusOK, adventure)
}

func (ac *AdventureController) CreateAdventure(c *gin.Context) {
	var req AdventureRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if trimmed(req.Name) == "" {
		respondMessage(c, http.StatusBadRequest, "Name is required")
		return
	}
	img, err := ac.Uploads.readImage(c, "image")
	if err != nil {
		uploadError(c, ac.Log, err)
		return
	}

	var adventure models.Adventure
	req.apply(&adventure)
	err = ac.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := attachImage(tx, &adventure.ImageID, img); err != nil {
			return err
		}
		return tx.Create(&adventure).Error
	})
	if err != nil {
		serverError(c, ac.Log, err, "Failed to create adventure")
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Adventure created", ID: adventure.ID})
}

func (ac *AdventureController) UpdateAdventure(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AdventureRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil && trimmed(req.Name) == "" {
		respondMessage(c, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	img, err := ac.Uploads.readImage(c, "image")
	if err != nil {
		uploadError(c, ac.Log, err)
		return
	}

	var retired uint
	err = ac.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var adventure models.Adventure
		if err := tx.First(&adventure, id).Error; err != nil {
			return err
		}
		req.apply(&adventure)
		old, err := attachImage(tx, &adventure.ImageID, img)
		if err != nil {
			return err
		}
		if err := tx.Save(&adventure).Error; err != nil {
			return err
		}
		retired = old
		return deleteImages(tx, old)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Adventure not found")
			return
		}
		serverError(c, ac.Log, err, "Failed to update adventure")
		return
	}
	ac.Uploads.forget(c.Request.Context(), retired)
	respondMessage(c, http.StatusOK, "Adventure updated")
}

func (ac *AdventureController) DeleteAdventure(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var imageID uint
	err := ac.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var adventure models.Adventure
		if err := tx.First(&adventure, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&adventure).Error; err != nil {
			return err
		}
		if adventure.ImageID != nil {
			imageID = *adventure.ImageID
		}
		return deleteImages(tx, imageID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Adventure not found")
			return
		}
		serverError(c, ac.Log, err, "Failed to delete adventure")
		return
	}
	ac.Uploads.forget(c.Request.Context(), imageID)
	respondMessage(c, http.StatusOK, "Adventure deleted")
}
