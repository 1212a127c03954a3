package controllers

import (
	"errors"
	"net/http"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FoodController struct {
	DB      *gorm.DB
	Uploads *UploadController
	Log     *zap.SugaredLogger
}

type FoodRequest struct {
	Name        *string  `form:"name" json:"name"`
	Description *string  `form:"description" json:"description"`
	Location    *string  `form:"location" json:"location"`
	Rating      *float64 `form:"rating" json:"rating"`
}

type foodView struct {
	models.FoodItem
	ImageName *string `json:"imageName"`
}

func NewFoodController(db *gorm.DB, uploads *UploadController, log *zap.SugaredLogger) *FoodController {
	return &FoodController{DB: db, Uploads: uploads, Log: log}
}

func (r *FoodRequest) apply(item *models.FoodItem) {
	if r.Name != nil {
		item.Name = trimmed(r.Name)
	}
	if r.Description != nil {
		item.Description = trimmed(r.Description)
	}
	if r.Location != nil {
		item.Location = trimmed(r.Location)
	}
	if r.Rating != nil {
		item.Rating = *r.Rating
	}
}

func (r *FoodRequest) validateRating() bool {
	return r.Rating == nil || (*r.Rating >= 0 && *r.Rating <= 5)
}

func (fc *FoodController) views(c *gin.Context) *gorm.DB {
	return fc.DB.WithContext(c.Request.Context()).
		Model(&models.FoodItem{}).
		Select("food_items.*, images.name AS image_name").
		Joins("LEFT JOIN images ON images.id = food_items.image_id")
}

func (fc *FoodController) GetFoodItems(c *gin.Context) {
	items := []foodView{}
	if err := fc.views(c).Order("food_items.id").Scan(&items).Error; err != nil {
		serverError(c, fc.Log, err, "Failed to get food items")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (fc *FoodController) GetFoodItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var item foodView
	result := fc.views(c).Where("food_items.id = ?", id).Limit(1).Scan(&item)
	if result.Error != nil {
		serverError(c, fc.Log, result.Error, "Failed to get food item")
		return
	}
	if result.RowsAffected == 0 {
		respondMessage(c, http.StatusNotFound, "Food item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateFoodItem requires an image. Rating defaults to 0.
func (fc *FoodController) CreateFoodItem(c *gin.Context) {
	var req FoodRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if trimmed(req.Name) == "" {
		respondMessage(c, http.StatusBadRequest, "Name is required")
		return
	}
	if !req.validateRating() {
		respondMessage(c, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}
	img, err := fc.Uploads.readImage(c, "image")
	if err != nil {
		uploadError(c, fc.Log, err)
		return
	}
	if img == nil {
		respondMessage(c, http.StatusBadRequest, "Image required")
		return
	}

	var item models.FoodItem
	req.apply(&item)
	err = fc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := attachImage(tx, &item.ImageID, img); err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		serverError(c, fc.Log, err, "Failed to create food item")
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Food item created", ID: item.ID})
}

func (fc *FoodController) UpdateFoodItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req FoodRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil && trimmed(req.Name) == "" {
		respondMessage(c, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if !req.validateRating() {
		respondMessage(c, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}
	img, err := fc.Uploads.readImage(c, "image")
	if err != nil {
		uploadError(c, fc.Log, err)
		return
	}

	var retired uint
	err = fc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var item models.FoodItem
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		req.apply(&item)
		old, err := attachImage(tx, &item.ImageID, img)
		if err != nil {
			return err
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		retired = old
		return deleteImages(tx, old)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Food item not found")
			return
		}
		serverError(c, fc.Log, err, "Failed to update food item")
		return
	}
	fc.Uploads.forget(c.Request.Context(), retired)
	respondMessage(c, http.StatusOK, "Food item updated")
}

func (fc *FoodController) DeleteFoodItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var imageID uint
	err := fc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var item models.FoodItem
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		if item.ImageID != nil {
			imageID = *item.ImageID
		}
		return deleteImages(tx, imageID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Food item not found")
			return
		}
		serverError(c, fc.Log, err, "Failed to delete food item")
		return
	}
	fc.Uploads.forget(c.Request.Context(), imageID)
	respondMessage(c, http.StatusOK, "Food item deleted")
}
