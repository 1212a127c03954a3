package controllers

import (
	"errors"
	"net/http"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BucketListController struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type BucketItemRequest struct {
	Name        *string  `form:"name" json:"name"`
	Emoji       *string  `form:"emoji" json:"emoji"`
	Country     *string  `form:"country" json:"country"`
	Latitude    *float64 `form:"latitude" json:"latitude"`
	Longitude   *float64 `form:"longitude" json:"longitude"`
	FunFact     *string  `form:"funFact" json:"funFact"`
	UniqueThing *string  `form:"uniqueThing" json:"uniqueThing"`
	Completed   *bool    `form:"completed" json:"completed"`
	IsWishlist  *bool    `form:"isWishlist" json:"isWishlist"`
}

func (r *BucketItemRequest) validate() error {
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return badRequest("latitude must be between -90 and 90")
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return badRequest("longitude must be between -180 and 180")
	}
	return nil
}

// apply copies the non-nil fields onto item.
func (r *BucketItemRequest) apply(item *models.BucketListItem) {
	if r.Name != nil {
		item.Name = trimmed(r.Name)
	}
	if r.Emoji != nil {
		item.Emoji = trimmed(r.Emoji)
	}
	if r.Country != nil {
		item.Country = trimmed(r.Country)
	}
	if r.Latitude != nil {
		item.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		item.Longitude = *r.Longitude
	}
	if r.FunFact != nil {
		item.FunFact = trimmed(r.FunFact)
	}
	if r.UniqueThing != nil {
		item.UniqueThing = trimmed(r.UniqueThing)
	}
	if r.Completed != nil {
		item.Completed = *r.Completed
	}
	if r.IsWishlist != nil {
		item.IsWishlist = *r.IsWishlist
	}
}

func NewBucketListController(db *gorm.DB, log *zap.SugaredLogger) *BucketListController {
	return &BucketListController{DB: db, Log: log}
}

// GetItems lists bucket items by id, optionally filtered by ?completed= and ?wishlist=.
func (bc *BucketListController) GetItems(c *gin.Context) {
	completed, ok := optionalBool(c, "completed")
	if !ok {
		return
	}
	wishlist, ok := optionalBool(c, "wishlist")
	if !ok {
		return
	}

	query := bc.DB.WithContext(c.Request.Context()).Model(&models.BucketListItem{})
	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}
	if wishlist != nil {
		query = query.Where("is_wishlist = ?", *wishlist)
	}

	items := []models.BucketListItem{}
	if err := query.Order("id").Find(&items).Error; err != nil {
		serverError(c, bc.Log, err, "Failed to fetch bucket list items")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (bc *BucketListController) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var item models.BucketListItem
	if err := bc.DB.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Bucket list item not found")
			return
		}
		serverError(c, bc.Log, err, "Failed to fetch bucket list item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (bc *BucketListController) CreateItem(c *gin.Context) {
	var req BucketItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if trimmed(req.Name) == "" {
		respondMessage(c, http.StatusBadRequest, "Name is required")
		return
	}
	if err := req.validate(); err != nil {
		respondValidation(c, err)
		return
	}

	var item models.BucketListItem
	req.apply(&item)
	if err := bc.DB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		serverError(c, bc.Log, err, "Failed to insert bucket item")
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Bucket item added", ID: item.ID})
}

func (bc *BucketListController) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req BucketItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil && trimmed(req.Name) == "" {
		respondMessage(c, http.StatusBadRequest, "Name cannot be empty")
		return
	}
	if err := req.validate(); err != nil {
		respondValidation(c, err)
		return
	}

	err := bc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var item models.BucketListItem
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		req.apply(&item)
		return tx.Save(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Bucket list item not found")
			return
		}
		serverError(c, bc.Log, err, "Failed to update bucket item")
		return
	}
	respondMessage(c, http.StatusOK, "Bucket list item updated")
}

// DeleteItem also removes the item from every user's wishlist.
func (bc *BucketListController) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := bc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bucket_item_id = ?", id).Delete(&models.UserWishlist{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BucketListItem{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Bucket list item not found")
			return
		}
		serverError(c, bc.Log, err, "Failed to delete bucket list item")
		return
	}
	respondMessage(c, http.StatusOK, "Bucket list item deleted")
}
