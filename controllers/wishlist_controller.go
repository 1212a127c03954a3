package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistController struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type WishlistRequest struct {
	UserID       uint  `form:"userId" json:"userId"`
	BucketItemID uint  `form:"bucketItemId" json:"bucketItemId"`
	IsWishlist   *bool `form:"isWishlist" json:"isWishlist"`
}

func NewWishlistController(db *gorm.DB, log *zap.SugaredLogger) *WishlistController {
	return &WishlistController{DB: db, Log: log}
}

// GetWishlist returns the bucket items wish-listed by the named user.
func (wc *WishlistController) GetWishlist(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	items := []models.BucketListItem{}
	if err := wc.DB.WithContext(c.Request.Context()).
		Model(&models.BucketListItem{}).
		Select("adventure_bucket_list.*").
		Joins("JOIN user_wishlist ON user_wishlist.bucket_item_id = adventure_bucket_list.id").
		Joins("JOIN users ON users.id = user_wishlist.user_id").
		Where("users.username = ?", username).
		Order("adventure_bucket_list.id").
		Scan(&items).Error; err != nil {
		serverError(c, wc.Log, err, "Server error fetching wishlist")
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpdateWishlist adds the pair when isWishlist is true and removes it otherwise.
func (wc *WishlistController) UpdateWishlist(c *gin.Context) {
	var req WishlistRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 || req.BucketItemID == 0 || req.IsWishlist == nil {
		respondMessage(c, http.StatusBadRequest, "userId, bucketItemId and isWishlist are required")
		return
	}

	err := wc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		entry := models.UserWishlist{UserID: req.UserID, BucketItemID: req.BucketItemID}
		if !*req.IsWishlist {
			return tx.Where("user_id = ? AND bucket_item_id = ?", req.UserID, req.BucketItemID).
				Delete(&models.UserWishlist{}).Error
		}

		var user models.User
		if err := tx.Select("id").First(&user, req.UserID).Error; err != nil {
			return err
		}
		var item models.BucketListItem
		if err := tx.Select("id").First(&item, req.BucketItemID).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "User or bucket item not found")
			return
		}
		serverError(c, wc.Log, err, "Failed to update wishlist")
		return
	}

	if *req.IsWishlist {
		respondMessage(c, http.StatusOK, "Added to wishlist")
		return
	}
	respondMessage(c, http.StatusOK, "Removed from wishlist")
}
