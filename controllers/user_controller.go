package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type UpdateUserRequest struct {
	Username *string `form:"username" json:"username"`
	Email    *string `form:"email" json:"email"`
	Phone    *string `form:"phone" json:"phone"`
}

func NewUserController(db *gorm.DB, log *zap.SugaredLogger) *UserController {
	return &UserController{DB: db, Log: log}
}

// UpdateUser changes account settings. A new username is carried over to
// the user's comments and likes in the same transaction.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	var newUsername string
	if req.Username != nil {
		name, err := utils.ValidateUsername(*req.Username)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}
		newUsername = name
	}

	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		oldUsername := user.Username

		updates := map[string]interface{}{}
		if newUsername != "" && newUsername != oldUsername {
			updates["username"] = newUsername
		}
		if req.Email != nil {
			updates["email"] = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			updates["phone"] = strings.TrimSpace(*req.Phone)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		if _, renamed := updates["username"]; renamed {
			if err := tx.Model(&models.Comment{}).Where("username = ?", oldUsername).
				Update("username", newUsername).Error; err != nil {
				return err
			}
			if err := renameLikes(tx, oldUsername, newUsername); err != nil {
				return err
			}
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondMessage(c, http.StatusNotFound, "User not found")
		case utils.IsUniqueViolation(err):
			respondMessage(c, http.StatusConflict, "Username already exists")
		default:
			serverError(c, uc.Log, err, "Failed to update user")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// renameLikes moves likes to the new name. Likes and comments carry free
// text usernames, so the new name may already like some of the same posts:
// those duplicates are dropped and the posts recounted.
func renameLikes(tx *gorm.DB, oldUsername, newUsername string) error {
	var shared []uint
	if err := tx.Model(&models.PostLike{}).
		Where("username = ?", oldUsername).
		Where("post_id IN (?)", tx.Model(&models.PostLike{}).Select("post_id").Where("username = ?", newUsername)).
		Pluck("post_id", &shared).Error; err != nil {
		return err
	}
	if len(shared) > 0 {
		if err := tx.Where("username = ? AND post_id IN ?", oldUsername, shared).
			Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(&models.PostLike{}).Where("username = ?", oldUsername).
		Update("username", newUsername).Error; err != nil {
		return err
	}
	if len(shared) == 0 {
		return nil
	}
	return tx.Model(&models.BlogPost{}).Where("id IN ?", shared).
		UpdateColumn("likes", gorm.Expr("(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = blog_posts.id)")).Error
}

// DeleteUser removes the account with its wishlist, likes and comments, then
// recounts the likes of every post the user had liked.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := uc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var likedPosts []uint
		if err := tx.Model(&models.PostLike{}).Where("username = ?", user.Username).
			Pluck("post_id", &likedPosts).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserWishlist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("username = ?", user.Username).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("username = ?", user.Username).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}

		if len(likedPosts) == 0 {
			return nil
		}
		return tx.Model(&models.BlogPost{}).Where("id IN ?", likedPosts).
			UpdateColumn("likes", gorm.Expr("(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = blog_posts.id)")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		serverError(c, uc.Log, err, "Failed to delete user")
		return
	}
	respondMessage(c, http.StatusOK, "User deleted successfully")
}
