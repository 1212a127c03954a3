package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentController struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

type CommentRequest struct {
	PostID   uint   `form:"post_id" json:"post_id"`
	Username string `form:"username" json:"username"`
	Message  string `form:"message" json:"message"`
}

func NewCommentController(db *gorm.DB, log *zap.SugaredLogger) *CommentController {
	return &CommentController{DB: db, Log: log}
}

// GetComments returns the comments of a post, newest first. An unknown
// post yields an empty list.
func (cc *CommentController) GetComments(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	comments := []models.Comment{}
	if err := cc.DB.WithContext(c.Request.Context()).
		Where("post_id = ?", postID).
		Order("comment_date DESC, id DESC").
		Find(&comments).Error; err != nil {
		serverError(c, cc.Log, err, "Failed to load comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	message := utils.SanitizePlain(req.Message)
	if req.PostID == 0 || username == "" || message == "" {
		respondMessage(c, http.StatusBadRequest, "All fields required")
		return
	}

	comment := models.Comment{
		PostID:      req.PostID,
		Username:    username,
		Message:     message,
		CommentDate: time.Now().UTC(),
	}
	err := cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		if err := tx.Select("id").First(&post, req.PostID).Error; err != nil {
			return err
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Post not found")
			return
		}
		serverError(c, cc.Log, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Comment added successfully", ID: comment.ID})
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result := cc.DB.WithContext(c.Request.Context()).Delete(&models.Comment{}, id)
	if result.Error != nil {
		serverError(c, cc.Log, result.Error, "Failed to delete comment")
		return
	}
	if result.RowsAffected == 0 {
		respondMessage(c, http.StatusNotFound, "Comment not found")
		return
	}
	respondMessage(c, http.StatusOK, "Comment deleted successfully")
}
