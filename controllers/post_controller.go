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

type PostController struct {
	DB      *gorm.DB
	Uploads *UploadController
	Log     *zap.SugaredLogger
}

// PostRequest binds from JSON or multipart form fields. Nil fields are left
// unchanged on update.
type PostRequest struct {
	Title   *string `form:"title" json:"title"`
	Summary *string `form:"summary" json:"summary"`
}

type postSummary struct {
	models.BlogPost
	CommentCount int64   `json:"commentCount"`
	IsLiked      bool    `json:"isLiked"`
	LogoName     *string `json:"logoName"`
	ImageName    *string `json:"imageName"`
}

const postSummarySelect = `blog_posts.*,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = blog_posts.id) AS comment_count,
	EXISTS (SELECT 1 FROM post_likes WHERE post_likes.post_id = blog_posts.id AND post_likes.username = ?) AS is_liked,
	logo.name AS logo_name,
	img.name AS image_name`

func NewPostController(db *gorm.DB, uploads *UploadController, log *zap.SugaredLogger) *PostController {
	return &PostController{DB: db, Uploads: uploads, Log: log}
}

func (pc *PostController) summaries(c *gin.Context) *gorm.DB {
	username := strings.TrimSpace(c.Query("username"))
	return pc.DB.WithContext(c.Request.Context()).
		Model(&models.BlogPost{}).
		Select(postSummarySelect, username).
		Joins("LEFT JOIN images logo ON logo.id = blog_posts.logo_id").
		Joins("LEFT JOIN images img ON img.id = blog_posts.image_id")
}

// GetPosts godoc
// @Summary List posts
// @Description Returns every post, newest first, with comment count and the caller's like state
// @Tags posts
// @Produce json
// @Param username query string false "Username used for isLiked"
// @Router /posts [get]
func (pc *PostController) GetPosts(c *gin.Context) {
	posts := []postSummary{}
	if err := pc.summaries(c).
		Order("blog_posts.post_date DESC, blog_posts.id DESC").
		Scan(&posts).Error; err != nil {
		serverError(c, pc.Log, err, "Failed to load posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (pc *PostController) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var post postSummary
	result := pc.summaries(c).Where("blog_posts.id = ?", id).Limit(1).Scan(&post)
	if result.Error != nil {
		serverError(c, pc.Log, result.Error, "Failed to load post")
		return
	}
	if result.RowsAffected == 0 {
		respondMessage(c, http.StatusNotFound, "Post not found")
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Description Creates a post with optional logo and body images in one transaction
// @Tags posts
// @Accept mpfd,json
// @Produce json
// @Success 201 {object} CreatePostResponse
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	title, summary := trimmed(req.Title), trimmed(req.Summary)
	if title == "" || summary == "" {
		respondMessage(c, http.StatusBadRequest, "Title and summary are required")
		return
	}

	logo, err := pc.Uploads.readImage(c, "logoImage")
	if err != nil {
		uploadError(c, pc.Log, err)
		return
	}
	body, err := pc.Uploads.readImage(c, "postImage")
	if err != nil {
		uploadError(c, pc.Log, err)
		return
	}

	post := models.BlogPost{
		Title:    title,
		Summary:  utils.SanitizeRich(summary),
		Author:   models.DefaultAuthor,
		PostDate: time.Now().UTC(),
		Likes:    0,
	}
	err = pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := attachImage(tx, &post.LogoID, logo); err != nil {
			return err
		}
		if _, err := attachImage(tx, &post.ImageID, body); err != nil {
			return err
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		serverError(c, pc.Log, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, CreatePostResponse{Message: "Post created successfully", PostID: post.ID})
}

// UpdatePost applies the supplied fields. A new file replaces the image in
// its slot and the old image row is deleted in the same transaction.
func (pc *PostController) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title != nil && trimmed(req.Title) == "" {
		respondMessage(c, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	logo, err := pc.Uploads.readImage(c, "logoImage")
	if err != nil {
		uploadError(c, pc.Log, err)
		return
	}
	body, err := pc.Uploads.readImage(c, "postImage")
	if err != nil {
		uploadError(c, pc.Log, err)
		return
	}

	var retired []uint
	err = pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = trimmed(req.Title)
		}
		if req.Summary != nil {
			updates["summary"] = utils.SanitizeRich(trimmed(req.Summary))
		}
		oldLogo, err := attachImage(tx, &post.LogoID, logo)
		if err != nil {
			return err
		}
		oldBody, err := attachImage(tx, &post.ImageID, body)
		if err != nil {
			return err
		}
		if logo != nil {
			updates["logo_id"] = post.LogoID
		}
		if body != nil {
			updates["image_id"] = post.ImageID
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.BlogPost{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		retired = []uint{oldLogo, oldBody}
		return deleteImages(tx, retired...)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Post not found")
			return
		}
		serverError(c, pc.Log, err, "Failed to update post")
		return
	}
	pc.Uploads.forget(c.Request.Context(), retired...)

	respondMessage(c, http.StatusOK, "Post updated successfully")
}

// DeletePost removes likes, comments, the post and then its images.
func (pc *PostController) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var images []uint
	err := pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BlogPost{}, id).Error; err != nil {
			return err
		}
		images = post.ImageIDs()
		return deleteImages(tx, images...)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Post not found")
			return
		}
		serverError(c, pc.Log, err, "Failed to delete post")
		return
	}
	pc.Uploads.forget(c.Request.Context(), images...)

	respondMessage(c, http.StatusOK, "Post deleted successfully")
}
