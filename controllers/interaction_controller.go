package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Kirtivanjode/wanderwithkii/middleware"
	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InteractionController struct {
	DB      *gorm.DB
	Metrics *middleware.Metrics
	Log     *zap.SugaredLogger
}

type LikeRequest struct {
	Username string `form:"username" json:"username"`
}

type likedPost struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	PostDate time.Time `json:"postDate"`
	LikedAt  time.Time `json:"likedAt"`
}

type userComment struct {
	ID          uint      `json:"id"`
	PostID      uint      `json:"postId"`
	Message     string    `json:"message"`
	CommentDate time.Time `json:"commentDate"`
	PostTitle   string    `json:"postTitle"`
}

func NewInteractionController(db *gorm.DB, metrics *middleware.Metrics, log *zap.SugaredLogger) *InteractionController {
	return &InteractionController{DB: db, Metrics: metrics, Log: log}
}

// ToggleLike flips the like of username on postID and returns the new
// state with the recounted total. The no-op UPDATE takes the post's row
// lock, so toggles on one post run one at a time; the (post_id, username)
// key rejects duplicates regardless.
func (ic *InteractionController) ToggleLike(ctx context.Context, postID uint, username string) (bool, int64, error) {
	var (
		liked bool
		likes int64
	)
	err := ic.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock := tx.Model(&models.BlogPost{}).Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes"))
		if lock.Error != nil {
			return lock.Error
		}
		if lock.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		removed := tx.Where("post_id = ? AND username = ?", postID, username).Delete(&models.PostLike{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected == 0 {
			like := models.PostLike{PostID: postID, Username: username, LikedAt: time.Now().UTC()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			liked = true
		}

		recount := gorm.Expr("(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = ?)", postID)
		if err := tx.Model(&models.BlogPost{}).Where("id = ?", postID).
			UpdateColumn("likes", recount).Error; err != nil {
			return err
		}
		return tx.Model(&models.BlogPost{}).Where("id = ?", postID).Select("likes").Scan(&likes).Error
	})
	return liked, likes, err
}

// LikePost godoc
// @Summary Like or unlike a post
// @Description Toggles the caller's like and returns the new state and count
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} LikeResponse
// @Router /posts/{id}/like [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req LikeRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		respondMessage(c, http.StatusBadRequest, "username required")
		return
	}

	liked, likes, err := ic.ToggleLike(c.Request.Context(), postID, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Post not found")
			return
		}
		serverError(c, ic.Log, err, "Failed to toggle like")
		return
	}
	ic.Metrics.RecordLikeToggle(liked)

	c.JSON(http.StatusOK, LikeResponse{IsLiked: liked, Likes: likes})
}

func (ic *InteractionController) GetPostLikes(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	db := ic.DB.WithContext(c.Request.Context())

	var count int64
	if err := db.Model(&models.BlogPost{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		serverError(c, ic.Log, err, "Failed to load likes")
		return
	}
	if count == 0 {
		respondMessage(c, http.StatusNotFound, "Post not found")
		return
	}

	likedBy := []LikedBy{}
	if err := db.Model(&models.PostLike{}).
		Select("username, liked_at").
		Where("post_id = ?", postID).
		Order("liked_at DESC").
		Scan(&likedBy).Error; err != nil {
		serverError(c, ic.Log, err, "Failed to load likes")
		return
	}
	c.JSON(http.StatusOK, PostLikesResponse{PostID: postID, LikedBy: likedBy})
}

// GetLikedPosts lists the posts a user liked, most recent like first.
func (ic *InteractionController) GetLikedPosts(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	posts := []likedPost{}
	if err := ic.DB.WithContext(c.Request.Context()).
		Table("post_likes").
		Select("blog_posts.id, blog_posts.title, blog_posts.summary, blog_posts.post_date, post_likes.liked_at").
		Joins("JOIN blog_posts ON blog_posts.id = post_likes.post_id").
		Where("post_likes.username = ?", username).
		Order("post_likes.liked_at DESC").
		Scan(&posts).Error; err != nil {
		serverError(c, ic.Log, err, "Failed to load liked posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ic *InteractionController) GetUserComments(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	comments := []userComment{}
	if err := ic.DB.WithContext(c.Request.Context()).
		Table("comments").
		Select("comments.id, comments.post_id, comments.message, comments.comment_date, blog_posts.title AS post_title").
		Joins("JOIN blog_posts ON blog_posts.id = comments.post_id").
		Where("comments.username = ?", username).
		Order("comments.comment_date DESC, comments.id DESC").
		Scan(&comments).Error; err != nil {
		serverError(c, ic.Log, err, "Failed to load comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}
