package controllers

import (
	"time"

	"github.com/Kirtivanjode/wanderwithkii/models"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type CreatePostResponse struct {
	Message string `json:"message"`
	PostID  uint   `json:"postId"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Role  string       `json:"role"`
	Token string       `json:"token"`
}

type LikeResponse struct {
	IsLiked bool  `json:"isLiked"`
	Likes   int64 `json:"likes"`
}

type LikedBy struct {
	Username string    `json:"username"`
	LikedAt  time.Time `json:"likedAt"`
}

type PostLikesResponse struct {
	PostID  uint      `json:"postId"`
	LikedBy []LikedBy `json:"likedBy"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}
