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

const (
	actionLogin  = "login"
	actionSignup = "signup"
)

type AuthController struct {
	DB        *gorm.DB
	Verifier  utils.CredentialVerifier
	JWTSecret string
	JWTTTL    time.Duration
	Log       *zap.SugaredLogger
}

type AuthRequest struct {
	Action   string `form:"action" json:"action"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Email    string `form:"email" json:"email"`
	Phone    string `form:"phone" json:"phone"`
}

type ChangePasswordRequest struct {
	UserID      uint   `form:"userId" json:"userId"`
	OldPassword string `form:"oldPassword" json:"oldPassword"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

func NewAuthController(db *gorm.DB, verifier utils.CredentialVerifier, jwtSecret string, jwtTTL time.Duration, log *zap.SugaredLogger) *AuthController {
	return &AuthController{
		DB:        db,
		Verifier:  verifier,
		JWTSecret: jwtSecret,
		JWTTTL:    jwtTTL,
		Log:       log,
	}
}

// Auth godoc
// @Summary Log in or sign up
// @Description Dispatches on action. Signup answers 409 when the username is taken.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} AuthResponse
// @Router /auth [post]
func (ac *AuthController) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case actionLogin:
		ac.login(c, req, false)
	case actionSignup:
		ac.signup(c, req)
	default:
		respondMessage(c, http.StatusBadRequest, "Invalid action")
	}
}

// AdminLogin accepts only accounts with the admin role.
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	ac.login(c, req, true)
}

// login authenticates req. adminOnly rejects accounts without the admin role.
func (ac *AuthController) login(c *gin.Context, req AuthRequest, adminOnly bool) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondMessage(c, http.StatusBadRequest, "Username and password are required")
		return
	}
	invalid := "Invalid credentials"
	if adminOnly {
		invalid = "Invalid admin credentials"
	}

	var user models.User
	if err := ac.DB.WithContext(c.Request.Context()).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusUnauthorized, invalid)
			return
		}
		serverError(c, ac.Log, err, "Server error")
		return
	}
	if err := ac.Verifier.Verify(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, utils.ErrPasswordMismatch) {
			ac.Log.Warnw("Password verification failed", "user_id", user.ID, "error", err)
		}
		respondMessage(c, http.StatusUnauthorized, invalid)
		return
	}
	if adminOnly && !user.IsAdmin() {
		respondMessage(c, http.StatusUnauthorized, invalid)
		return
	}

	ac.respondWithToken(c, http.StatusOK, &user)
}

func (ac *AuthController) signup(c *gin.Context, req AuthRequest) {
	username, err := utils.ValidateUsername(req.Username)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := ac.Verifier.Hash(req.Password)
	if err != nil {
		serverError(c, ac.Log, err, "Server error")
		return
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleUser,
	}
	// The unique index decides; there is no separate existence check to race with.
	if err := ac.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if utils.IsUniqueViolation(err) {
			respondMessage(c, http.StatusConflict, "Username already exists")
			return
		}
		serverError(c, ac.Log, err, "Server error")
		return
	}

	ac.respondWithToken(c, http.StatusCreated, &user)
}

func (ac *AuthController) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := utils.IssueToken(ac.JWTSecret, ac.JWTTTL, user.ID, user.Username, user.Role)
	if err != nil {
		serverError(c, ac.Log, err, "Server error")
		return
	}
	c.JSON(status, AuthResponse{User: user, Role: user.Role, Token: token})
}

// ChangePassword replaces the password after verifying the old one.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == 0 || req.OldPassword == "" || req.NewPassword == "" {
		respondMessage(c, http.StatusBadRequest, "userId, oldPassword and newPassword are required")
		return
	}
	// Claims are present only when the route is guarded.
	if claims := utils.GetUser(c); claims != nil && claims.UserID != req.UserID && claims.Role != models.RoleAdmin {
		respondMessage(c, http.StatusForbidden, "Forbidden")
		return
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		serverError(c, ac.Log, err, "Failed to change password")
		return
	}
	if err := ac.Verifier.Verify(user.PasswordHash, req.OldPassword); err != nil {
		respondMessage(c, http.StatusUnauthorized, "Old password is incorrect")
		return
	}

	hash, err := ac.Verifier.Hash(req.NewPassword)
	if err != nil {
		serverError(c, ac.Log, err, "Failed to change password")
		return
	}
	if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
		serverError(c, ac.Log, err, "Failed to change password")
		return
	}
	respondMessage(c, http.StatusOK, "Password updated successfully")
}
