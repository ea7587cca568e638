package handlers

import (
	"net/http"
	"strings"

	"goddit/internal/auth"
	"goddit/internal/db"
	"goddit/internal/middleware"
	"goddit/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	tokens *auth.TokenService
}

func NewAuthHandler(tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

type registerInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	errs := fieldErrors{}
	if input.Email == "" {
		errs["email"] = "email must not be empty"
	}
	if input.Username == "" {
		errs["username"] = "username must not be empty"
	}
	if len(input.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}

	// Uniqueness checks are reported per field, like the blank checks
	if input.Email != "" {
		var existing models.User
		if err := db.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			errs["email"] = "email is already taken"
		}
	}
	if input.Username != "" {
		var existing models.User
		if err := db.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
			errs["username"] = "username is already taken"
		}
	}
	if !errs.ok() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		internalError(c, err)
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	errs := fieldErrors{}
	if strings.TrimSpace(input.Username) == "" {
		errs["username"] = "username must not be empty"
	}
	if input.Password == "" {
		errs["password"] = "password must not be empty"
	}
	if !errs.ok() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, fieldErrors{"username": "user not found"})
			return
		}
		internalError(c, err)
		return
	}

	if !auth.CheckPasswordHash(input.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, fieldErrors{"password": "password is incorrect"})
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		internalError(c, err)
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(auth.TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
