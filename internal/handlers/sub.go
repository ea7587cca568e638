package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"goddit/internal/db"
	"goddit/internal/middleware"
	"goddit/internal/models"
	"goddit/internal/services"
	"goddit/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const topSubsCacheKey = "subs:top"

const topSubsTTL = time.Minute

type SubHandler struct {
	uploads *services.UploadService
	siteURL string
}

func NewSubHandler(uploads *services.UploadService, siteURL string) *SubHandler {
	return &SubHandler{uploads: uploads, siteURL: siteURL}
}

type createSubInput struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *SubHandler) Create(c *gin.Context) {
	var input createSubInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Title = strings.TrimSpace(input.Title)

	errs := fieldErrors{}
	if input.Name == "" {
		errs["name"] = "name must not be empty"
	}
	if input.Title == "" {
		errs["title"] = "title must not be empty"
	}

	// Near-duplicates like "Foo" vs "foo" are rejected, the lookup is
	// case-insensitive even though the stored name keeps its case.
	if input.Name != "" {
		var existing models.Sub
		if err := db.DB.Where("LOWER(name) = LOWER(?)", input.Name).First(&existing).Error; err == nil {
			errs["name"] = "sub already exists"
		}
	}
	if !errs.ok() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	user := middleware.CurrentUser(c)
	sub := models.Sub{
		Name:        input.Name,
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		UserID:      user.ID,
	}
	if err := db.DB.Create(&sub).Error; err != nil {
		internalError(c, err)
		return
	}

	utils.GetCache().Delete(topSubsCacheKey)
	sub.FillURLs(h.siteURL)
	c.JSON(http.StatusCreated, sub)
}

// Get returns a sub with its posts, newest first.
func (h *SubHandler) Get(c *gin.Context) {
	name := c.Param("name")

	var sub models.Sub
	if err := db.DB.Where("name = ?", name).First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "sub not found"})
			return
		}
		internalError(c, err)
		return
	}

	var posts []models.Post
	err := db.DB.Preload("User").Preload("Sub").Preload("Votes").
		Where("sub_id = ?", sub.ID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		internalError(c, err)
		return
	}

	if err := fillCommentCounts(posts); err != nil {
		internalError(c, err)
		return
	}
	uid := requesterID(c)
	for i := range posts {
		posts[i].Fill(uid)
	}

	sub.Posts = posts
	sub.FillURLs(h.siteURL)
	c.JSON(http.StatusOK, sub)
}

// TopSubs returns the five subs with the most posts. The result is
// cached briefly, the listing sits on every page of the frontend.
func (h *SubHandler) TopSubs(c *gin.Context) {
	if cached := utils.GetCache().Get(topSubsCacheKey); cached != nil {
		if subs, ok := cached.([]models.Sub); ok {
			c.JSON(http.StatusOK, subs)
			return
		}
	}

	var subs []models.Sub
	err := db.DB.Model(&models.Sub{}).
		Select("subs.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.sub_id = subs.id").
		Group("subs.id").
		Order("post_count DESC").
		Limit(5).
		Find(&subs).Error
	if err != nil {
		internalError(c, err)
		return
	}

	for i := range subs {
		subs[i].FillURLs(h.siteURL)
	}
	utils.GetCache().Set(topSubsCacheKey, subs, topSubsTTL)
	c.JSON(http.StatusOK, subs)
}

// Upload replaces a sub's image or banner. Owner only. The previous
// file is removed only after the new reference is committed.
func (h *SubHandler) Upload(c *gin.Context) {
	name := c.Param("name")

	var sub models.Sub
	if err := db.DB.Where("name = ?", name).First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "sub not found"})
			return
		}
		internalError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if sub.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't own this sub"})
		return
	}

	kind := c.PostForm("type")
	if kind != "image" && kind != "banner" {
		c.JSON(http.StatusBadRequest, fieldErrors{"type": "type must be image or banner"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, fieldErrors{"file": "file is required"})
		return
	}
	defer file.Close()

	stored, err := h.uploads.Save(file, header)
	if err != nil {
		if errors.Is(err, services.ErrNotImage) {
			c.JSON(http.StatusBadRequest, fieldErrors{"file": "file must be an image"})
			return
		}
		internalError(c, err)
		return
	}

	old := sub.ImageName
	column := "image_name"
	if kind == "banner" {
		old = sub.BannerName
		column = "banner_name"
	}

	if err := db.DB.Model(&sub).Update(column, stored).Error; err != nil {
		h.uploads.Remove(stored)
		internalError(c, err)
		return
	}

	// Row committed, the old file can go.
	h.uploads.Remove(old)
	utils.GetCache().Delete(topSubsCacheKey)

	if kind == "banner" {
		sub.BannerName = stored
	} else {
		sub.ImageName = stored
	}
	sub.FillURLs(h.siteURL)
	c.JSON(http.StatusOK, sub)
}
