package handlers

import (
	"net/http"
	"strings"

	"goddit/internal/db"
	"goddit/internal/middleware"
	"goddit/internal/models"
	"goddit/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 8
	maxPageSize     = 50

	identifierLen = 7
	commentIDLen  = 8
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// fillCommentCounts batch-fills CommentCount for a page of posts.
func fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return err
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}

// requesterID returns the authenticated user's ID, 0 for anonymous.
func requesterID(c *gin.Context) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// List returns a newest-first page of posts. ?page= starts at 0,
// ?count= defaults to 8.
func (h *PostHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.Query("page"))
	if page < 0 {
		page = 0
	}
	count := utils.StringToInt(c.Query("count"))
	if count <= 0 {
		count = defaultPageSize
	}
	if count > maxPageSize {
		count = maxPageSize
	}

	var posts []models.Post
	err := db.DB.Preload("User").Preload("Sub").Preload("Votes").
		Order("created_at DESC").
		Limit(count).
		Offset(page * count).
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

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	identifier := c.Param("identifier")
	slug := c.Param("slug")

	var post models.Post
	err := db.DB.Preload("User").Preload("Sub").Preload("Votes").
		Where("identifier = ? AND slug = ?", identifier, slug).
		First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		internalError(c, err)
		return
	}

	var commentCount int64
	if err := db.DB.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		internalError(c, err)
		return
	}

	post.Fill(requesterID(c))
	post.CommentCount = int(commentCount)
	c.JSON(http.StatusOK, post)
}

type createPostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sub   string `json:"sub"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var input createPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, fieldErrors{"title": "title must not be empty"})
		return
	}

	var sub models.Sub
	if err := db.DB.Where("name = ?", input.Sub).First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, fieldErrors{"sub": "sub not found"})
			return
		}
		internalError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	post := models.Post{
		Identifier: utils.NewIdentifier(identifierLen),
		Slug:       utils.Slugify(title),
		Title:      title,
		Body:       utils.Sanitize(input.Body),
		UserID:     user.ID,
		SubID:      sub.ID,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		internalError(c, err)
		return
	}

	post.User = *user
	post.Sub = sub
	post.Fill(user.ID)
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetComments(c *gin.Context) {
	identifier := c.Param("identifier")
	slug := c.Param("slug")

	var post models.Post
	if err := db.DB.Where("identifier = ? AND slug = ?", identifier, slug).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		internalError(c, err)
		return
	}

	var comments []models.Comment
	err := db.DB.Preload("User").Preload("Votes").
		Where("post_id = ?", post.ID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		internalError(c, err)
		return
	}

	uid := requesterID(c)
	for i := range comments {
		comments[i].Fill(uid)
	}
	c.JSON(http.StatusOK, comments)
}

type createCommentInput struct {
	Body string `json:"body"`
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	identifier := c.Param("identifier")
	slug := c.Param("slug")

	var input createCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(input.Body) == "" {
		c.JSON(http.StatusBadRequest, fieldErrors{"body": "body must not be empty"})
		return
	}

	var post models.Post
	if err := db.DB.Where("identifier = ? AND slug = ?", identifier, slug).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		internalError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	comment := models.Comment{
		Identifier: utils.NewIdentifier(commentIDLen),
		PostID:     post.ID,
		UserID:     user.ID,
		Body:       utils.Sanitize(input.Body),
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		internalError(c, err)
		return
	}

	comment.User = *user
	c.JSON(http.StatusCreated, comment)
}
