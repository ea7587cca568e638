package handlers

import (
	"net/http"
	"sort"
	"time"

	"goddit/internal/db"
	"goddit/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// feedItem is one entry of a user's combined feed. For Type "Post" only
// Post is set; for Type "Comment" both are set, Post being the post the
// comment belongs to.
type feedItem struct {
	Type    string          `json:"type"`
	Post    *models.Post    `json:"post,omitempty"`
	Comment *models.Comment `json:"comment,omitempty"`

	createdAt time.Time
}

// GetUser returns a user's public profile plus their posts and comments
// merged into one newest-first feed.
func (h *UserHandler) GetUser(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		internalError(c, err)
		return
	}

	uid := requesterID(c)

	var posts []models.Post
	err := db.DB.Preload("User").Preload("Sub").Preload("Votes").
		Where("user_id = ?", user.ID).
		Find(&posts).Error
	if err != nil {
		internalError(c, err)
		return
	}
	if err := fillCommentCounts(posts); err != nil {
		internalError(c, err)
		return
	}

	var comments []models.Comment
	err = db.DB.Preload("User").Preload("Post").Preload("Post.Sub").Preload("Votes").
		Where("user_id = ?", user.ID).
		Find(&comments).Error
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]feedItem, 0, len(posts)+len(comments))
	for i := range posts {
		posts[i].Fill(uid)
		items = append(items, feedItem{
			Type:      "Post",
			Post:      &posts[i],
			createdAt: posts[i].CreatedAt,
		})
	}
	for i := range comments {
		comments[i].Fill(uid)
		comments[i].Post.Fill(uid)
		items = append(items, feedItem{
			Type:      "Comment",
			Post:      &comments[i].Post,
			Comment:   &comments[i],
			createdAt: comments[i].CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].createdAt.After(items[j].createdAt)
	})

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
		"submissions": items,
	})
}
