package handlers

import (
	"errors"
	"net/http"

	"goddit/internal/db"
	"goddit/internal/middleware"
	"goddit/internal/models"
	"goddit/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteInput struct {
	Identifier        string `json:"identifier"`
	Slug              string `json:"slug"`
	CommentIdentifier string `json:"comment_identifier"`
	Value             int    `json:"value"`
}

// Vote reconciles the requester's vote on a post or one of its comments
// and returns the post with fresh aggregates.
func (h *VoteHandler) Vote(c *gin.Context) {
	var input voteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if input.Value != -1 && input.Value != 0 && input.Value != 1 {
		c.JSON(http.StatusBadRequest, fieldErrors{"value": "value must be -1, 0 or 1"})
		return
	}

	user := middleware.CurrentUser(c)

	var post models.Post
	err := db.DB.Where("identifier = ? AND slug = ?", input.Identifier, input.Slug).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		internalError(c, err)
		return
	}

	var comment *models.Comment
	if input.CommentIdentifier != "" {
		var cm models.Comment
		err := db.DB.Where("identifier = ? AND post_id = ?", input.CommentIdentifier, post.ID).First(&cm).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
				return
			}
			internalError(c, err)
			return
		}
		comment = &cm
	}

	if err := services.ReconcileVote(user.ID, &post, comment, input.Value); err != nil {
		switch {
		case errors.Is(err, services.ErrVoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "vote not found"})
		case errors.Is(err, services.ErrBadVoteValue):
			c.JSON(http.StatusBadRequest, fieldErrors{"value": "value must be -1, 0 or 1"})
		default:
			internalError(c, err)
		}
		return
	}

	// Re-read with vote relations so the response carries the
	// post-reconciliation aggregates.
	err = db.DB.Preload("User").Preload("Sub").Preload("Votes").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at DESC")
		}).
		Preload("Comments.User").Preload("Comments.Votes").
		First(&post, post.ID).Error
	if err != nil {
		internalError(c, err)
		return
	}

	post.Fill(user.ID)
	for i := range post.Comments {
		post.Comments[i].Fill(user.ID)
	}
	c.JSON(http.StatusOK, post)
}
