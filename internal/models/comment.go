package models

import (
	"time"
)

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Identifier string    `gorm:"uniqueIndex;size:8;not null" json:"identifier"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Post       Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Votes []Vote `gorm:"foreignKey:CommentID" json:"-"`

	// Filled on queries, not persisted
	VoteScore int `gorm:"-" json:"vote_score"`
	UserVote  int `gorm:"-" json:"user_vote"`
}

// Fill computes the derived vote fields. Requires Votes to be preloaded.
func (c *Comment) Fill(userID uint) {
	c.VoteScore = 0
	c.UserVote = 0
	for _, v := range c.Votes {
		c.VoteScore += v.Value
		if userID != 0 && v.UserID == userID {
			c.UserVote = v.Value
		}
	}
}
