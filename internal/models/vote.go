package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrVoteTarget = errors.New("vote must target exactly one of post or comment")
	ErrVoteValue  = errors.New("vote value must be 1 or -1")
)

// Vote is a single user's vote on a post or a comment. A value of 0 is
// never stored: removing a vote deletes the row. The unique indexes make
// a duplicate (user, target) insert fail instead of racing silently.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post_vote;uniqueIndex:idx_user_comment_vote" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:idx_user_post_vote" json:"post_id,omitempty"`
	CommentID *uint     `gorm:"uniqueIndex:idx_user_comment_vote" json:"comment_id,omitempty"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}

// BeforeSave rejects votes that target both or neither of post/comment,
// and values outside {-1, 1}.
func (v *Vote) BeforeSave(_ *gorm.DB) error {
	if (v.PostID == nil) == (v.CommentID == nil) {
		return ErrVoteTarget
	}
	if v.Value != 1 && v.Value != -1 {
		return ErrVoteValue
	}
	return nil
}
