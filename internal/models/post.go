package models

import (
	"fmt"
	"time"
)

type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Identifier string    `gorm:"size:8;not null;uniqueIndex:idx_post_key" json:"identifier"`
	Slug       string    `gorm:"size:64;not null;uniqueIndex:idx_post_key" json:"slug"`
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	SubID      uint      `gorm:"not null;index" json:"sub_id"`
	Sub        Sub       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sub"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Votes    []Vote    `gorm:"foreignKey:PostID" json:"-"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`

	// Filled on queries, not persisted
	URL          string `gorm:"-" json:"url"`
	VoteScore    int    `gorm:"-" json:"vote_score"`
	CommentCount int    `gorm:"-" json:"comment_count"`
	UserVote     int    `gorm:"-" json:"user_vote"`
}

// Fill computes the derived response fields from loaded relations.
// userID is the requester, 0 for anonymous (UserVote stays 0).
// Requires Sub and Votes to be preloaded.
func (p *Post) Fill(userID uint) {
	p.URL = fmt.Sprintf("/r/%s/%s/%s", p.Sub.Name, p.Identifier, p.Slug)
	p.VoteScore = 0
	p.UserVote = 0
	for _, v := range p.Votes {
		p.VoteScore += v.Value
		if userID != 0 && v.UserID == userID {
			p.UserVote = v.Value
		}
	}
	if len(p.Comments) > 0 {
		p.CommentCount = len(p.Comments)
	}
}
