package models

import (
	"time"
)

// defaultSubImage is served when a sub has no uploaded image yet.
const defaultSubImage = "https://www.gravatar.com/avatar?d=mp&f=y"

type Sub struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	ImageName   string    `json:"-"` // stored filename under the upload dir
	BannerName  string    `json:"-"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:SubID" json:"posts,omitempty"`

	// Filled on queries, not persisted
	PostCount int    `gorm:"->;-:migration" json:"post_count,omitempty"`
	ImageURL  string `gorm:"-" json:"image_url"`
	BannerURL string `gorm:"-" json:"banner_url,omitempty"`
}

// FillURLs derives the public image URLs from the stored filenames.
// Subs without an uploaded image get a neutral placeholder.
func (s *Sub) FillURLs(baseURL string) {
	if s.ImageName != "" {
		s.ImageURL = baseURL + "/images/" + s.ImageName
	} else {
		s.ImageURL = defaultSubImage
	}
	if s.BannerName != "" {
		s.BannerURL = baseURL + "/images/" + s.BannerName
	}
}
