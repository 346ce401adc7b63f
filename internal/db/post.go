package db

import (
	"time"

	"gorm.io/gorm"
)

// Post is a community article. PublishedAt is non-nil exactly when
// Status is published. ViewCount, LikeCount and CommentCount are
// denormalized caches.
type Post struct {
	gorm.Model
	AuthorID     uint `gorm:"index;not null"`
	Author       Profile
	CategoryID   *uint `gorm:"index"`
	Category     *Category
	Title        string `gorm:"not null"`
	Slug         string `gorm:"uniqueIndex;not null"`
	Excerpt      string
	Content      string
	ThumbnailURL string
	Status       string `gorm:"index;not null;default:draft"`
	Featured     bool
	ViewCount    int
	LikeCount    int
	CommentCount int
	PublishedAt  *time.Time
}
