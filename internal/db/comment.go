package db

import "gorm.io/gorm"

// Comment belongs to a post. A nil ParentID marks a top-level comment;
// otherwise ParentID references another comment on the same post.
type Comment struct {
	gorm.Model
	PostID   uint `gorm:"index;not null"`
	AuthorID uint `gorm:"index;not null"`
	Author   Profile
	ParentID *uint  `gorm:"index"`
	Content  string `gorm:"not null"`
	Edited   bool
}
