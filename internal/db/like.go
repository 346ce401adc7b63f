package db

import "time"

// Like marks that a user liked a post. The composite unique index is
// the race backstop for concurrent toggle requests.
type Like struct {
	ID        uint `gorm:"primarykey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time
}

// Bookmark marks that a user saved a post, at most once per user.
type Bookmark struct {
	ID        uint `gorm:"primarykey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_bookmarks_post_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_bookmarks_post_user"`
	CreatedAt time.Time
}
