package service

import (
	"sort"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// BookmarkService wraps the bookmark toggle and the saved-posts list.
type BookmarkService struct {
	db *gorm.DB
}

// NewBookmarkService creates a BookmarkService instance.
func NewBookmarkService(gdb *gorm.DB) *BookmarkService {
	return &BookmarkService{db: gdb}
}

// Toggle flips the principal's bookmark on a post and returns the
// resulting state. Same race posture as likes: delete-then-insert in a
// transaction with the unique (post, user) index as backstop.
func (s *BookmarkService) Toggle(p auth.Principal, postID uint) (bookmarked bool, err error) {
	if !p.IsAuthenticated() {
		return false, auth.ErrUnauthorized
	}

	var exists int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, ErrPostNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, p.ID).Delete(&db.Bookmark{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			bookmarked = false
			return nil
		}
		bookmarked = true
		return tx.Create(&db.Bookmark{PostID: postID, UserID: p.ID}).Error
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// ListPosts returns the principal's bookmarked posts, most recently
// saved first.
func (s *BookmarkService) ListPosts(p auth.Principal) ([]db.Post, error) {
	if !p.IsAuthenticated() {
		return nil, auth.ErrUnauthorized
	}

	var bookmarks []db.Bookmark
	if err := s.db.Where("user_id = ?", p.ID).
		Order("created_at desc").
		Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	if len(bookmarks) == 0 {
		return []db.Post{}, nil
	}

	ids := make([]uint, len(bookmarks))
	order := make(map[uint]int, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.PostID
		order[b.PostID] = i
	}

	var posts []db.Post
	if err := s.db.Preload("Author").Preload("Category").
		Where("id IN ?", ids).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		return order[posts[i].ID] < order[posts[j].ID]
	})
	return posts, nil
}
