package service

import (
	"errors"
	"fmt"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// LikeService wraps the like toggle and its counter bookkeeping.
type LikeService struct {
	db *gorm.DB
}

// NewLikeService creates a LikeService instance.
func NewLikeService(gdb *gorm.DB) *LikeService {
	return &LikeService{db: gdb}
}

// Toggle flips the principal's like on a post and returns the
// resulting state. The delete-then-insert runs store-side inside one
// transaction; the unique (post, user) index is the backstop should
// two identical toggles race past the delete.
func (s *LikeService) Toggle(p auth.Principal, postID uint) (liked bool, err error) {
	if !p.IsAuthenticated() {
		return false, auth.ErrUnauthorized
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, p.ID).Delete(&db.Like{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			liked = false
			return adjustLikeCounts(tx, &post, -1)
		}

		if err := tx.Create(&db.Like{PostID: postID, UserID: p.ID}).Error; err != nil {
			return err
		}
		liked = true
		if err := adjustLikeCounts(tx, &post, +1); err != nil {
			return err
		}

		if post.AuthorID != p.ID {
			return createNotification(tx, post.AuthorID, "like",
				"Your post was liked",
				fmt.Sprintf("%s liked %q", p.Username, post.Title),
				"/post/"+post.Slug)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func adjustLikeCounts(tx *gorm.DB, post *db.Post, delta int) error {
	if err := tx.Model(&db.Post{}).Where("id = ?", post.ID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error; err != nil {
		return err
	}
	return tx.Model(&db.Profile{}).Where("id = ?", post.AuthorID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}
