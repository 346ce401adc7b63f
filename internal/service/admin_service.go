package service

import (
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// AdminService provides the moderation dashboard numbers and the
// counter reconciliation pass.
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates an AdminService instance.
func NewAdminService(gdb *gorm.DB) *AdminService {
	return &AdminService{db: gdb}
}

// SystemStats are the headline counts on the admin page.
type SystemStats struct {
	TotalUsers      int64
	TotalPosts      int64
	PublishedPosts  int64
	TotalComments   int64
	TotalCategories int64
}

// Stats counts the headline rows.
func (s *AdminService) Stats() (*SystemStats, error) {
	stats := &SystemStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&db.Profile{}, &stats.TotalUsers},
		{&db.Post{}, &stats.TotalPosts},
		{&db.Comment{}, &stats.TotalComments},
		{&db.Category{}, &stats.TotalCategories},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&db.Post{}).Where("status = ?", StatusPublished).
		Count(&stats.PublishedPosts).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ReconcileCounters rebuilds every denormalized counter from the
// authoritative rows. The incremental updates are treated as caches
// that drift under concurrent writers; this pass is the source of
// truth.
func (s *AdminService) ReconcileCounters() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("1 = 1").Updates(map[string]interface{}{
			"like_count": gorm.Expr(
				"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)"),
			"comment_count": gorm.Expr(
				"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)"),
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&db.Category{}).Where("1 = 1").UpdateColumn("post_count", gorm.Expr(
			"(SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id AND posts.deleted_at IS NULL)",
		)).Error; err != nil {
			return err
		}

		return tx.Model(&db.Profile{}).Where("1 = 1").Updates(map[string]interface{}{
			"post_count": gorm.Expr(
				"(SELECT COUNT(*) FROM posts WHERE posts.author_id = profiles.id AND posts.deleted_at IS NULL)"),
			"comment_count": gorm.Expr(
				"(SELECT COUNT(*) FROM comments WHERE comments.author_id = profiles.id AND comments.deleted_at IS NULL)"),
			"like_count": gorm.Expr(
				"(SELECT COUNT(*) FROM likes JOIN posts ON posts.id = likes.post_id WHERE posts.author_id = profiles.id AND posts.deleted_at IS NULL)"),
			"view_count": gorm.Expr(
				"(SELECT COALESCE(SUM(view_count), 0) FROM posts WHERE posts.author_id = profiles.id AND posts.deleted_at IS NULL)"),
		}).Error
	})
}
