package handler

import (
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db            *gorm.DB
	posts         *service.PostService
	comments      *service.CommentService
	likes         *service.LikeService
	bookmarks     *service.BookmarkService
	profiles      *service.ProfileService
	categories    *service.CategoryService
	notifications *service.NotificationService
	admin         *service.AdminService
	uploadDir     string
	uploadURL     string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:            gdb,
		posts:         service.NewPostService(gdb),
		comments:      service.NewCommentService(gdb),
		likes:         service.NewLikeService(gdb),
		bookmarks:     service.NewBookmarkService(gdb),
		profiles:      service.NewProfileService(gdb),
		categories:    service.NewCategoryService(gdb),
		notifications: service.NewNotificationService(gdb),
		admin:         service.NewAdminService(gdb),
		uploadDir:     uploadDir,
		uploadURL:     uploadURL,
	}
}
