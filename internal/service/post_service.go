package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPostFieldsNeeded = errors.New("post title and content are required")
	ErrStatusInvalid    = errors.New("post status is invalid")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title        string
	Content      string
	Excerpt      string
	CategoryID   *uint
	ThumbnailURL string
	Draft        bool
}

// PostFilter describes filters for listing published posts.
type PostFilter struct {
	CategoryID *uint
	Page       int
	PerPage    int
}

// PostView decorates a post with the requesting user's engagement state.
type PostView struct {
	db.Post
	Liked      bool
	Bookmarked bool
}

// PostListResult aggregates one pagination window.
type PostListResult struct {
	Posts      []PostView
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func defaultExcerpt(excerpt, content string) string {
	trimmed := strings.TrimSpace(excerpt)
	if trimmed != "" {
		return trimmed
	}
	runes := []rune(content)
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return string(runes)
}

// Create persists a new post. The slug derives from the title; on a
// collision one deterministic timestamp suffix is tried, after which a
// remaining conflict surfaces as a store error.
func (s *PostService) Create(p auth.Principal, input PostInput) (*db.Post, error) {
	if err := auth.CanMutate(p, auth.Resource{}, auth.ActionCreatePost); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrPostFieldsNeeded
	}

	slug := slugify(title)
	if slug == "" {
		return nil, ErrPostFieldsNeeded
	}

	// The unique index still covers soft-deleted rows, so the
	// collision check must look at them too.
	var taken int64
	if err := s.db.Unscoped().Model(&db.Post{}).Where("slug = ?", slug).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
	}

	status, publishedAt := ResolveStatus(p.Role, input.Draft, time.Now())

	post := db.Post{
		AuthorID:     p.ID,
		CategoryID:   input.CategoryID,
		Title:        title,
		Slug:         slug,
		Excerpt:      defaultExcerpt(input.Excerpt, input.Content),
		Content:      input.Content,
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		Status:       status,
		PublishedAt:  publishedAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Profile{}).Where("id = ?", p.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
			return err
		}
		if post.CategoryID != nil {
			if err := tx.Model(&db.Category{}).Where("id = ?", *post.CategoryID).
				UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Update applies edits to the caller's own post. The status is
// recomputed from the editor's current role and intent on every save.
func (s *PostService) Update(p auth.Principal, id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := auth.CanMutate(p, auth.Resource{OwnerID: existing.AuthorID}, auth.ActionEditPost); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrPostFieldsNeeded
	}

	status, publishedAt := ResolveStatus(p.Role, input.Draft, time.Now())
	if status == StatusPublished && existing.PublishedAt != nil {
		publishedAt = existing.PublishedAt
	}

	previousCategory := existing.CategoryID

	existing.Title = title
	existing.Content = input.Content
	existing.Excerpt = defaultExcerpt(input.Excerpt, input.Content)
	existing.CategoryID = input.CategoryID
	existing.ThumbnailURL = strings.TrimSpace(input.ThumbnailURL)
	existing.Status = status
	existing.PublishedAt = publishedAt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		return shiftCategoryCounts(tx, previousCategory, existing.CategoryID)
	})
	if err != nil {
		return nil, err
	}

	return &existing, nil
}

func shiftCategoryCounts(tx *gorm.DB, from, to *uint) error {
	if equalCategory(from, to) {
		return nil
	}
	if from != nil {
		if err := tx.Model(&db.Category{}).Where("id = ?", *from).
			UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
			return err
		}
	}
	if to != nil {
		if err := tx.Model(&db.Category{}).Where("id = ?", *to).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

func equalCategory(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Delete removes a post together with its comments, likes and
// bookmarks. Authors may delete their own posts; staff may delete any.
func (s *PostService) Delete(p auth.Principal, id uint) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if err := auth.CanMutate(p, auth.Resource{OwnerID: post.AuthorID}, auth.ActionDeletePost); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&db.Post{}, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Profile{}).Where("id = ?", post.AuthorID).
			UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
			return err
		}
		if post.CategoryID != nil {
			if err := tx.Model(&db.Category{}).Where("id = ?", *post.CategoryID).
				UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns one window of published posts, newest first, with the
// viewer's like and bookmark state attached when viewer is set.
func (s *PostService) List(filter PostFilter, viewer auth.Principal) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 15
	}

	query := s.db.Model(&db.Post{}).Where("status = ?", StatusPublished)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var posts []db.Post
	if err := query.
		Preload("Author").
		Preload("Category").
		Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	views, err := s.decorate(posts, viewer)
	if err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Posts = views
	return result, nil
}

// decorate attaches the viewer's liked/bookmarked flags in two bulk
// queries instead of one pair per post.
func (s *PostService) decorate(posts []db.Post, viewer auth.Principal) ([]PostView, error) {
	views := make([]PostView, len(posts))
	for i := range posts {
		views[i] = PostView{Post: posts[i]}
	}
	if !viewer.IsAuthenticated() || len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	var likedIDs []uint
	if err := s.db.Model(&db.Like{}).
		Where("user_id = ? AND post_id IN ?", viewer.ID, ids).
		Pluck("post_id", &likedIDs).Error; err != nil {
		return nil, err
	}
	var bookmarkedIDs []uint
	if err := s.db.Model(&db.Bookmark{}).
		Where("user_id = ? AND post_id IN ?", viewer.ID, ids).
		Pluck("post_id", &bookmarkedIDs).Error; err != nil {
		return nil, err
	}

	liked := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	bookmarked := make(map[uint]bool, len(bookmarkedIDs))
	for _, id := range bookmarkedIDs {
		bookmarked[id] = true
	}

	for i := range views {
		views[i].Liked = liked[views[i].ID]
		views[i].Bookmarked = bookmarked[views[i].ID]
	}
	return views, nil
}

// GetBySlug fetches a post for the detail page and bumps its view
// counter. The increment is at-least-once under concurrent requests.
// Unpublished posts are only visible to their author and to staff.
func (s *PostService) GetBySlug(slug string, viewer auth.Principal) (*PostView, error) {
	var post db.Post
	if err := s.db.Preload("Author").Preload("Category").
		Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.Status != StatusPublished && post.AuthorID != viewer.ID && !viewer.IsStaff() {
		return nil, ErrPostNotFound
	}

	if post.Status == StatusPublished {
		if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return nil, err
		}
		post.ViewCount++
		if err := s.db.Model(&db.Profile{}).Where("id = ?", post.AuthorID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return nil, err
		}
	}

	views, err := s.decorate([]db.Post{post}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Search matches published posts whose title or content contains the
// query as a substring, newest first, capped at 20 rows.
func (s *PostService) Search(query string) ([]db.Post, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []db.Post{}, nil
	}

	pattern := "%" + trimmed + "%"
	var posts []db.Post
	if err := s.db.
		Preload("Author").
		Preload("Category").
		Where("status = ?", StatusPublished).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("created_at desc").
		Limit(20).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Featured returns the newest published post flagged by an admin, or
// nil when none is flagged.
func (s *PostService) Featured() (*db.Post, error) {
	var post db.Post
	err := s.db.
		Preload("Author").
		Preload("Category").
		Where("status = ? AND featured = ?", StatusPublished, true).
		Order("created_at desc").
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Hot returns the most viewed published posts for the sidebar.
func (s *PostService) Hot(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 4
	}
	var posts []db.Post
	if err := s.db.
		Preload("Author").
		Preload("Category").
		Where("status = ?", StatusPublished).
		Order("view_count desc, like_count desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns an author's posts for the dashboard, optionally
// narrowed to one status.
func (s *PostService) ListByAuthor(authorID uint, status string) ([]db.Post, error) {
	query := s.db.Preload("Category").
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var posts []db.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListForModeration returns posts of every status for the admin table.
func (s *PostService) ListForModeration() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.
		Preload("Author").
		Preload("Category").
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// SetStatus is the moderation transition: staff may move any post
// between statuses directly, and this is the only pending→published
// path. PublishedAt tracks the published status.
func (s *PostService) SetStatus(p auth.Principal, id uint, status string) (*db.Post, error) {
	if err := auth.CanMutate(p, auth.Resource{}, auth.ActionChangePostStatus); err != nil {
		return nil, err
	}
	if !ValidStatus(status) {
		return nil, ErrStatusInvalid
	}

	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	post.Status = status
	if status == StatusPublished {
		if post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	} else {
		post.PublishedAt = nil
	}

	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// SetFeatured toggles the home page feature flag. Admin only.
func (s *PostService) SetFeatured(p auth.Principal, id uint, featured bool) (*db.Post, error) {
	if err := auth.CanMutate(p, auth.Resource{}, auth.ActionFeaturePost); err != nil {
		return nil, err
	}

	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&post).Update("featured", featured).Error; err != nil {
		return nil, err
	}
	post.Featured = featured
	return &post, nil
}
