package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment content is required")
	ErrParentMismatch  = errors.New("parent comment belongs to a different post")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// CommentNode is one comment with its direct replies. The stored
// structure stays a tree; flattening happens on every read.
type CommentNode struct {
	db.Comment
	Replies []*CommentNode
}

// FlatComment is one entry of the depth-first linearization used for
// display. ReplyingTo names the immediate parent's author.
type FlatComment struct {
	db.Comment
	IsReply    bool
	ReplyingTo *db.Profile
}

// Thread loads the whole discussion for a post in a single query and
// assembles the tree in memory, children grouped by parent id. Top
// level comments come newest first, each comment's replies oldest
// first. Unknown posts report ErrPostNotFound.
func (s *CommentService) Thread(postID uint) ([]*CommentNode, error) {
	var exists int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrPostNotFound
	}

	var comments []db.Comment
	if err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	arena := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		arena[comments[i].ID] = &CommentNode{Comment: comments[i]}
	}

	var roots []*CommentNode
	for i := range comments {
		node := arena[comments[i].ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := arena[*node.ParentID]
		if !ok {
			// A dangling parent would violate the cascade invariant;
			// surface the row as top-level rather than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	// Rows arrive oldest first, so replies are already ordered; only
	// the top level flips to newest first.
	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].ID > roots[j].ID
		}
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})

	return roots, nil
}

// Flatten linearizes a thread depth-first for display. Every nested
// comment is marked as a reply and annotated with its parent's author.
func Flatten(roots []*CommentNode) []FlatComment {
	var flat []FlatComment

	var walk func(node *CommentNode, parent *CommentNode)
	walk = func(node *CommentNode, parent *CommentNode) {
		entry := FlatComment{Comment: node.Comment}
		if parent != nil {
			entry.IsReply = true
			author := parent.Author
			entry.ReplyingTo = &author
		}
		flat = append(flat, entry)
		for _, reply := range node.Replies {
			walk(reply, node)
		}
	}

	for _, root := range roots {
		walk(root, nil)
	}
	return flat
}

// Create stores a comment or reply and fans out notifications to the
// post author and, for replies, the parent comment's author. Replies
// attach to the immediate comment being replied to; the parent must
// belong to the same post.
func (s *CommentService) Create(p auth.Principal, postID uint, parentID *uint, content string) (*db.Comment, error) {
	if err := auth.CanMutate(p, auth.Resource{}, auth.ActionCreateComment); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var parent *db.Comment
	if parentID != nil {
		parent = &db.Comment{}
		if err := s.db.First(parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}
	}

	comment := db.Comment{
		PostID:   postID,
		AuthorID: p.ID,
		ParentID: parentID,
		Content:  trimmed,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Profile{}).Where("id = ?", p.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return err
		}
		return s.notifyThread(tx, p, &post, parent)
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// notifyThread writes inbox entries for a new comment, skipping the
// commenter and deduplicating when the parent author wrote the post.
func (s *CommentService) notifyThread(tx *gorm.DB, p auth.Principal, post *db.Post, parent *db.Comment) error {
	link := "/post/" + post.Slug

	if parent != nil && parent.AuthorID != p.ID {
		if err := createNotification(tx, parent.AuthorID, "reply",
			"New reply to your comment",
			fmt.Sprintf("%s replied to your comment on %q", p.Username, post.Title),
			link); err != nil {
			return err
		}
		if parent.AuthorID == post.AuthorID {
			return nil
		}
	}

	if post.AuthorID != p.ID {
		return createNotification(tx, post.AuthorID, "comment",
			"New comment on your post",
			fmt.Sprintf("%s commented on %q", p.Username, post.Title),
			link)
	}
	return nil
}

// Edit replaces the comment body and sets the edited flag. Only the
// comment's author may edit; staff moderate through deletion.
func (s *CommentService) Edit(p auth.Principal, id uint, content string) (*db.Comment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}

	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if err := auth.CanMutate(p, auth.Resource{OwnerID: comment.AuthorID}, auth.ActionEditComment); err != nil {
		return nil, err
	}

	comment.Content = trimmed
	comment.Edited = true
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment and every descendant reply in one
// transaction, so no dangling parent references survive. Allowed for
// the comment's author and for staff.
func (s *CommentService) Delete(p auth.Principal, id uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if err := auth.CanMutate(p, auth.Resource{OwnerID: comment.AuthorID}, auth.ActionDeleteComment); err != nil {
		return err
	}

	var siblings []db.Comment
	if err := s.db.Select("id", "parent_id", "author_id").
		Where("post_id = ?", comment.PostID).
		Find(&siblings).Error; err != nil {
		return err
	}

	children := make(map[uint][]uint, len(siblings))
	authorOf := make(map[uint]uint, len(siblings))
	for _, c := range siblings {
		authorOf[c.ID] = c.AuthorID
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	doomed := []uint{id}
	for cursor := 0; cursor < len(doomed); cursor++ {
		doomed = append(doomed, children[doomed[cursor]]...)
	}

	perAuthor := make(map[uint]int, len(doomed))
	for _, doomedID := range doomed {
		perAuthor[authorOf[doomedID]]++
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", doomed).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&db.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", len(doomed))).Error; err != nil {
			return err
		}
		for authorID, count := range perAuthor {
			if err := tx.Model(&db.Profile{}).Where("id = ?", authorID).
				UpdateColumn("comment_count", gorm.Expr("comment_count - ?", count)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
