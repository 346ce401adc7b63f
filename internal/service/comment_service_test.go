package service

import (
	"errors"
	"testing"
	"time"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
)

func seedPost(t *testing.T, svc *PostService, author *db.Profile, title string) *db.Post {
	t.Helper()
	post, err := svc.Create(principalFor(author), PostInput{Title: title, Content: "body"})
	if err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	return post
}

func TestCommentService_FlattenNestedThread(t *testing.T) {
	gdb := newTestDB(t, "comment-flatten")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "thread-writer", auth.RoleAuthor)
	alice := createProfile(t, gdb, "alice", auth.RoleUser)
	bob := createProfile(t, gdb, "bob", auth.RoleUser)
	carol := createProfile(t, gdb, "carol", auth.RoleUser)

	post := seedPost(t, posts, writer, "Threaded")

	a, err := comments.Create(principalFor(alice), post.ID, nil, "top level")
	if err != nil {
		t.Fatalf("comment A: %v", err)
	}
	b, err := comments.Create(principalFor(bob), post.ID, &a.ID, "reply to A")
	if err != nil {
		t.Fatalf("comment B: %v", err)
	}
	c, err := comments.Create(principalFor(carol), post.ID, &b.ID, "reply to B")
	if err != nil {
		t.Fatalf("comment C: %v", err)
	}

	thread, err := comments.Thread(post.ID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	flat := Flatten(thread)

	if len(flat) != 3 {
		t.Fatalf("expected 3 flattened comments, got %d", len(flat))
	}
	if flat[0].ID != a.ID || flat[1].ID != b.ID || flat[2].ID != c.ID {
		t.Fatalf("expected order [A B C], got [%d %d %d]", flat[0].ID, flat[1].ID, flat[2].ID)
	}

	if flat[0].IsReply {
		t.Fatal("A must not be marked as a reply")
	}
	if !flat[1].IsReply || !flat[2].IsReply {
		t.Fatal("B and C must be marked as replies")
	}
	if flat[1].ReplyingTo == nil || flat[1].ReplyingTo.Username != "alice" {
		t.Fatalf("B should reply to alice, got %+v", flat[1].ReplyingTo)
	}
	if flat[2].ReplyingTo == nil || flat[2].ReplyingTo.Username != "bob" {
		t.Fatalf("C should reply to bob, got %+v", flat[2].ReplyingTo)
	}
}

func TestCommentService_ThreadOrdering(t *testing.T) {
	gdb := newTestDB(t, "comment-ordering")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "order-writer", auth.RoleAuthor)
	user := createProfile(t, gdb, "order-user", auth.RoleUser)

	post := seedPost(t, posts, writer, "Ordered")

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	mkComment := func(parentID *uint, content string, offset time.Duration) *db.Comment {
		comment := db.Comment{PostID: post.ID, AuthorID: user.ID, ParentID: parentID, Content: content}
		comment.CreatedAt = base.Add(offset)
		if err := gdb.Create(&comment).Error; err != nil {
			t.Fatalf("seed comment %q: %v", content, err)
		}
		return &comment
	}

	older := mkComment(nil, "older top-level", 0)
	newer := mkComment(nil, "newer top-level", time.Hour)
	mkComment(&older.ID, "first reply", 2*time.Hour)
	mkComment(&older.ID, "second reply", 3*time.Hour)

	thread, err := comments.Thread(post.ID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}

	if len(thread) != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", len(thread))
	}
	if thread[0].ID != newer.ID {
		t.Fatal("top-level comments must be newest first")
	}

	replies := thread[1].Replies
	if len(replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(replies))
	}
	if replies[0].Content != "first reply" || replies[1].Content != "second reply" {
		t.Fatal("replies must be oldest first")
	}
}

func TestCommentService_ParentMustBeOnSamePost(t *testing.T) {
	gdb := newTestDB(t, "comment-parent-post")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "parent-writer", auth.RoleAuthor)
	user := createProfile(t, gdb, "parent-user", auth.RoleUser)

	first := seedPost(t, posts, writer, "First post")
	second := seedPost(t, posts, writer, "Second post")

	parent, err := comments.Create(principalFor(user), first.ID, nil, "on the first post")
	if err != nil {
		t.Fatalf("parent: %v", err)
	}

	_, err = comments.Create(principalFor(user), second.ID, &parent.ID, "cross-post reply")
	if !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}
}

func TestCommentService_DeleteCascadesToDescendants(t *testing.T) {
	gdb := newTestDB(t, "comment-cascade")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "cascade-author", auth.RoleAuthor)
	user := createProfile(t, gdb, "cascade-user", auth.RoleUser)

	post := seedPost(t, posts, writer, "Cascade")

	a, err := comments.Create(principalFor(user), post.ID, nil, "A")
	if err != nil {
		t.Fatalf("A: %v", err)
	}
	b, err := comments.Create(principalFor(user), post.ID, &a.ID, "B")
	if err != nil {
		t.Fatalf("B: %v", err)
	}
	if _, err := comments.Create(principalFor(user), post.ID, &b.ID, "C"); err != nil {
		t.Fatalf("C: %v", err)
	}
	if _, err := comments.Create(principalFor(user), post.ID, nil, "survivor"); err != nil {
		t.Fatalf("survivor: %v", err)
	}

	// Deleting B takes C with it; A and the survivor stay.
	if err := comments.Delete(principalFor(user), b.ID); err != nil {
		t.Fatalf("delete B: %v", err)
	}

	var remaining []db.Comment
	if err := gdb.Where("post_id = ?", post.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("load remaining: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining comments, got %d", len(remaining))
	}
	for _, comment := range remaining {
		if comment.ParentID != nil {
			t.Fatalf("unexpected surviving reply %q", comment.Content)
		}
	}

	var reloaded db.Post
	gdb.First(&reloaded, post.ID)
	if reloaded.CommentCount != 2 {
		t.Fatalf("expected comment_count 2 after cascade, got %d", reloaded.CommentCount)
	}

	// The cascade also gives back the author counters Create took.
	var commenter db.Profile
	gdb.First(&commenter, user.ID)
	if commenter.CommentCount != 2 {
		t.Fatalf("expected author comment_count 2 after cascade, got %d", commenter.CommentCount)
	}
}

func TestCommentService_ThreadUnknownPost(t *testing.T) {
	gdb := newTestDB(t, "comment-unknown-post")
	comments := NewCommentService(gdb)

	if _, err := comments.Thread(9999); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestCommentService_DeletePermissions(t *testing.T) {
	gdb := newTestDB(t, "comment-permissions")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "perm-writer", auth.RoleAuthor)
	owner := createProfile(t, gdb, "perm-owner", auth.RoleUser)
	stranger := createProfile(t, gdb, "perm-stranger", auth.RoleUser)
	admin := createProfile(t, gdb, "perm-admin", auth.RoleAdmin)

	post := seedPost(t, posts, writer, "Guarded")

	first, err := comments.Create(principalFor(owner), post.ID, nil, "mine")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := comments.Create(principalFor(owner), post.ID, nil, "also mine")
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if err := comments.Delete(principalFor(stranger), first.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if err := comments.Delete(principalFor(owner), first.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := comments.Delete(principalFor(admin), second.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestCommentService_NotificationFanOut(t *testing.T) {
	gdb := newTestDB(t, "comment-notify")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "notify-writer", auth.RoleAuthor)
	commenter := createProfile(t, gdb, "notify-commenter", auth.RoleUser)
	replier := createProfile(t, gdb, "notify-replier", auth.RoleUser)

	post := seedPost(t, posts, writer, "Busy thread")

	top, err := comments.Create(principalFor(commenter), post.ID, nil, "hello")
	if err != nil {
		t.Fatalf("top: %v", err)
	}

	var toWriter int64
	gdb.Model(&db.Notification{}).Where("user_id = ? AND type = ?", writer.ID, "comment").Count(&toWriter)
	if toWriter != 1 {
		t.Fatalf("expected 1 comment notification for the post author, got %d", toWriter)
	}

	if _, err := comments.Create(principalFor(replier), post.ID, &top.ID, "hi back"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	var toCommenter int64
	gdb.Model(&db.Notification{}).Where("user_id = ? AND type = ?", commenter.ID, "reply").Count(&toCommenter)
	if toCommenter != 1 {
		t.Fatalf("expected 1 reply notification for the parent author, got %d", toCommenter)
	}
	gdb.Model(&db.Notification{}).Where("user_id = ?", writer.ID).Count(&toWriter)
	if toWriter != 2 {
		t.Fatalf("expected the post author to also hear about the reply, got %d", toWriter)
	}

	// Commenting on one's own post stays silent.
	if _, err := comments.Create(principalFor(writer), post.ID, nil, "thanks all"); err != nil {
		t.Fatalf("self comment: %v", err)
	}
	var selfNoise int64
	gdb.Model(&db.Notification{}).Where("user_id = ?", writer.ID).Count(&selfNoise)
	if selfNoise != 2 {
		t.Fatalf("self comment must not notify, got %d", selfNoise)
	}
}

func TestCommentService_EditSetsFlagAndIsOwnerOnly(t *testing.T) {
	gdb := newTestDB(t, "comment-edit")
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)

	writer := createProfile(t, gdb, "edit-writer", auth.RoleAuthor)
	owner := createProfile(t, gdb, "edit-owner", auth.RoleUser)
	admin := createProfile(t, gdb, "edit-admin", auth.RoleAdmin)

	post := seedPost(t, posts, writer, "Editable")

	comment, err := comments.Create(principalFor(owner), post.ID, nil, "tpyo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edited, err := comments.Edit(principalFor(owner), comment.ID, "typo")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !edited.Edited || edited.Content != "typo" {
		t.Fatalf("expected edited flag and new content, got %+v", edited)
	}

	if _, err := comments.Edit(principalFor(admin), comment.ID, "rewritten"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner edit, got %v", err)
	}
}
