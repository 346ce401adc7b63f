package service

import (
	"errors"
	"testing"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
)

func TestLikeService_ToggleRoundTrip(t *testing.T) {
	gdb := newTestDB(t, "like-toggle")
	posts := NewPostService(gdb)
	likes := NewLikeService(gdb)

	writer := createProfile(t, gdb, "like-writer", auth.RoleAuthor)
	fan := createProfile(t, gdb, "like-fan", auth.RoleUser)

	post := seedPost(t, posts, writer, "Likeable")

	liked, err := likes.Toggle(principalFor(fan), post.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Fatal("first toggle should like")
	}

	var rows int64
	gdb.Model(&db.Like{}).Where("post_id = ? AND user_id = ?", post.ID, fan.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected exactly one like row, got %d", rows)
	}

	liked, err = likes.Toggle(principalFor(fan), post.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Fatal("second toggle should unlike")
	}
	gdb.Model(&db.Like{}).Where("post_id = ? AND user_id = ?", post.ID, fan.ID).Count(&rows)
	if rows != 0 {
		t.Fatalf("expected the like row gone, got %d", rows)
	}

	liked, err = likes.Toggle(principalFor(fan), post.ID)
	if err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if !liked {
		t.Fatal("third toggle should like again")
	}

	var reloaded db.Post
	gdb.First(&reloaded, post.ID)
	if reloaded.LikeCount != 1 {
		t.Fatalf("expected like_count 1 after like-unlike-like, got %d", reloaded.LikeCount)
	}
	var author db.Profile
	gdb.First(&author, writer.ID)
	if author.LikeCount != 1 {
		t.Fatalf("expected author like_count 1, got %d", author.LikeCount)
	}
}

func TestLikeService_NotifiesAuthorOnce(t *testing.T) {
	gdb := newTestDB(t, "like-notify")
	posts := NewPostService(gdb)
	likes := NewLikeService(gdb)

	writer := createProfile(t, gdb, "notif-writer", auth.RoleAuthor)
	fan := createProfile(t, gdb, "notif-fan", auth.RoleUser)

	post := seedPost(t, posts, writer, "Popular")

	if _, err := likes.Toggle(principalFor(fan), post.ID); err != nil {
		t.Fatalf("fan like: %v", err)
	}
	// Liking one's own post stays silent.
	if _, err := likes.Toggle(principalFor(writer), post.ID); err != nil {
		t.Fatalf("self like: %v", err)
	}

	var count int64
	gdb.Model(&db.Notification{}).Where("user_id = ? AND type = ?", writer.ID, "like").Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 like notification, got %d", count)
	}
}

func TestLikeService_UnknownPostAndAnonymous(t *testing.T) {
	gdb := newTestDB(t, "like-errors")
	likes := NewLikeService(gdb)

	fan := createProfile(t, gdb, "err-fan", auth.RoleUser)

	if _, err := likes.Toggle(principalFor(fan), 9999); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := likes.Toggle(auth.Principal{}, 1); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
