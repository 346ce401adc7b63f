package service

import (
	"testing"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
)

func TestBookmarkService_ToggleAndList(t *testing.T) {
	gdb := newTestDB(t, "bookmark-toggle")
	posts := NewPostService(gdb)
	bookmarks := NewBookmarkService(gdb)

	writer := createProfile(t, gdb, "bm-writer", auth.RoleAuthor)
	reader := createProfile(t, gdb, "bm-reader", auth.RoleUser)

	first := seedPost(t, posts, writer, "Saved first")
	second := seedPost(t, posts, writer, "Saved second")

	for _, id := range []uint{first.ID, second.ID} {
		saved, err := bookmarks.Toggle(principalFor(reader), id)
		if err != nil {
			t.Fatalf("toggle %d: %v", id, err)
		}
		if !saved {
			t.Fatalf("post %d should be bookmarked", id)
		}
	}

	listed, err := bookmarks.ListPosts(principalFor(reader))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 bookmarked posts, got %d", len(listed))
	}

	saved, err := bookmarks.Toggle(principalFor(reader), first.ID)
	if err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if saved {
		t.Fatal("second toggle should remove the bookmark")
	}

	listed, err = bookmarks.ListPosts(principalFor(reader))
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != second.ID {
		t.Fatalf("expected only the second post to remain, got %+v", listed)
	}

	var rows int64
	gdb.Model(&db.Bookmark{}).Where("user_id = ?", reader.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected one bookmark row, got %d", rows)
	}
}
