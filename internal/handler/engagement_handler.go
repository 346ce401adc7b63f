package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleLike flips the caller's like on a post and returns the
// authoritative state for client reconciliation.
func (a *API) ToggleLike(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	liked, err := a.likes.Toggle(principalFrom(c), postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// ToggleBookmark flips the caller's bookmark on a post.
func (a *API) ToggleBookmark(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bookmarked, err := a.bookmarks.Toggle(principalFrom(c), postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// ListBookmarks returns the caller's saved posts, newest save first.
func (a *API) ListBookmarks(c *gin.Context) {
	posts, err := a.bookmarks.ListPosts(principalFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": postsPayload(posts)})
}
