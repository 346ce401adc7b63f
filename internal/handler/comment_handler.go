package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type commentRequest struct {
	PostID   uint   `json:"post_id"`
	ParentID *uint  `json:"parent_id"`
	Content  string `json:"content"`
}

// GetComments returns a post's discussion as the flattened display
// list.
func (a *API) GetComments(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	thread, err := a.comments.Thread(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	flat := service.Flatten(thread)
	items := make([]gin.H, 0, len(flat))
	for _, fc := range flat {
		items = append(items, flatCommentPayload(fc))
	}
	c.JSON(http.StatusOK, gin.H{"comments": items})
}

// CreateComment stores a comment or a reply to an existing comment on
// the same post.
func (a *API) CreateComment(c *gin.Context) {
	var payload commentRequest
	if !bindJSON(c, &payload, "post_id and content are required") {
		return
	}

	comment, err := a.comments.Create(principalFrom(c), payload.PostID, payload.ParentID, payload.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"parent_id":  comment.ParentID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	}})
}

type commentEditRequest struct {
	Content string `json:"content"`
}

// EditComment replaces the body of the caller's own comment.
func (a *API) EditComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload commentEditRequest
	if !bindJSON(c, &payload, "content is required") {
		return
	}

	comment, err := a.comments.Edit(principalFrom(c), id, payload.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": gin.H{
		"id":      comment.ID,
		"content": comment.Content,
		"edited":  comment.Edited,
	}})
}

// DeleteComment removes a comment and all of its descendant replies.
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.comments.Delete(principalFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
