package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type postRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Excerpt      string `json:"excerpt"`
	CategoryID   *uint  `json:"category_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	Draft        bool   `json:"draft"`
}

// Home assembles the front page: featured post, hot posts and the
// first pagination window.
func (a *API) Home(c *gin.Context) {
	viewer := principalFrom(c)

	featured, err := a.posts.Featured()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	hot, err := a.posts.Hot(4)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	list, err := a.posts.List(service.PostFilter{Page: 1}, viewer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := gin.H{
		"hot":         postsPayload(hot),
		"posts":       postListPayload(list.Posts),
		"total":       list.Total,
		"total_pages": list.TotalPages,
	}
	if featured != nil {
		payload["featured"] = postPayload(*featured)
	}
	c.JSON(http.StatusOK, payload)
}

// ListPosts returns one pagination window of published posts, with an
// optional category filter.
func (a *API) ListPosts(c *gin.Context) {
	viewer := principalFrom(c)

	filter := service.PostFilter{}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PerPage, _ = strconv.Atoi(c.Query("per_page"))

	if slug := strings.TrimSpace(c.Query("category")); slug != "" {
		category, err := a.categories.GetBySlug(slug)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		filter.CategoryID = &category.ID
	}

	list, err := a.posts.List(filter, viewer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       postListPayload(list.Posts),
		"total":       list.Total,
		"total_pages": list.TotalPages,
		"page":        list.Page,
		"per_page":    list.PerPage,
	})
}

// GetPost serves the post detail page by slug, with rendered content
// and the flattened comment thread.
func (a *API) GetPost(c *gin.Context) {
	viewer := principalFrom(c)

	view, err := a.posts.GetBySlug(c.Param("slug"), viewer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rendered, err := renderMarkdown(view.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	thread, err := a.comments.Thread(view.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	flat := service.Flatten(thread)
	comments := make([]gin.H, 0, len(flat))
	for _, fc := range flat {
		comments = append(comments, flatCommentPayload(fc))
	}

	payload := postViewPayload(*view)
	payload["content"] = view.Content
	payload["content_html"] = rendered
	payload["comments"] = comments
	c.JSON(http.StatusOK, gin.H{"post": payload})
}

// CreatePost stores a new post; its status comes from the author's
// role and the draft intent.
func (a *API) CreatePost(c *gin.Context) {
	var payload postRequest
	if !bindJSON(c, &payload, "title and content are required") {
		return
	}

	post, err := a.posts.Create(principalFrom(c), service.PostInput{
		Title:        payload.Title,
		Content:      payload.Content,
		Excerpt:      payload.Excerpt,
		CategoryID:   payload.CategoryID,
		ThumbnailURL: payload.ThumbnailURL,
		Draft:        payload.Draft,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": postPayload(*post)})
}

// UpdatePost edits the caller's own post, recomputing its status from
// the caller's current role.
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload postRequest
	if !bindJSON(c, &payload, "title and content are required") {
		return
	}

	post, err := a.posts.Update(principalFrom(c), id, service.PostInput{
		Title:        payload.Title,
		Content:      payload.Content,
		Excerpt:      payload.Excerpt,
		CategoryID:   payload.CategoryID,
		ThumbnailURL: payload.ThumbnailURL,
		Draft:        payload.Draft,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postPayload(*post)})
}

// DeletePost removes a post and everything hanging off it.
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(principalFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// SearchPosts matches published posts by title or content substring.
func (a *API) SearchPosts(c *gin.Context) {
	posts, err := a.posts.Search(c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": postsPayload(posts)})
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetPostStatus is the staff moderation transition.
func (a *API) SetPostStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload statusRequest
	if !bindJSON(c, &payload, "status is required") {
		return
	}

	post, err := a.posts.SetStatus(principalFrom(c), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postPayload(*post)})
}

type featuredRequest struct {
	Featured bool `json:"featured"`
}

// SetPostFeatured toggles the front page feature flag. Admin only.
func (a *API) SetPostFeatured(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload featuredRequest
	if !bindJSON(c, &payload, "featured flag is required") {
		return
	}

	post, err := a.posts.SetFeatured(principalFrom(c), id, payload.Featured)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": postPayload(*post)})
}
