package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// ListCategories returns every category for navigation and filters.
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		items = append(items, categoryPayload(cat))
	}
	c.JSON(http.StatusOK, gin.H{"categories": items})
}

// GetCategory serves a category page: the category plus one window of
// its published posts.
func (a *API) GetCategory(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filter := service.PostFilter{CategoryID: &category.ID}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PerPage, _ = strconv.Atoi(c.Query("per_page"))

	list, err := a.posts.List(filter, principalFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":    categoryPayload(*category),
		"posts":       postListPayload(list.Posts),
		"total":       list.Total,
		"total_pages": list.TotalPages,
		"page":        list.Page,
	})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory adds a category. Admin only, enforced by the route
// group.
func (a *API) CreateCategory(c *gin.Context) {
	var payload categoryRequest
	if !bindJSON(c, &payload, "category name is required") {
		return
	}

	category, err := a.categories.Create(payload.Name, payload.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": categoryPayload(*category)})
}
