package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/service"
	"github.com/rs/zerolog/log"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondServiceError maps service errors onto the response taxonomy:
// 401 unauthorized, 403 forbidden, 404 not found, 400 validation,
// 500 for store failures (logged, never retried here).
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPostFieldsNeeded),
		errors.Is(err, service.ErrCommentEmpty),
		errors.Is(err, service.ErrParentMismatch),
		errors.Is(err, service.ErrStatusInvalid),
		errors.Is(err, service.ErrRoleInvalid),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrCredentialsNeeded),
		errors.Is(err, service.ErrCategoryInvalid),
		errors.Is(err, service.ErrCategoryTaken):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("store operation failed")
		respondError(c, http.StatusInternalServerError, "something went wrong")
	}
}
