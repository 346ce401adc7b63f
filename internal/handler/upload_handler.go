package handler

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadBytes is the ceiling for a single image upload.
const maxUploadBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadImage accepts a multipart image, validates type and size,
// verifies the payload actually decodes, and stores it under a uuid
// filename. Responds {"url": ...} or {"error": ...}.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no file provided")
		return
	}

	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "image exceeds the 5 MB limit")
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respondError(c, http.StatusBadRequest, "only jpeg, png, webp and gif images are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer src.Close()

	// The declared type is client-controlled; only a real decode
	// proves the payload is an image.
	if _, _, err := image.DecodeConfig(src); err != nil {
		respondError(c, http.StatusBadRequest, "file is not a valid image")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondServiceError(c, err)
		return
	}

	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, newFilename)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("%s/%s", a.uploadURL, newFilename)})
}
