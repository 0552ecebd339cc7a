package ginserver

import (
	"errors"
	"io"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"mareblu/internal/infra/storage/s3"
)

// Photo uploads cap at 20 MiB before decoding.
const maxUploadBytes = 20 << 20

type GalleryHandler struct {
	Uploader s3.GalleryUploader
}

func (h GalleryHandler) Upload(c *gin.Context) {
	category, err := s3.ParseCategory(c.PostForm("category"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo exceeds size limit"})
		return
	}

	photo, err := h.Uploader.Store(c.Request.Context(), category, data)
	if err != nil {
		if errors.Is(err, s3.ErrUnknownCategory) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"category": photo.Category,
		"key":      photo.Key,
		"urls":     photo.URLs,
	})
}

var _ GalleryHTTP = GalleryHandler{}
