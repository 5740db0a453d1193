package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/hdfs"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CoverStore is the part of the HDFS client the cover endpoints use.
type CoverStore interface {
	UploadCover(coverID, contentType string, reader io.Reader, size int64) (string, error)
	OpenCover(coverID string) (io.ReadCloser, *hdfs.CoverInfo, error)
	DeleteCover(coverID string) error
}

type CoverHandler struct {
	store  CoverStore
	appURL string
}

func NewCoverHandler(store CoverStore, appURL string) *CoverHandler {
	return &CoverHandler{store: store, appURL: strings.TrimRight(appURL, "/")}
}

func (h *CoverHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/covers")
	g.GET("/:id", h.Download)
	g.POST("", auth, h.Upload)
	g.DELETE("/:id", auth, middleware.AdminOnly(), h.Delete)
}

func (h *CoverHandler) coverURL(id string) string {
	return h.appURL + "/api/v1/covers/" + id
}

// Upload stores a multipart "file" image and answers with the URL to put in
// a single's or album's metadata.coverUrl.
func (h *CoverHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "file", "file is required")
		return
	}
	defer file.Close()

	if header.Size > hdfs.MaxCoverSize {
		badRequest(c, "file", fmt.Sprintf("cover must not exceed %d bytes", hdfs.MaxCoverSize))
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		badRequest(c, "file", "file is empty or unreadable")
		return
	}
	contentType := http.DetectContentType(head[:n])
	if _, ok := hdfs.ExtensionFor(contentType); !ok {
		badRequest(c, "file", "cover must be a jpeg, png, webp or gif image")
		return
	}

	id := uuid.New().String()
	reader := io.MultiReader(bytes.NewReader(head[:n]), file)
	if _, err := h.store.UploadCover(id, contentType, reader, header.Size); err != nil {
		logger.Error(logger.EventStorageError, "Cover upload failed", logger.Fields(
			"cover_id", id,
			"user_id", middleware.CurrentUserID(c),
			"error", err,
		))
		respondError(c, err)
		return
	}

	logger.Info(logger.EventGeneral, "Cover uploaded", logger.Fields(
		"cover_id", id,
		"user_id", middleware.CurrentUserID(c),
		"size", header.Size,
	))
	c.JSON(http.StatusCreated, dto.Envelope{
		Message: "Cover uploaded successfully",
		Data:    dto.CoverResponse{ID: id, CoverURL: h.coverURL(id), Size: header.Size},
	})
}

func (h *CoverHandler) Download(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	reader, info, err := h.store.OpenCover(id)
	if err != nil {
		if errors.Is(err, hdfs.ErrCoverNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Errors: []dto.ErrorItem{{
				Message: "cover not found",
				Code:    "COVER_NOT_FOUND",
			}}})
			return
		}
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, reader, map[string]string{
		"Last-Modified": info.ModTime.UTC().Format(http.TimeFormat),
	})
}

func (h *CoverHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCover(id); err != nil {
		if errors.Is(err, hdfs.ErrCoverNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Errors: []dto.ErrorItem{{
				Message: "cover not found",
				Code:    "COVER_NOT_FOUND",
			}}})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "Cover deleted successfully"})
}
