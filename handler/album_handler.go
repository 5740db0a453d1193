package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

// Album genres are derived from the album's singles, so a client-sent
// genres key is reported like the other read-only fields.
var albumReadOnlyFields = []string{"id", "artistId", "genres", "createdAt", "updatedAt"}

type AlbumHandler struct {
	svc service.AlbumService
}

func NewAlbumHandler(svc service.AlbumService) *AlbumHandler { return &AlbumHandler{svc: svc} }

func (h *AlbumHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/albums")
	g.GET("/:id", h.Get)
	g.POST("", auth, h.Create)
	g.PUT("/:id", auth, h.Update)
	g.DELETE("/:id", auth, h.Delete)

	api.GET("/artists/:id/albums", h.ListByArtist)
}

func (h *AlbumHandler) Create(c *gin.Context) {
	var req dto.CreateAlbumRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectUnsafe(c, map[string]string{"title": req.Title}) {
		return
	}

	out, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Message: "Album created successfully", Data: out})
}

func (h *AlbumHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: out})
}

func (h *AlbumHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.UpdateAlbumRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectUnsafe(c, map[string]string{"title": deref(req.Title)}) {
		return
	}

	out, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	warnings := nonModifiableWarnings(c, albumReadOnlyFields...)
	message := "Album updated successfully"
	if len(warnings) > 0 {
		message = "Album updated successfully with partial warnings."
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: message, Warnings: warnings, Data: out})
}

func (h *AlbumHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "Album deleted successfully"})
}

func (h *AlbumHandler) ListByArtist(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	out, err := h.svc.ListByArtist(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: out})
}
