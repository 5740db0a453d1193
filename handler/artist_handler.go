package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type ArtistHandler struct {
	svc service.ArtistService
}

func NewArtistHandler(svc service.ArtistService) *ArtistHandler { return &ArtistHandler{svc: svc} }

func (h *ArtistHandler) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/artists")
	g.POST("/register", h.Register)
	g.GET("/:id", h.Get)
	g.GET("/:id/stats", h.Stats)
}

func (h *ArtistHandler) Register(c *gin.Context) {
	var req dto.RegisterArtistRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectUnsafe(c, map[string]string{"name": req.Name, "biography": req.Biography}) {
		return
	}
	req.Biography = middleware.SanitizeString(req.Biography)

	artist, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Message: "Artist registered successfully", Data: artist})
}

func (h *ArtistHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	artist, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: artist})
}

func (h *ArtistHandler) Stats(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: stats})
}
