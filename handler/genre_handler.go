package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler { return &GenreHandler{svc: svc} }

func (h *GenreHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/genres")
	g.GET("", h.List)
	g.POST("", auth, middleware.AdminOnly(), h.Create)
	g.DELETE("/:id", auth, middleware.AdminOnly(), h.Delete)
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectUnsafe(c, map[string]string{"name": req.Name, "desc": req.Desc}) {
		return
	}
	req.Desc = middleware.SanitizeString(req.Desc)

	genre, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Message: "Genre created successfully", Data: genre})
}

func (h *GenreHandler) List(c *gin.Context) {
	genres, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: genres})
}

func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "Genre deleted successfully"})
}
