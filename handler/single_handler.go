package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

var singleReadOnlyFields = []string{"id", "artistId", "createdAt", "updatedAt"}

type SingleHandler struct {
	svc service.SingleService
}

func NewSingleHandler(svc service.SingleService) *SingleHandler { return &SingleHandler{svc: svc} }

func (h *SingleHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/singles")
	g.GET("/:id", h.Get)
	g.POST("", auth, h.Publish)
	g.PUT("/:id", auth, h.Update)
	g.DELETE("/:id", auth, h.Delete)

	api.GET("/artists/:id/singles", h.ListByArtist)
	api.GET("/artists/:id/featurings", h.ListFeaturing)
}

func (h *SingleHandler) Publish(c *gin.Context) {
	var req dto.CreateSingleRequest
	if !bindJSON(c, &req) {
		return
	}
	if rejectUnsafe(c, map[string]string{"title": req.Title}) {
		return
	}

	out, err := h.svc.Publish(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Message: "Single created successfully", Data: out})
}

func (h *SingleHandler) Get(c *gin.Context) {
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

func (h *SingleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.UpdateSingleRequest
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

	warnings := nonModifiableWarnings(c, singleReadOnlyFields...)
	message := "Single updated successfully"
	if len(warnings) > 0 {
		message = "Single updated successfully with partial warnings."
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: message, Warnings: warnings, Data: out})
}

func (h *SingleHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "Single deleted successfully"})
}

func (h *SingleHandler) ListByArtist(c *gin.Context) {
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

func (h *SingleHandler) ListFeaturing(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	out, err := h.svc.ListFeaturing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: out})
}
