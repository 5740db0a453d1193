package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("/singles/:id/stats", h.GetForSingle)
	api.PUT("/stats/:id", auth, middleware.AdminOnly(), h.UpdateListens)
}

func (h *StatsHandler) GetForSingle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	stat, err := h.svc.GetSingleStat(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: stat})
}

func (h *StatsHandler) UpdateListens(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.UpdateStatRequest
	if !bindJSON(c, &req) {
		return
	}

	stat, err := h.svc.UpdateListenCount(c.Request.Context(), id, req.ListensCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Message: "Stat updated successfully", Data: stat})
}
