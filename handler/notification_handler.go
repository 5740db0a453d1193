package handler

import (
	"net/http"

	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("/notifications/me", auth, h.GetMine)
}

func (h *NotificationHandler) GetMine(c *gin.Context) {
	notifications, err := h.svc.ListForArtist(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Data: notifications})
}
