package notification

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/gin-gonic/gin"
)

type Service interface {
	ListMine(ctx context.Context, userID, page, pageSize int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int) error
}

type NotificationHandler struct {
	notificationService Service
}

func NewNotificationHandler(notificationService Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	notifications, err := h.notificationService.ListMine(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, notifications, "")
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Notification marked as read")
}
