package chat

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/gin-gonic/gin"
)

type Service interface {
	OpenDirectRoom(ctx context.Context, userID, otherID int) (*model.ChatRoom, error)
	ListRooms(ctx context.Context, userID int) ([]*model.ChatRoom, error)
	SendMessage(ctx context.Context, userID, roomID int, content string) (*model.Message, error)
	ListMessages(ctx context.Context, userID, roomID, page, pageSize int) ([]*model.Message, error)
}

type ChatHandler struct {
	chatService Service
}

func NewChatHandler(chatService Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// OpenRoom 打开与另一位用户的私聊
func (h *ChatHandler) OpenRoom(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	var req struct {
		UserID int `json:"user_id" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	room, err := h.chatService.OpenDirectRoom(c.Request.Context(), userID, req.UserID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, room, "")
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	rooms, err := h.chatService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, rooms, "")
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	roomID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required,max=4000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), userID, roomID, req.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, msg, "Message sent")
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	roomID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	messages, err := h.chatService.ListMessages(c.Request.Context(), userID, roomID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, messages, "")
}
