package chat

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) OpenDirectRoom(ctx context.Context, userID, otherID int) (*model.ChatRoom, error) {
	args := m.Called(ctx, userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatRoom), args.Error(1)
}

func (m *MockChatService) ListRooms(ctx context.Context, userID int) ([]*model.ChatRoom, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.ChatRoom), args.Error(1)
}

func (m *MockChatService) SendMessage(ctx context.Context, userID, roomID int, content string) (*model.Message, error) {
	args := m.Called(ctx, userID, roomID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, userID, roomID, page, pageSize int) ([]*model.Message, error) {
	args := m.Called(ctx, userID, roomID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

func TestChatRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockChatService)
	handler := NewChatHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, 1)
		c.Next()
	})
	router.POST("/chats", handler.OpenRoom)
	router.POST("/chats/:id/messages", handler.SendMessage)
	router.GET("/chats/:id/messages", handler.ListMessages)

	svc.On("OpenDirectRoom", mock.Anything, 1, 2).Return(&model.ChatRoom{ID: 3}, nil)
	svc.On("SendMessage", mock.Anything, 1, 3, "hello").Return(&model.Message{ID: 1}, nil)
	svc.On("ListMessages", mock.Anything, 1, 4, 1, 10).
		Return(nil, errors.New(errors.ErrChatRoomNotFound, "chat room not found"))

	send := func(method, path, body string) int {
		req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/chats", `{"user_id":2}`))
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/chats", `{}`))
	assert.Equal(t, http.StatusCreated, send(http.MethodPost, "/chats/3/messages", `{"content":"hello"}`))
	assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/chats/4/messages", ""))
	svc.AssertExpectations(t)
}
