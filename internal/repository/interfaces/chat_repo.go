package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type ChatRepository interface {
	CreateChatRoom(ctx context.Context, room *model.ChatRoom) error
	GetChatRoomByID(ctx context.Context, id int) (*model.ChatRoom, error)
	FindDirectRoom(ctx context.Context, userA, userB int) (*model.ChatRoom, error)
	ListRoomsByUser(ctx context.Context, userID int) ([]*model.ChatRoom, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, roomID, page, pageSize int) ([]*model.Message, error)
}
