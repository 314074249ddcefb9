package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByReceiver(ctx context.Context, receiverID, page, pageSize int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id, receiverID int) error
}
