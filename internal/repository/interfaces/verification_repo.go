package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type VerificationRepository interface {
	Create(ctx context.Context, doc *model.VerificationDocument) error
	FindByID(ctx context.Context, id int) (*model.VerificationDocument, error)
	ListByUser(ctx context.Context, userID int) ([]*model.VerificationDocument, error)
	ListPending(ctx context.Context, page, pageSize int) ([]*model.VerificationDocument, int, error)
	UpdateReview(ctx context.Context, doc *model.VerificationDocument) error
}
