package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	UpdateVerificationLevel(ctx context.Context, userID int, level model.VerificationLevel) error
	MarkEmailVerified(ctx context.Context, userID int) error
	Count(ctx context.Context) (int, error)
	FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error)
}
