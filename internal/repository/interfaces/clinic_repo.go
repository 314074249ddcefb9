package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.VetClinic) error
	FindByID(ctx context.Context, id int) (*model.VetClinic, error)
	List(ctx context.Context, city string, page, pageSize int) ([]*model.VetClinic, int, error)
	Update(ctx context.Context, clinic *model.VetClinic) error
	Delete(ctx context.Context, id int) error
}
