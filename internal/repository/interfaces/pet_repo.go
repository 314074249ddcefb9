package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type PetRepository interface {
	Create(ctx context.Context, pet *model.Pet) error
	FindByID(ctx context.Context, id int) (*model.Pet, error)
	ListByOwner(ctx context.Context, ownerID int) ([]*model.Pet, error)
	Update(ctx context.Context, pet *model.Pet) error
	Delete(ctx context.Context, id int) error
	SetMedicalVerified(ctx context.Context, petID int, verified bool) error
	Count(ctx context.Context) (int, error)
}
