package service

import (
	"context"
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

type PetService struct {
	repo     interfaces.PetRepository
	userRepo interfaces.UserRepository
}

func NewPetService(repo interfaces.PetRepository, userRepo interfaces.UserRepository) *PetService {
	return &PetService{repo: repo, userRepo: userRepo}
}

func (s *PetService) CreatePet(ctx context.Context, ownerID int, pet *model.Pet) error {
	if strings.TrimSpace(pet.Name) == "" || strings.TrimSpace(pet.Species) == "" {
		return errors.New(errors.ErrValidation, "pet name and species are required")
	}
	pet.OwnerID = ownerID
	pet.IsMedicalVerified = false
	if err := s.repo.Create(ctx, pet); err != nil {
		util.Logger.Error("创建宠物档案失败", zap.Error(err), zap.Int("owner_id", ownerID))
		return errors.Wrap(errors.ErrDatabase, "failed to create pet", err)
	}
	return nil
}

func (s *PetService) GetPet(ctx context.Context, id int) (*model.Pet, error) {
	pet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load pet", err)
	}
	if pet == nil {
		return nil, errors.New(errors.ErrPetNotFound, "pet not found")
	}
	return pet, nil
}

func (s *PetService) ListByOwner(ctx context.Context, ownerID int) ([]*model.Pet, error) {
	pets, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list pets", err)
	}
	return pets, nil
}

// loadOwned 取出宠物并确认 userID 可以修改它
func (s *PetService) loadOwned(ctx context.Context, userID, petID int) (*model.Pet, error) {
	pet, err := s.GetPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if err := policy.Authorize(user, policy.ActionManageOwn, policy.Owned(pet.OwnerID)); err != nil {
		return nil, err
	}
	return pet, nil
}

// UpdatePet 医疗认证标记只能由审核流程修改
func (s *PetService) UpdatePet(ctx context.Context, userID int, update *model.Pet) (*model.Pet, error) {
	pet, err := s.loadOwned(ctx, userID, update.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		pet.Name = name
	}
	if species := strings.TrimSpace(update.Species); species != "" {
		pet.Species = species
	}
	pet.Breed = update.Breed
	pet.Gender = update.Gender
	pet.BirthDate = update.BirthDate
	pet.Bio = update.Bio

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update pet", err)
	}
	return pet, nil
}

func (s *PetService) UpdatePhoto(ctx context.Context, userID, petID int, photoURL string) (*model.Pet, error) {
	pet, err := s.loadOwned(ctx, userID, petID)
	if err != nil {
		return nil, err
	}
	pet.PhotoURL = photoURL
	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update pet photo", err)
	}
	return pet, nil
}

func (s *PetService) DeletePet(ctx context.Context, userID, petID int) error {
	if _, err := s.loadOwned(ctx, userID, petID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, petID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete pet", err)
	}
	util.Logger.Info("宠物档案已删除", zap.Int("pet_id", petID), zap.Int("user_id", userID))
	return nil
}
