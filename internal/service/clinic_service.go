package service

import (
	"context"
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
)

type ClinicService struct {
	repo     interfaces.ClinicRepository
	userRepo interfaces.UserRepository
}

func NewClinicService(repo interfaces.ClinicRepository, userRepo interfaces.UserRepository) *ClinicService {
	return &ClinicService{repo: repo, userRepo: userRepo}
}

func (s *ClinicService) List(ctx context.Context, city string, page, pageSize int) ([]*model.VetClinic, int, error) {
	clinics, total, err := s.repo.List(ctx, strings.TrimSpace(city), page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "failed to list clinics", err)
	}
	return clinics, total, nil
}

func (s *ClinicService) Get(ctx context.Context, id int) (*model.VetClinic, error) {
	clinic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load clinic", err)
	}
	if clinic == nil {
		return nil, errors.New(errors.ErrClinicNotFound, "clinic not found")
	}
	return clinic, nil
}

func (s *ClinicService) authorize(ctx context.Context, adminID int) error {
	admin, err := s.userRepo.FindByID(ctx, adminID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	return policy.Authorize(admin, policy.ActionManageClinic, nil)
}

func (s *ClinicService) Create(ctx context.Context, adminID int, clinic *model.VetClinic) error {
	if err := s.authorize(ctx, adminID); err != nil {
		return err
	}
	if strings.TrimSpace(clinic.Name) == "" {
		return errors.New(errors.ErrValidation, "clinic name is required")
	}
	clinic.CreatedBy = adminID
	if err := s.repo.Create(ctx, clinic); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create clinic", err)
	}
	return nil
}

func (s *ClinicService) Update(ctx context.Context, adminID int, clinic *model.VetClinic) (*model.VetClinic, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, clinic.ID)
	if err != nil {
		return nil, err
	}
	clinic.CreatedBy = existing.CreatedBy
	clinic.CreatedAt = existing.CreatedAt
	if strings.TrimSpace(clinic.Name) == "" {
		clinic.Name = existing.Name
	}
	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update clinic", err)
	}
	return clinic, nil
}

func (s *ClinicService) Delete(ctx context.Context, adminID, id int) error {
	if err := s.authorize(ctx, adminID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete clinic", err)
	}
	return nil
}
