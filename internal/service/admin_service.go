package service

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
)

// AdminService 后台统计
type AdminService struct {
	userRepo         interfaces.UserRepository
	petRepo          interfaces.PetRepository
	communityRepo    interfaces.CommunityRepository
	adoptionRepo     interfaces.AdoptionRepository
	verificationRepo interfaces.VerificationRepository
}

// NewAdminService 创建一个新的 AdminService 实例
func NewAdminService(
	userRepo interfaces.UserRepository,
	petRepo interfaces.PetRepository,
	communityRepo interfaces.CommunityRepository,
	adoptionRepo interfaces.AdoptionRepository,
	verificationRepo interfaces.VerificationRepository,
) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		petRepo:          petRepo,
		communityRepo:    communityRepo,
		adoptionRepo:     adoptionRepo,
		verificationRepo: verificationRepo,
	}
}

func (s *AdminService) GetSystemStats(ctx context.Context) (*model.SystemStats, error) {
	var stats model.SystemStats
	var err error

	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count users", err)
	}
	if stats.TotalPets, err = s.petRepo.Count(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count pets", err)
	}
	if stats.TotalPosts, err = s.communityRepo.CountPosts(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count posts", err)
	}
	if stats.ActiveAdoptionPosts, err = s.adoptionRepo.CountActivePosts(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count adoption posts", err)
	}
	if stats.PendingApplications, err = s.adoptionRepo.CountPendingApplications(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count applications", err)
	}
	// 只需要总数
	if _, stats.PendingDocuments, err = s.verificationRepo.ListPending(ctx, 1, 1); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to count documents", err)
	}
	return &stats, nil
}
