package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

// VerificationService 认证材料上传与管理员审核。
// 审核通过后按材料类型提升用户等级或标记宠物医疗认证。
type VerificationService struct {
	repo     interfaces.VerificationRepository
	userRepo interfaces.UserRepository
	petRepo  interfaces.PetRepository
	notifier Notifier
	metrics  metrics.Recorder
	now      func() time.Time
}

func NewVerificationService(
	repo interfaces.VerificationRepository,
	userRepo interfaces.UserRepository,
	petRepo interfaces.PetRepository,
	notifier Notifier,
	recorder metrics.Recorder,
) *VerificationService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &VerificationService{
		repo:     repo,
		userRepo: userRepo,
		petRepo:  petRepo,
		notifier: notifier,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Submit 保存上传的材料，PET_MEDICAL 必须关联自己的宠物
func (s *VerificationService) Submit(ctx context.Context, userID int, docType model.DocumentType, petID *int, fileURL string) (*model.VerificationDocument, error) {
	if !docType.Valid() {
		return nil, errors.New(errors.ErrValidation, "invalid document type")
	}
	if fileURL == "" {
		return nil, errors.New(errors.ErrValidation, "document file is required")
	}

	if docType == model.DocumentPetMedical {
		if petID == nil {
			return nil, errors.New(errors.ErrValidation, "pet id is required for medical documents")
		}
		pet, err := s.petRepo.FindByID(ctx, *petID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "failed to load pet", err)
		}
		if pet == nil {
			return nil, errors.New(errors.ErrPetNotFound, "pet not found")
		}
		if !policy.Owns(userID, policy.Owned(pet.OwnerID)) {
			return nil, errors.New(errors.ErrForbidden, "you can only verify your own pets")
		}
	} else {
		petID = nil
	}

	doc := &model.VerificationDocument{
		UserID:  userID,
		PetID:   petID,
		Type:    docType,
		FileURL: fileURL,
		Status:  model.DocumentPending,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		util.Logger.Error("保存认证材料失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to save document", err)
	}
	return doc, nil
}

func (s *VerificationService) ListMine(ctx context.Context, userID int) ([]*model.VerificationDocument, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list documents", err)
	}
	return docs, nil
}

func (s *VerificationService) loadAdmin(ctx context.Context, adminID int, action policy.Action) error {
	admin, err := s.userRepo.FindByID(ctx, adminID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	return policy.Authorize(admin, action, nil)
}

func (s *VerificationService) ListPending(ctx context.Context, adminID, page, pageSize int) ([]*model.VerificationDocument, int, error) {
	if err := s.loadAdmin(ctx, adminID, policy.ActionReviewDocument); err != nil {
		return nil, 0, err
	}
	docs, total, err := s.repo.ListPending(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "failed to list pending documents", err)
	}
	return docs, total, nil
}

// Review 审核材料，拒绝时必须填写说明
func (s *VerificationService) Review(ctx context.Context, adminID, documentID int, approved bool, note string) (*model.VerificationDocument, error) {
	if err := s.loadAdmin(ctx, adminID, policy.ActionReviewDocument); err != nil {
		return nil, err
	}

	note = strings.TrimSpace(note)
	if !approved && note == "" {
		return nil, errors.New(errors.ErrValidation, "review note is required when rejecting")
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load document", err)
	}
	if doc == nil {
		return nil, errors.New(errors.ErrDocumentNotFound, "document not found")
	}
	if doc.Status != model.DocumentPending {
		return nil, errors.New(errors.ErrAlreadyProcessed, "document has already been reviewed")
	}

	if approved {
		if err := s.applyApproval(ctx, doc); err != nil {
			return nil, err
		}
		doc.Status = model.DocumentApproved
	} else {
		doc.Status = model.DocumentRejected
	}

	reviewedAt := s.now()
	doc.ReviewerID = &adminID
	doc.ReviewNote = note
	doc.ReviewedAt = &reviewedAt
	if err := s.repo.UpdateReview(ctx, doc); err != nil {
		util.Logger.Error("保存审核结果失败", zap.Error(err), zap.Int("document_id", documentID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to save review", err)
	}

	util.Logger.Info("认证材料已审核",
		zap.Int("document_id", documentID),
		zap.String("status", string(doc.Status)),
		zap.Int("reviewer_id", adminID))

	message := fmt.Sprintf("Your %s document was approved", documentLabel(doc.Type))
	if !approved {
		message = fmt.Sprintf("Your %s document was rejected: %s", documentLabel(doc.Type), note)
	}
	notifyBestEffort(ctx, s.notifier, s.metrics, &model.Notification{
		ReceiverID: doc.UserID,
		SenderID:   adminID,
		Type:       model.NotificationVerification,
		Message:    message,
		EntityID:   entityRef(doc.ID),
		EntityType: "VERIFICATION_DOCUMENT",
	})
	return doc, nil
}

func (s *VerificationService) applyApproval(ctx context.Context, doc *model.VerificationDocument) error {
	switch doc.Type {
	case model.DocumentIdentity:
		return s.raiseLevel(ctx, doc.UserID, model.LevelVerified)
	case model.DocumentVetLicense:
		return s.raiseLevel(ctx, doc.UserID, model.LevelVet)
	case model.DocumentPetMedical:
		if doc.PetID == nil {
			return errors.New(errors.ErrValidation, "medical document has no pet")
		}
		if err := s.petRepo.SetMedicalVerified(ctx, *doc.PetID, true); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to mark pet as verified", err)
		}
	}
	return nil
}

// raiseLevel 只升不降
func (s *VerificationService) raiseLevel(ctx context.Context, userID int, level model.VerificationLevel) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	if user.VerificationLevel.AtLeast(level) {
		return nil
	}
	if err := s.userRepo.UpdateVerificationLevel(ctx, userID, level); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update verification level", err)
	}
	return nil
}

// SetUserLevel 管理员直接设置用户等级
func (s *VerificationService) SetUserLevel(ctx context.Context, adminID, userID int, level model.VerificationLevel) error {
	if err := s.loadAdmin(ctx, adminID, policy.ActionManageUsers); err != nil {
		return err
	}
	if !level.Valid() {
		return errors.New(errors.ErrValidation, "invalid verification level")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	if err := s.userRepo.UpdateVerificationLevel(ctx, userID, level); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update verification level", err)
	}

	util.Logger.Info("管理员设置用户等级",
		zap.Int("admin_id", adminID),
		zap.Int("user_id", userID),
		zap.String("level", string(level)))

	notifyBestEffort(ctx, s.notifier, s.metrics, &model.Notification{
		ReceiverID: userID,
		SenderID:   adminID,
		Type:       model.NotificationVerification,
		Message:    fmt.Sprintf("Your verification level is now %s", level),
		EntityID:   entityRef(userID),
		EntityType: "USER",
	})
	return nil
}

func documentLabel(t model.DocumentType) string {
	switch t {
	case model.DocumentIdentity:
		return "identity"
	case model.DocumentVetLicense:
		return "veterinary license"
	case model.DocumentPetMedical:
		return "pet medical"
	}
	return strings.ToLower(string(t))
}
