package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

// CascadeRejectionReason 批准一个申请后，同帖其余待处理申请的拒绝理由
const CascadeRejectionReason = "Another applicant was selected for adoption"

const applicationEntityType = "ADOPTION_APPLICATION"

// AdoptionService 领养帖与领养申请状态机。
// 申请只能从 PENDING 迁移到 APPROVED 或 REJECTED，之后不可再变。
type AdoptionService struct {
	repo     interfaces.AdoptionRepository
	userRepo interfaces.UserRepository
	petRepo  interfaces.PetRepository
	notifier Notifier
	metrics  metrics.Recorder
}

func NewAdoptionService(
	repo interfaces.AdoptionRepository,
	userRepo interfaces.UserRepository,
	petRepo interfaces.PetRepository,
	notifier Notifier,
	recorder metrics.Recorder,
) *AdoptionService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AdoptionService{
		repo:     repo,
		userRepo: userRepo,
		petRepo:  petRepo,
		notifier: notifier,
		metrics:  recorder,
	}
}

// Submit 提交领养申请：建聊天室与 PENDING 申请在同一事务内完成，提交后通知帖主
func (s *AdoptionService) Submit(ctx context.Context, applicantID, adoptionPostID int, message string) (*model.SubmittedApplication, error) {
	applicant, err := s.userRepo.FindByID(ctx, applicantID)
	if err != nil {
		util.Logger.Error("查询申请人失败", zap.Error(err), zap.Int("applicant_id", applicantID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load applicant", err)
	}
	if applicant == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	if err := policy.Authorize(applicant, policy.ActionApplyAdoption, nil); err != nil {
		return nil, err
	}

	post, err := s.repo.GetPostByID(ctx, adoptionPostID)
	if err != nil {
		util.Logger.Error("查询领养帖失败", zap.Error(err), zap.Int("adoption_post_id", adoptionPostID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load adoption post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrAdoptionPostNotFound, "adoption post not found")
	}
	if post.AuthorID == applicantID {
		return nil, errors.New(errors.ErrSelfApplication, "you cannot apply to your own adoption post")
	}
	if err := s.ensureNotApplied(ctx, s.repo, applicantID, adoptionPostID); err != nil {
		return nil, err
	}

	var app *model.AdoptionApplication
	var room *model.ChatRoom
	err = s.repo.WithTx(ctx, func(tx interfaces.AdoptionRepository) error {
		// 锁住领养帖，与并发的提交和审批串行化
		locked, err := tx.LockPost(ctx, adoptionPostID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to lock adoption post", err)
		}
		if locked == nil {
			return errors.New(errors.ErrAdoptionPostNotFound, "adoption post not found")
		}
		if err := s.ensureNotApplied(ctx, tx, applicantID, adoptionPostID); err != nil {
			return err
		}

		room = &model.ChatRoom{
			Name:           fmt.Sprintf("Adoption: %s", post.Title),
			Type:           model.ChatRoomAdoption,
			ParticipantIDs: []int{post.AuthorID, applicantID},
		}
		if err := tx.CreateChatRoom(ctx, room); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to create chat room", err)
		}

		roomID := room.ID
		app = &model.AdoptionApplication{
			AdoptionPostID: adoptionPostID,
			ApplicantID:    applicantID,
			PetOwnerID:     post.AuthorID,
			ChatRoomID:     &roomID,
			Message:        message,
			Status:         model.ApplicationPending,
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to create application", err)
		}
		return nil
	})
	if err != nil {
		util.Logger.Warn("提交领养申请失败",
			zap.Error(err),
			zap.Int("applicant_id", applicantID),
			zap.Int("adoption_post_id", adoptionPostID))
		return nil, err
	}

	s.metrics.RecordApplicationSubmitted()
	util.Logger.Info("领养申请已提交",
		zap.Int("application_id", app.ID),
		zap.Int("adoption_post_id", adoptionPostID),
		zap.Int("chat_room_id", room.ID))

	notifyBestEffort(ctx, s.notifier, s.metrics, &model.Notification{
		ReceiverID: post.AuthorID,
		SenderID:   applicantID,
		Type:       model.NotificationAdoptionApplication,
		Message:    fmt.Sprintf("%s applied to adopt from your post \"%s\"", applicant.Username, post.Title),
		EntityID:   entityRef(app.ID),
		EntityType: applicationEntityType,
	})

	return &model.SubmittedApplication{Application: app, ChatRoomID: room.ID}, nil
}

func (s *AdoptionService) ensureNotApplied(ctx context.Context, repo interfaces.AdoptionRepository, applicantID, adoptionPostID int) error {
	existing, err := repo.FindApplications(ctx, applicantID, adoptionPostID,
		model.ApplicationPending, model.ApplicationApproved)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to check existing applications", err)
	}
	if len(existing) > 0 {
		return errors.New(errors.ErrAlreadyApplied, "you have already applied for this adoption post")
	}
	return nil
}

// UpdateStatus 帖主处理申请。批准时同一事务内关闭领养帖并拒绝其余待处理申请。
// 申请不存在与无权处理返回同一个错误。
func (s *AdoptionService) UpdateStatus(ctx context.Context, actingOwnerID, applicationID int, status model.ApplicationStatus, rejectionReason *string) (*model.AdoptionApplication, error) {
	if status != model.ApplicationApproved && status != model.ApplicationRejected {
		return nil, errors.New(errors.ErrValidation, "status must be APPROVED or REJECTED")
	}

	app, err := s.repo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		util.Logger.Error("查询领养申请失败", zap.Error(err), zap.Int("application_id", applicationID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load application", err)
	}
	if !canDecide(actingOwnerID, app) {
		return nil, errApplicationNotFound()
	}
	if app.Status != model.ApplicationPending {
		return nil, errAlreadyProcessed()
	}

	var reason *string
	if status == model.ApplicationRejected {
		if rejectionReason == nil || strings.TrimSpace(*rejectionReason) == "" {
			return nil, errors.New(errors.ErrValidation, "rejection reason is required")
		}
		trimmed := strings.TrimSpace(*rejectionReason)
		reason = &trimmed
	}

	var post *model.AdoptionPost
	var cascaded []*model.AdoptionApplication
	err = s.repo.WithTx(ctx, func(tx interfaces.AdoptionRepository) error {
		// 先锁领养帖再重读申请，同一帖的并发审批只有一个能成功
		locked, err := tx.LockPost(ctx, app.AdoptionPostID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to lock adoption post", err)
		}
		if locked == nil {
			return errApplicationNotFound()
		}
		post = locked

		current, err := tx.LockApplication(ctx, applicationID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to lock application", err)
		}
		if !canDecide(actingOwnerID, current) {
			return errApplicationNotFound()
		}
		if current.Status != model.ApplicationPending {
			return errAlreadyProcessed()
		}

		if err := tx.UpdateApplicationStatus(ctx, applicationID, status, reason); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to update application", err)
		}

		if status != model.ApplicationApproved {
			return nil
		}

		if err := tx.DeactivatePost(ctx, post.ID); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to close adoption post", err)
		}

		pending, err := tx.FindApplications(ctx, 0, post.ID, model.ApplicationPending)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load pending applications", err)
		}
		cascadeReason := CascadeRejectionReason
		for _, other := range pending {
			if other.ID == applicationID {
				continue
			}
			if err := tx.UpdateApplicationStatus(ctx, other.ID, model.ApplicationRejected, &cascadeReason); err != nil {
				return errors.Wrap(errors.ErrDatabase, "failed to reject pending application", err)
			}
			other.Status = model.ApplicationRejected
			other.RejectionReason = &cascadeReason
			cascaded = append(cascaded, other)
		}
		return nil
	})
	if err != nil {
		util.Logger.Warn("处理领养申请失败",
			zap.Error(err),
			zap.Int("application_id", applicationID),
			zap.String("status", string(status)))
		return nil, err
	}

	app.Status = status
	app.RejectionReason = reason
	s.metrics.RecordApplicationTransition(string(status), len(cascaded))
	util.Logger.Info("领养申请已处理",
		zap.Int("application_id", applicationID),
		zap.String("status", string(status)),
		zap.Int("cascade_rejected", len(cascaded)))

	s.notifyOutcome(ctx, actingOwnerID, post, app)
	for _, other := range cascaded {
		s.notifyOutcome(ctx, actingOwnerID, post, other)
	}

	return app, nil
}

func (s *AdoptionService) notifyOutcome(ctx context.Context, ownerID int, post *model.AdoptionPost, app *model.AdoptionApplication) {
	n := &model.Notification{
		ReceiverID: app.ApplicantID,
		SenderID:   ownerID,
		EntityID:   entityRef(app.ID),
		EntityType: applicationEntityType,
	}
	if app.Status == model.ApplicationApproved {
		n.Type = model.NotificationAdoptionApproved
		n.Message = fmt.Sprintf("Your adoption application for \"%s\" has been approved", post.Title)
	} else {
		n.Type = model.NotificationAdoptionRejected
		reason := ""
		if app.RejectionReason != nil {
			reason = *app.RejectionReason
		}
		n.Message = fmt.Sprintf("Your adoption application for \"%s\" was rejected: %s", post.Title, reason)
	}
	notifyBestEffort(ctx, s.notifier, s.metrics, n)
}

// canDecide 只有宠物主人能处理申请，拒绝时按申请不存在处理
func canDecide(actingOwnerID int, app *model.AdoptionApplication) bool {
	return app != nil && policy.Can(&model.User{ID: actingOwnerID}, policy.ActionDecideApplication, app)
}

func errApplicationNotFound() error {
	return errors.New(errors.ErrApplicationNotFound, "application not found or not permitted")
}

func errAlreadyProcessed() error {
	return errors.New(errors.ErrAlreadyProcessed, "application has already been processed")
}

// CreatePost 已认证用户发布领养帖，关联的宠物必须属于发布者
func (s *AdoptionService) CreatePost(ctx context.Context, authorID int, post *model.AdoptionPost) error {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if author == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	if err := policy.Authorize(author, policy.ActionCreateAdoptionPost, nil); err != nil {
		return err
	}

	if post.PetID != nil {
		pet, err := s.petRepo.FindByID(ctx, *post.PetID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load pet", err)
		}
		if pet == nil {
			return errors.New(errors.ErrPetNotFound, "pet not found")
		}
		if !policy.Owns(authorID, policy.Owned(pet.OwnerID)) {
			return errors.New(errors.ErrForbidden, "you can only list your own pets for adoption")
		}
	}

	post.AuthorID = authorID
	if err := s.repo.CreatePost(ctx, post); err != nil {
		util.Logger.Error("创建领养帖失败", zap.Error(err), zap.Int("author_id", authorID))
		return errors.Wrap(errors.ErrDatabase, "failed to create adoption post", err)
	}
	util.Logger.Info("领养帖已创建", zap.Int("adoption_post_id", post.ID), zap.Int("author_id", authorID))
	return nil
}

func (s *AdoptionService) GetPost(ctx context.Context, id int) (*model.AdoptionPost, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load adoption post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrAdoptionPostNotFound, "adoption post not found")
	}
	return post, nil
}

func (s *AdoptionService) ListActivePosts(ctx context.Context, page, pageSize int) ([]*model.AdoptionPost, int, error) {
	posts, total, err := s.repo.ListActivePosts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "failed to list adoption posts", err)
	}
	return posts, total, nil
}

// ClosePost 帖主手动关闭领养帖，已有申请保持原状态
func (s *AdoptionService) ClosePost(ctx context.Context, userID, postID int) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if !policy.Owns(userID, post) {
		return errors.New(errors.ErrForbidden, "only the author can close this adoption post")
	}
	if !post.IsActive {
		return errors.New(errors.ErrAdoptionClosed, "adoption post is already closed")
	}
	if err := s.repo.DeactivatePost(ctx, postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to close adoption post", err)
	}
	return nil
}

func (s *AdoptionService) ListApplicationsForPost(ctx context.Context, userID, postID int) ([]*model.AdoptionApplication, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(&model.User{ID: userID}, policy.ActionViewApplications, post); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsByPost(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list applications", err)
	}
	return apps, nil
}

func (s *AdoptionService) ListMyApplications(ctx context.Context, applicantID int) ([]*model.AdoptionApplication, error) {
	apps, err := s.repo.ListApplicationsByApplicant(ctx, applicantID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list applications", err)
	}
	return apps, nil
}
