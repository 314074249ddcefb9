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

type CommunityService struct {
	repo     interfaces.CommunityRepository
	userRepo interfaces.UserRepository
	petRepo  interfaces.PetRepository
	notifier Notifier
	metrics  metrics.Recorder
}

func NewCommunityService(
	repo interfaces.CommunityRepository,
	userRepo interfaces.UserRepository,
	petRepo interfaces.PetRepository,
	notifier Notifier,
	recorder metrics.Recorder,
) *CommunityService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &CommunityService{
		repo:     repo,
		userRepo: userRepo,
		petRepo:  petRepo,
		notifier: notifier,
		metrics:  recorder,
	}
}

func (s *CommunityService) CreatePost(ctx context.Context, post *model.Post, images []string) error {
	if strings.TrimSpace(post.Content) == "" && len(images) == 0 {
		return errors.New(errors.ErrValidation, "post content or images required")
	}
	if post.PetID != nil {
		if err := s.ensurePetOwner(ctx, post.UserID, *post.PetID); err != nil {
			return err
		}
	}
	if err := s.repo.CreatePost(ctx, post, images); err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err), zap.Int("user_id", post.UserID))
		return errors.Wrap(errors.ErrDatabase, "failed to create post", err)
	}
	post.Images = images
	return nil
}

func (s *CommunityService) ensurePetOwner(ctx context.Context, userID, petID int) error {
	pet, err := s.petRepo.FindByID(ctx, petID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load pet", err)
	}
	if pet == nil {
		return errors.New(errors.ErrPetNotFound, "pet not found")
	}
	if !policy.Owns(userID, policy.Owned(pet.OwnerID)) {
		return errors.New(errors.ErrForbidden, "you can only tag your own pets")
	}
	return nil
}

func (s *CommunityService) GetPostByID(ctx context.Context, id int) (*model.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}
	return post, nil
}

// authorize 作者本人或管理员才能修改
func (s *CommunityService) authorize(ctx context.Context, userID, ownerID int) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	return policy.Authorize(user, policy.ActionManageOwn, policy.Owned(ownerID))
}

func (s *CommunityService) UpdatePost(ctx context.Context, userID, postID int, content string) (*model.Post, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, post.UserID); err != nil {
		return nil, err
	}
	post.Content = content
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update post", err)
	}
	return post, nil
}

func (s *CommunityService) DeletePost(ctx context.Context, userID, postID int) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, post.UserID); err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete post", err)
	}
	util.Logger.Info("帖子已删除", zap.Int("post_id", postID), zap.Int("user_id", userID))
	return nil
}

func (s *CommunityService) GetUserPosts(ctx context.Context, userID, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.repo.GetUserPosts(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "failed to list posts", err)
	}
	return posts, total, nil
}

// CreateComment 评论后通知帖子作者，自己评论自己的帖子不通知
func (s *CommunityService) CreateComment(ctx context.Context, comment *model.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errors.New(errors.ErrValidation, "comment content is required")
	}
	post, err := s.GetPostByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create comment", err)
	}

	if post.UserID != comment.UserID {
		s.notifyAuthor(ctx, post.UserID, comment.UserID, model.NotificationComment, post.ID, "commented on your post")
	}
	return nil
}

func (s *CommunityService) GetCommentsByPostID(ctx context.Context, postID, page, pageSize int) ([]*model.Comment, error) {
	comments, err := s.repo.GetCommentsByPostID(ctx, postID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list comments", err)
	}
	return comments, nil
}

func (s *CommunityService) DeleteComment(ctx context.Context, userID, commentID int) error {
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load comment", err)
	}
	if comment == nil {
		return errors.New(errors.ErrResourceNotFound, "comment not found")
	}
	if err := s.authorize(ctx, userID, comment.UserID); err != nil {
		return err
	}
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete comment", err)
	}
	return nil
}

// React 每个用户对每个帖子只保留一个表情，重复设置会覆盖
func (s *CommunityService) React(ctx context.Context, userID, postID int, reactionType model.ReactionType) error {
	if !reactionType.Valid() {
		return errors.New(errors.ErrValidation, "invalid reaction type")
	}
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	reaction := &model.Reaction{UserID: userID, PostID: postID, Type: reactionType}
	if err := s.repo.UpsertReaction(ctx, reaction); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to save reaction", err)
	}

	if post.UserID != userID {
		s.notifyAuthor(ctx, post.UserID, userID, model.NotificationReaction, post.ID, "reacted to your post")
	}
	return nil
}

func (s *CommunityService) RemoveReaction(ctx context.Context, userID, postID int) error {
	if err := s.repo.DeleteReaction(ctx, userID, postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to remove reaction", err)
	}
	return nil
}

func (s *CommunityService) Follow(ctx context.Context, followerID, followedID int) error {
	if followerID == followedID {
		return errors.New(errors.ErrSelfFollow, "you cannot follow yourself")
	}
	target, err := s.userRepo.FindByID(ctx, followedID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if target == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	already, err := s.repo.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to check follow", err)
	}
	if already {
		return nil
	}

	if err := s.repo.CreateFollow(ctx, &model.Follow{FollowerID: followerID, FollowedID: followedID}); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to follow user", err)
	}
	s.notifyAuthor(ctx, followedID, followerID, model.NotificationFollow, followerID, "started following you")
	return nil
}

func (s *CommunityService) Unfollow(ctx context.Context, followerID, followedID int) error {
	if err := s.repo.DeleteFollow(ctx, followerID, followedID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to unfollow user", err)
	}
	return nil
}

func (s *CommunityService) GetFollowers(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	users, err := s.repo.GetFollowers(ctx, userID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list followers", err)
	}
	return users, nil
}

func (s *CommunityService) GetFollowing(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	users, err := s.repo.GetFollowing(ctx, userID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list following", err)
	}
	return users, nil
}

func (s *CommunityService) notifyAuthor(ctx context.Context, receiverID, senderID int, kind model.NotificationType, entityID int, action string) {
	name := "Someone"
	if sender, err := s.userRepo.FindByID(ctx, senderID); err == nil && sender != nil {
		name = sender.Username
	}

	entityType := "POST"
	if kind == model.NotificationFollow {
		entityType = "USER"
	}
	notifyBestEffort(ctx, s.notifier, s.metrics, &model.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       kind,
		Message:    fmt.Sprintf("%s %s", name, action),
		EntityID:   entityRef(entityID),
		EntityType: entityType,
	})
}
