package service

import (
	"context"
	"fmt"
	"html"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

// Notifier 通知发送方。调用方把失败当作尽力而为处理，不回滚业务操作。
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// 这些类型除站内通知外还会发邮件
var emailedNotificationTypes = map[model.NotificationType]string{
	model.NotificationAdoptionApplication: "New adoption application",
	model.NotificationAdoptionApproved:    "Your adoption application was approved",
	model.NotificationAdoptionRejected:    "Update on your adoption application",
	model.NotificationVerification:        "Your verification document was reviewed",
}

type NotificationService struct {
	repo     interfaces.NotificationRepository
	userRepo interfaces.UserRepository
	mailer   Mailer
	metrics  metrics.Recorder
}

func NewNotificationService(repo interfaces.NotificationRepository, userRepo interfaces.UserRepository, mailer Mailer, recorder metrics.Recorder) *NotificationService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
		metrics:  recorder,
	}
}

// Notify 保存通知记录，需要时再异步发邮件
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) error {
	if n.ReceiverID == 0 {
		return errors.New(errors.ErrValidation, "notification receiver is required")
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.metrics.RecordNotificationFailure("store")
		util.Logger.Error("保存通知失败",
			zap.Error(err),
			zap.Int("receiver_id", n.ReceiverID),
			zap.String("type", string(n.Type)))
		return errors.Wrap(errors.ErrDatabase, "failed to store notification", err)
	}

	subject, emailed := emailedNotificationTypes[n.Type]
	if !emailed || s.mailer == nil {
		return nil
	}

	receiver, err := s.userRepo.FindByID(ctx, n.ReceiverID)
	if err != nil || receiver == nil {
		s.metrics.RecordNotificationFailure("email")
		util.Logger.Warn("查找通知接收人失败，跳过邮件",
			zap.Error(err),
			zap.Int("receiver_id", n.ReceiverID))
		return nil
	}

	body := fmt.Sprintf("Hi %s,<br><br>%s<br><br>Open PawPal to see the details.", 
		html.EscapeString(receiver.Username), html.EscapeString(n.Message))
	s.mailer.SendNotificationEmail(receiver.Email, subject, body)
	return nil
}

func (s *NotificationService) ListMine(ctx context.Context, userID, page, pageSize int) ([]*model.Notification, error) {
	notifications, err := s.repo.ListByReceiver(ctx, userID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int) error {
	if err := s.repo.MarkRead(ctx, notificationID, userID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to mark notification as read", err)
	}
	return nil
}

// notifyBestEffort 发送通知，失败只记录日志
func notifyBestEffort(ctx context.Context, notifier Notifier, recorder metrics.Recorder, n *model.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		recorder.RecordNotificationFailure(string(n.Type))
		util.Logger.Warn("发送通知失败",
			zap.Error(err),
			zap.Int("receiver_id", n.ReceiverID),
			zap.String("type", string(n.Type)))
	}
}

func entityRef(id int) *int {
	return &id
}

var _ Notifier = (*NotificationService)(nil)
