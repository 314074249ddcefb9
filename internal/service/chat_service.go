package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

// ChatService 私信。两人之间的私聊房间只建一次，领养房间由申请流程创建。
type ChatService struct {
	repo     interfaces.ChatRepository
	userRepo interfaces.UserRepository
	notifier Notifier
	metrics  metrics.Recorder
}

func NewChatService(repo interfaces.ChatRepository, userRepo interfaces.UserRepository, notifier Notifier, recorder metrics.Recorder) *ChatService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ChatService{repo: repo, userRepo: userRepo, notifier: notifier, metrics: recorder}
}

// OpenDirectRoom 返回两人已有的私聊房间，没有则新建
func (s *ChatService) OpenDirectRoom(ctx context.Context, userID, otherID int) (*model.ChatRoom, error) {
	if userID == otherID {
		return nil, errors.New(errors.ErrValidation, "cannot start a chat with yourself")
	}
	other, err := s.userRepo.FindByID(ctx, otherID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if other == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}

	room, err := s.repo.FindDirectRoom(ctx, userID, otherID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to look up chat room", err)
	}
	if room != nil {
		return room, nil
	}

	room = &model.ChatRoom{
		Type:           model.ChatRoomDirect,
		ParticipantIDs: []int{userID, otherID},
	}
	if err := s.repo.CreateChatRoom(ctx, room); err != nil {
		util.Logger.Error("创建聊天室失败", zap.Error(err), zap.Int("user_id", userID), zap.Int("other_id", otherID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create chat room", err)
	}
	return room, nil
}

func (s *ChatService) ListRooms(ctx context.Context, userID int) ([]*model.ChatRoom, error) {
	rooms, err := s.repo.ListRoomsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list chat rooms", err)
	}
	return rooms, nil
}

// joinedRoom 非参与者看到的是房间不存在
func (s *ChatService) joinedRoom(ctx context.Context, userID, roomID int) (*model.ChatRoom, error) {
	room, err := s.repo.GetChatRoomByID(ctx, roomID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load chat room", err)
	}
	if room == nil || !room.HasParticipant(userID) {
		return nil, errors.New(errors.ErrChatRoomNotFound, "chat room not found")
	}
	return room, nil
}

func (s *ChatService) SendMessage(ctx context.Context, userID, roomID int, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "message content is required")
	}
	room, err := s.joinedRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{ChatRoomID: roomID, SenderID: userID, Content: content}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to send message", err)
	}

	name := "Someone"
	if sender, err := s.userRepo.FindByID(ctx, userID); err == nil && sender != nil {
		name = sender.Username
	}
	for _, participant := range room.ParticipantIDs {
		if participant == userID {
			continue
		}
		notifyBestEffort(ctx, s.notifier, s.metrics, &model.Notification{
			ReceiverID: participant,
			SenderID:   userID,
			Type:       model.NotificationMessage,
			Message:    fmt.Sprintf("%s sent you a message", name),
			EntityID:   entityRef(roomID),
			EntityType: "CHAT_ROOM",
		})
	}
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, roomID, page, pageSize int) ([]*model.Message, error) {
	if _, err := s.joinedRoom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, roomID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list messages", err)
	}
	return messages, nil
}
