package service

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateVerificationLevel(ctx context.Context, userID int, level model.VerificationLevel) error {
	args := m.Called(ctx, userID, level)
	return args.Error(0)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockAdoptionRepository 的 WithTx 直接在自身上执行回调
type MockAdoptionRepository struct {
	mock.Mock
}

func (m *MockAdoptionRepository) WithTx(ctx context.Context, fn func(repo interfaces.AdoptionRepository) error) error {
	return fn(m)
}

func (m *MockAdoptionRepository) CreatePost(ctx context.Context, post *model.AdoptionPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockAdoptionRepository) GetPostByID(ctx context.Context, id int) (*model.AdoptionPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdoptionPost), args.Error(1)
}

func (m *MockAdoptionRepository) LockPost(ctx context.Context, id int) (*model.AdoptionPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdoptionPost), args.Error(1)
}

func (m *MockAdoptionRepository) ListActivePosts(ctx context.Context, page, pageSize int) ([]*model.AdoptionPost, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*model.AdoptionPost), args.Int(1), args.Error(2)
}

func (m *MockAdoptionRepository) DeactivatePost(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdoptionRepository) CountActivePosts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAdoptionRepository) CreateApplication(ctx context.Context, app *model.AdoptionApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockAdoptionRepository) GetApplicationByID(ctx context.Context, id int) (*model.AdoptionApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionRepository) LockApplication(ctx context.Context, id int) (*model.AdoptionApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionRepository) FindApplications(ctx context.Context, applicantID, adoptionPostID int, statuses ...model.ApplicationStatus) ([]*model.AdoptionApplication, error) {
	args := m.Called(ctx, applicantID, adoptionPostID, statuses)
	return args.Get(0).([]*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionRepository) ListApplicationsByPost(ctx context.Context, adoptionPostID int) ([]*model.AdoptionApplication, error) {
	args := m.Called(ctx, adoptionPostID)
	return args.Get(0).([]*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionRepository) ListApplicationsByApplicant(ctx context.Context, applicantID int) ([]*model.AdoptionApplication, error) {
	args := m.Called(ctx, applicantID)
	return args.Get(0).([]*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionRepository) UpdateApplicationStatus(ctx context.Context, id int, status model.ApplicationStatus, rejectionReason *string) error {
	args := m.Called(ctx, id, status, rejectionReason)
	return args.Error(0)
}

func (m *MockAdoptionRepository) CountPendingApplications(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAdoptionRepository) CreateChatRoom(ctx context.Context, room *model.ChatRoom) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) CreatePost(ctx context.Context, post *model.Post, images []string) error {
	args := m.Called(ctx, post, images)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetPostByID(ctx context.Context, id int) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockCommunityRepository) DeletePost(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommunityRepository) CountPosts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) ListFeedCandidates(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) GetUserPosts(ctx context.Context, userID, page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockCommunityRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetCommentByID(ctx context.Context, id int) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommunityRepository) GetCommentsByPostID(ctx context.Context, postID, page, pageSize int) ([]*model.Comment, error) {
	args := m.Called(ctx, postID, page, pageSize)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommunityRepository) DeleteComment(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommunityRepository) UpsertReaction(ctx context.Context, reaction *model.Reaction) error {
	args := m.Called(ctx, reaction)
	return args.Error(0)
}

func (m *MockCommunityRepository) DeleteReaction(ctx context.Context, userID, postID int) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockCommunityRepository) CreateFollow(ctx context.Context, follow *model.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockCommunityRepository) DeleteFollow(ctx context.Context, followerID, followedID int) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockCommunityRepository) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) GetFollowers(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockCommunityRepository) GetFollowing(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) Create(ctx context.Context, pet *model.Pet) error {
	args := m.Called(ctx, pet)
	return args.Error(0)
}

func (m *MockPetRepository) FindByID(ctx context.Context, id int) (*model.Pet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Pet), args.Error(1)
}

func (m *MockPetRepository) ListByOwner(ctx context.Context, ownerID int) ([]*model.Pet, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*model.Pet), args.Error(1)
}

func (m *MockPetRepository) Update(ctx context.Context, pet *model.Pet) error {
	args := m.Called(ctx, pet)
	return args.Error(0)
}

func (m *MockPetRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPetRepository) SetMedicalVerified(ctx context.Context, petID int, verified bool) error {
	args := m.Called(ctx, petID, verified)
	return args.Error(0)
}

func (m *MockPetRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByReceiver(ctx context.Context, receiverID, page, pageSize int) ([]*model.Notification, error) {
	args := m.Called(ctx, receiverID, page, pageSize)
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, receiverID int) error {
	args := m.Called(ctx, id, receiverID)
	return args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateChatRoom(ctx context.Context, room *model.ChatRoom) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockChatRepository) GetChatRoomByID(ctx context.Context, id int) (*model.ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) FindDirectRoom(ctx context.Context, userA, userB int) (*model.ChatRoom, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) ListRoomsByUser(ctx context.Context, userID int) ([]*model.ChatRoom, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.ChatRoom), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, roomID, page, pageSize int) ([]*model.Message, error) {
	args := m.Called(ctx, roomID, page, pageSize)
	return args.Get(0).([]*model.Message), args.Error(1)
}

type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, doc *model.VerificationDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindByID(ctx context.Context, id int) (*model.VerificationDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationDocument), args.Error(1)
}

func (m *MockVerificationRepository) ListByUser(ctx context.Context, userID int) ([]*model.VerificationDocument, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.VerificationDocument), args.Error(1)
}

func (m *MockVerificationRepository) ListPending(ctx context.Context, page, pageSize int) ([]*model.VerificationDocument, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*model.VerificationDocument), args.Int(1), args.Error(2)
}

func (m *MockVerificationRepository) UpdateReview(ctx context.Context, doc *model.VerificationDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) Create(ctx context.Context, clinic *model.VetClinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *MockClinicRepository) FindByID(ctx context.Context, id int) (*model.VetClinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VetClinic), args.Error(1)
}

func (m *MockClinicRepository) List(ctx context.Context, city string, page, pageSize int) ([]*model.VetClinic, int, error) {
	args := m.Called(ctx, city, page, pageSize)
	return args.Get(0).([]*model.VetClinic), args.Int(1), args.Error(2)
}

func (m *MockClinicRepository) Update(ctx context.Context, clinic *model.VetClinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *MockClinicRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotifier 记录收到的通知
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(email, username string) error {
	args := m.Called(email, username)
	return args.Error(0)
}

func (m *MockMailer) SendNotificationEmail(to, subject, body string) {
	m.Called(to, subject, body)
}

func (m *MockMailer) SendPasswordResetEmail(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockMailer) VerifyPasswordResetToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockMailer) VerifyEmailToken(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

var (
	_ interfaces.UserRepository         = (*MockUserRepository)(nil)
	_ interfaces.AdoptionRepository     = (*MockAdoptionRepository)(nil)
	_ interfaces.CommunityRepository    = (*MockCommunityRepository)(nil)
	_ interfaces.PetRepository          = (*MockPetRepository)(nil)
	_ interfaces.NotificationRepository = (*MockNotificationRepository)(nil)
	_ interfaces.ChatRepository         = (*MockChatRepository)(nil)
	_ interfaces.VerificationRepository = (*MockVerificationRepository)(nil)
	_ interfaces.ClinicRepository       = (*MockClinicRepository)(nil)
	_ Notifier                          = (*MockNotifier)(nil)
	_ Mailer                            = (*MockMailer)(nil)
)
