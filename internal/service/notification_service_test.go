package service

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotifyEmailsAdoptionOutcome(t *testing.T) {
	repo := new(MockNotificationRepository)
	users := new(MockUserRepository)
	mailer := new(MockMailer)
	service := NewNotificationService(repo, users, mailer, nil)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Notification")).Return(nil)
	users.On("FindByID", mock.Anything, 2).Return(&model.User{ID: 2, Username: "alice", Email: "alice@example.com"}, nil)
	mailer.On("SendNotificationEmail", "alice@example.com", "Your adoption application was approved", mock.Anything).Return()

	err := service.Notify(ctxBG(), &model.Notification{
		ReceiverID: 2,
		SenderID:   1,
		Type:       model.NotificationAdoptionApproved,
		Message:    "approved",
	})
	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestNotifyEscapesEmailBody(t *testing.T) {
	repo := new(MockNotificationRepository)
	users := new(MockUserRepository)
	mailer := new(MockMailer)
	service := NewNotificationService(repo, users, mailer, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("FindByID", mock.Anything, 2).Return(&model.User{ID: 2, Username: "<b>alice</b>", Email: "alice@example.com"}, nil)
	mailer.On("SendNotificationEmail", "alice@example.com", "New adoption application",
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") &&
				strings.Contains(body, "Hi &lt;b&gt;alice&lt;/b&gt;") &&
				!strings.Contains(body, "<script>")
		})).Return()

	err := service.Notify(ctxBG(), &model.Notification{
		ReceiverID: 2,
		SenderID:   3,
		Type:       model.NotificationAdoptionApplication,
		Message:    "<script>alert(1)</script> wants to adopt Mochi",
	})
	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestNotifyDoesNotEmailSocialEvents(t *testing.T) {
	repo := new(MockNotificationRepository)
	users := new(MockUserRepository)
	mailer := new(MockMailer)
	service := NewNotificationService(repo, users, mailer, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := service.Notify(ctxBG(), &model.Notification{ReceiverID: 2, Type: model.NotificationReaction})
	assert.NoError(t, err)
	mailer.AssertNotCalled(t, "SendNotificationEmail", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestNotifyStoreFailure(t *testing.T) {
	repo := new(MockNotificationRepository)
	service := NewNotificationService(repo, new(MockUserRepository), nil, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(stderrors.New("db down"))

	err := service.Notify(ctxBG(), &model.Notification{ReceiverID: 2, Type: model.NotificationFollow})
	assert.True(t, errors.Is(err, errors.ErrDatabase))

	err = service.Notify(ctxBG(), &model.Notification{Type: model.NotificationFollow})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
