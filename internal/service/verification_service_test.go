package service

import (
	"testing"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const adminID = 50

func newVerificationFixture() (*VerificationService, *MockVerificationRepository, *MockUserRepository, *MockPetRepository, *MockNotifier) {
	repo := new(MockVerificationRepository)
	users := new(MockUserRepository)
	pets := new(MockPetRepository)
	notifier := new(MockNotifier)
	users.On("FindByID", mock.Anything, adminID).Return(&model.User{ID: adminID, Role: model.RoleAdmin}, nil)
	return NewVerificationService(repo, users, pets, notifier, nil), repo, users, pets, notifier
}

func TestSubmitMedicalDocumentRequiresOwnPet(t *testing.T) {
	service, repo, _, pets, _ := newVerificationFixture()

	_, err := service.Submit(ctxBG(), 1, model.DocumentPetMedical, nil, "https://files/x.pdf")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	petID := 8
	pets.On("FindByID", mock.Anything, petID).Return(&model.Pet{ID: petID, OwnerID: 2}, nil)
	_, err = service.Submit(ctxBG(), 1, model.DocumentPetMedical, &petID, "https://files/x.pdf")
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.VerificationDocument")).Return(nil)
	doc, err := service.Submit(ctxBG(), 2, model.DocumentPetMedical, &petID, "https://files/x.pdf")
	assert.NoError(t, err)
	assert.Equal(t, model.DocumentPending, doc.Status)
}

func TestApproveIdentityRaisesLevel(t *testing.T) {
	service, repo, users, _, notifier := newVerificationFixture()
	doc := &model.VerificationDocument{ID: 1, UserID: 3, Type: model.DocumentIdentity, Status: model.DocumentPending}

	repo.On("FindByID", mock.Anything, 1).Return(doc, nil)
	repo.On("UpdateReview", mock.Anything, doc).Return(nil)
	users.On("FindByID", mock.Anything, 3).Return(&model.User{ID: 3, VerificationLevel: model.LevelBasic}, nil)
	users.On("UpdateVerificationLevel", mock.Anything, 3, model.LevelVerified).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	reviewed, err := service.Review(ctxBG(), adminID, 1, true, "")
	assert.NoError(t, err)
	assert.Equal(t, model.DocumentApproved, reviewed.Status)
	assert.Equal(t, adminID, *reviewed.ReviewerID)
	users.AssertCalled(t, "UpdateVerificationLevel", mock.Anything, 3, model.LevelVerified)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestApproveIdentityNeverLowersLevel(t *testing.T) {
	service, repo, users, _, notifier := newVerificationFixture()
	doc := &model.VerificationDocument{ID: 1, UserID: 3, Type: model.DocumentIdentity, Status: model.DocumentPending}

	repo.On("FindByID", mock.Anything, 1).Return(doc, nil)
	repo.On("UpdateReview", mock.Anything, doc).Return(nil)
	users.On("FindByID", mock.Anything, 3).Return(&model.User{ID: 3, VerificationLevel: model.LevelSuperAdopter}, nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	_, err := service.Review(ctxBG(), adminID, 1, true, "")
	assert.NoError(t, err)
	users.AssertNotCalled(t, "UpdateVerificationLevel", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprovePetMedicalMarksPet(t *testing.T) {
	service, repo, _, pets, notifier := newVerificationFixture()
	petID := 8
	doc := &model.VerificationDocument{ID: 2, UserID: 3, PetID: &petID, Type: model.DocumentPetMedical, Status: model.DocumentPending}

	repo.On("FindByID", mock.Anything, 2).Return(doc, nil)
	repo.On("UpdateReview", mock.Anything, doc).Return(nil)
	pets.On("SetMedicalVerified", mock.Anything, petID, true).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	_, err := service.Review(ctxBG(), adminID, 2, true, "")
	assert.NoError(t, err)
	pets.AssertExpectations(t)
}

func TestRejectDocumentRequiresNoteAndPending(t *testing.T) {
	service, repo, _, _, _ := newVerificationFixture()

	_, err := service.Review(ctxBG(), adminID, 1, false, " ")
	assert.True(t, errors.Is(err, errors.ErrValidation))

	repo.On("FindByID", mock.Anything, 9).Return(&model.VerificationDocument{ID: 9, Status: model.DocumentApproved}, nil)
	_, err = service.Review(ctxBG(), adminID, 9, false, "blurry")
	assert.True(t, errors.Is(err, errors.ErrAlreadyProcessed))
}

func TestReviewRequiresAdmin(t *testing.T) {
	service, _, users, _, _ := newVerificationFixture()
	users.On("FindByID", mock.Anything, 3).Return(&model.User{ID: 3, Role: model.RoleUser}, nil)

	_, err := service.Review(ctxBG(), 3, 1, true, "")
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	err = service.SetUserLevel(ctxBG(), 3, 4, model.LevelVet)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestSetUserLevel(t *testing.T) {
	service, _, users, _, notifier := newVerificationFixture()
	users.On("FindByID", mock.Anything, 4).Return(&model.User{ID: 4}, nil)
	users.On("UpdateVerificationLevel", mock.Anything, 4, model.LevelPurrParent).Return(nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, service.SetUserLevel(ctxBG(), adminID, 4, model.LevelPurrParent))

	err := service.SetUserLevel(ctxBG(), adminID, 4, model.VerificationLevel("GOLD"))
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
