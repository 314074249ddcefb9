package adoption

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAdoptionService struct {
	mock.Mock
}

func (m *MockAdoptionService) Submit(ctx context.Context, applicantID, adoptionPostID int, message string) (*model.SubmittedApplication, error) {
	args := m.Called(ctx, applicantID, adoptionPostID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmittedApplication), args.Error(1)
}

func (m *MockAdoptionService) UpdateStatus(ctx context.Context, actingOwnerID, applicationID int, status model.ApplicationStatus, rejectionReason *string) (*model.AdoptionApplication, error) {
	args := m.Called(ctx, actingOwnerID, applicationID, status, rejectionReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionService) CreatePost(ctx context.Context, authorID int, post *model.AdoptionPost) error {
	return m.Called(ctx, authorID, post).Error(0)
}

func (m *MockAdoptionService) GetPost(ctx context.Context, id int) (*model.AdoptionPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdoptionPost), args.Error(1)
}

func (m *MockAdoptionService) ListActivePosts(ctx context.Context, page, pageSize int) ([]*model.AdoptionPost, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]*model.AdoptionPost), args.Int(1), args.Error(2)
}

func (m *MockAdoptionService) ClosePost(ctx context.Context, userID, postID int) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockAdoptionService) ListApplicationsForPost(ctx context.Context, userID, postID int) ([]*model.AdoptionApplication, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).([]*model.AdoptionApplication), args.Error(1)
}

func (m *MockAdoptionService) ListMyApplications(ctx context.Context, applicantID int) ([]*model.AdoptionApplication, error) {
	args := m.Called(ctx, applicantID)
	return args.Get(0).([]*model.AdoptionApplication), args.Error(1)
}

var _ Service = (*MockAdoptionService)(nil)

func setupRouter(svc Service, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAdoptionHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	})
	router.POST("/api/adoptions/:id/applications", handler.Apply)
	router.PATCH("/api/applications/:applicationId/status", handler.UpdateApplicationStatus)
	router.GET("/api/adoptions", handler.ListPosts)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestApply(t *testing.T) {
	svc := new(MockAdoptionService)
	router := setupRouter(svc, 2)

	appID := 5
	svc.On("Submit", mock.Anything, 2, 10, "I have a big garden").Return(&model.SubmittedApplication{
		Application: &model.AdoptionApplication{ID: appID, Status: model.ApplicationPending},
		ChatRoomID:  9,
	}, nil).Once()

	w := doJSON(router, http.MethodPost, "/api/adoptions/10/applications", `{"message":"I have a big garden"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ChatRoomID int `json:"chat_room_id"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 9, resp.Data.ChatRoomID)

	svc.On("Submit", mock.Anything, 2, 11, "").
		Return(nil, errors.New(errors.ErrNotVerified, "You must be verified to apply for adoption")).Once()
	w = doJSON(router, http.MethodPost, "/api/adoptions/11/applications", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be verified")

	svc.On("Submit", mock.Anything, 2, 12, "").
		Return(nil, errors.New(errors.ErrAdoptionPostNotFound, "adoption post not found")).Once()
	w = doJSON(router, http.MethodPost, "/api/adoptions/12/applications", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestApplyWithoutBody(t *testing.T) {
	svc := new(MockAdoptionService)
	router := setupRouter(svc, 2)

	svc.On("Submit", mock.Anything, 2, 12, "").Return(&model.SubmittedApplication{
		Application: &model.AdoptionApplication{ID: 6, Status: model.ApplicationPending},
		ChatRoomID:  3,
	}, nil).Once()

	w := doJSON(router, http.MethodPost, "/api/adoptions/12/applications", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// 非空但格式错误的请求体仍然返回 400
	w = doJSON(router, http.MethodPost, "/api/adoptions/12/applications", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestApplyRequiresAuthentication(t *testing.T) {
	svc := new(MockAdoptionService)
	router := setupRouter(svc, 0)

	w := doJSON(router, http.MethodPost, "/api/adoptions/10/applications", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateApplicationStatus(t *testing.T) {
	svc := new(MockAdoptionService)
	router := setupRouter(svc, 1)

	svc.On("UpdateStatus", mock.Anything, 1, 5, model.ApplicationApproved, (*string)(nil)).
		Return(&model.AdoptionApplication{ID: 5, Status: model.ApplicationApproved}, nil).Once()

	w := doJSON(router, http.MethodPatch, "/api/applications/5/status", `{"status":"APPROVED"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "approved successfully")

	reason := "Not a good fit"
	svc.On("UpdateStatus", mock.Anything, 1, 6, model.ApplicationRejected, &reason).
		Return(&model.AdoptionApplication{ID: 6, Status: model.ApplicationRejected, RejectionReason: &reason}, nil).Once()
	w = doJSON(router, http.MethodPatch, "/api/applications/6/status", `{"status":"REJECTED","rejectionReason":"Not a good fit"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rejected successfully")

	svc.On("UpdateStatus", mock.Anything, 1, 7, model.ApplicationApproved, (*string)(nil)).
		Return(nil, errors.New(errors.ErrApplicationNotFound, "application not found or not permitted")).Once()
	w = doJSON(router, http.MethodPatch, "/api/applications/7/status", `{"status":"APPROVED"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestUpdateApplicationStatusRejectsBadInput(t *testing.T) {
	svc := new(MockAdoptionService)
	router := setupRouter(svc, 1)

	for _, body := range []string{`{}`, `{"status":"PENDING"}`, `{"status":"approved"}`} {
		w := doJSON(router, http.MethodPatch, "/api/applications/5/status", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	w := doJSON(router, http.MethodPatch, "/api/applications/abc/status", `{"status":"APPROVED"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPosts(t *testing.T) {
	svc := new(MockAdoptionService)
	router := setupRouter(svc, 0)

	svc.On("ListActivePosts", mock.Anything, 2, 5).
		Return([]*model.AdoptionPost{{ID: 1, Title: "Milo", IsActive: true}}, 6, nil)

	w := doJSON(router, http.MethodGet, "/api/adoptions?page=2&limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":6`)
}
