package community

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		util.RegisterValidators(v)
	}
}

type MockCommunityService struct {
	mock.Mock
}

func (m *MockCommunityService) CreatePost(ctx context.Context, post *model.Post, images []string) error {
	return m.Called(ctx, post, images).Error(0)
}

func (m *MockCommunityService) GetPostByID(ctx context.Context, id int) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockCommunityService) UpdatePost(ctx context.Context, userID, postID int, content string) (*model.Post, error) {
	args := m.Called(ctx, userID, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockCommunityService) DeletePost(ctx context.Context, userID, postID int) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockCommunityService) GetUserPosts(ctx context.Context, userID, page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockCommunityService) CreateComment(ctx context.Context, comment *model.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommunityService) GetCommentsByPostID(ctx context.Context, postID, page, pageSize int) ([]*model.Comment, error) {
	args := m.Called(ctx, postID, page, pageSize)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommunityService) DeleteComment(ctx context.Context, userID, commentID int) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

func (m *MockCommunityService) React(ctx context.Context, userID, postID int, reactionType model.ReactionType) error {
	return m.Called(ctx, userID, postID, reactionType).Error(0)
}

func (m *MockCommunityService) RemoveReaction(ctx context.Context, userID, postID int) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *MockCommunityService) Follow(ctx context.Context, followerID, followedID int) error {
	return m.Called(ctx, followerID, followedID).Error(0)
}

func (m *MockCommunityService) Unfollow(ctx context.Context, followerID, followedID int) error {
	return m.Called(ctx, followerID, followedID).Error(0)
}

func (m *MockCommunityService) GetFollowers(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockCommunityService) GetFollowing(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) GetFeed(ctx context.Context, viewerID, page, pageSize int) (*model.FeedPage, error) {
	args := m.Called(ctx, viewerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedPage), args.Error(1)
}

type memoryStorage struct {
	keys []string
}

func (s *memoryStorage) UploadFile(_ context.Context, _ *multipart.FileHeader, key string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

var (
	_ Service     = (*MockCommunityService)(nil)
	_ FeedService = (*MockFeedService)(nil)
)

func setupRouter(userID int) (*gin.Engine, *MockCommunityService, *MockFeedService, *memoryStorage) {
	svc := new(MockCommunityService)
	feed := new(MockFeedService)
	store := &memoryStorage{}
	handler := NewCommunityHandler(svc, feed, store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	})
	router.GET("/api/feed", handler.GetFeed)
	router.POST("/api/posts", handler.CreatePost)
	router.PUT("/api/posts/:id/reactions", handler.React)
	router.POST("/api/posts/:id/comments", handler.CreateComment)
	router.POST("/api/users/:id/follow", handler.Follow)
	return router, svc, feed, store
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetFeed(t *testing.T) {
	router, _, feed, _ := setupRouter(3)

	page := &model.FeedPage{
		Posts: []*model.RankedPost{
			{Post: &model.Post{ID: 2, Content: "hi"}, EngagementScore: 19.5, IsVerified: true, IsFollowing: true},
		},
		HasMore: true,
	}
	feed.On("GetFeed", mock.Anything, 3, 1, 10).Return(page, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/feed", nil)
	w := serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		HasMore bool `json:"hasMore"`
		Data    []struct {
			ID              int     `json:"id"`
			EngagementScore float64 `json:"engagement_score"`
			IsVerified      bool    `json:"is_verified"`
			IsFollowing     bool    `json:"is_following"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.HasMore)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].ID)
	assert.Equal(t, 19.5, resp.Data[0].EngagementScore)
	assert.True(t, resp.Data[0].IsVerified)
}

func TestGetFeedValidatesPaging(t *testing.T) {
	router, _, feed, _ := setupRouter(3)

	for _, q := range []string{"?page=0", "?limit=0", "?page=x"} {
		req, _ := http.NewRequest(http.MethodGet, "/api/feed"+q, nil)
		assert.Equal(t, http.StatusBadRequest, serve(router, req).Code, q)
	}
	feed.AssertNotCalled(t, "GetFeed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetFeedFailureHasNoData(t *testing.T) {
	router, _, feed, _ := setupRouter(3)
	feed.On("GetFeed", mock.Anything, 3, 2, 5).Return(nil, errors.New(errors.ErrDatabase, "failed to load feed"))

	req, _ := http.NewRequest(http.MethodGet, "/api/feed?page=2&limit=5", nil)
	w := serve(router, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.NotContains(t, w.Body.String(), `"data"`)
}

func TestCreatePostWithImages(t *testing.T) {
	router, svc, _, store := setupRouter(4)
	svc.On("CreatePost", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.UserID == 4 && p.Content == "walkies"
	}), mock.MatchedBy(func(images []string) bool {
		return len(images) == 1 && strings.HasPrefix(images[0], "https://cdn.example.com/posts/4/")
	})).Return(nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("content", "walkies")
	part, _ := writer.CreateFormFile("images[]", "dog.png")
	_, _ = part.Write([]byte("png"))
	_ = writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := serve(router, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, store.keys, 1)
	svc.AssertExpectations(t)
}

func TestCreatePostRejectsUnsupportedFile(t *testing.T) {
	router, svc, _, store := setupRouter(4)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("content", "hi")
	part, _ := writer.CreateFormFile("images[]", "virus.exe")
	_, _ = part.Write([]byte("MZ"))
	_ = writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)
	assert.Empty(t, store.keys)
	svc.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything)
}

func TestReact(t *testing.T) {
	router, svc, _, _ := setupRouter(4)
	svc.On("React", mock.Anything, 4, 8, model.ReactionLove).Return(nil)

	req, _ := http.NewRequest(http.MethodPut, "/api/posts/8/reactions", strings.NewReader(`{"type":"LOVE"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	req, _ = http.NewRequest(http.MethodPut, "/api/posts/8/reactions", strings.NewReader(`{"type":"ANGRY"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)

	svc.AssertNumberOfCalls(t, "React", 1)
}

func TestFollowSelf(t *testing.T) {
	router, svc, _, _ := setupRouter(4)
	svc.On("Follow", mock.Anything, 4, 4).Return(errors.New(errors.ErrSelfFollow, "you cannot follow yourself"))

	req, _ := http.NewRequest(http.MethodPost, "/api/users/4/follow", nil)
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)
}

func TestCreateCommentRequiresContent(t *testing.T) {
	router, svc, _, _ := setupRouter(4)

	req, _ := http.NewRequest(http.MethodPost, "/api/posts/8/comments", strings.NewReader(`{"content":""}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)
	svc.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}
