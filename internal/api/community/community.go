package community

import (
	"context"
	"mime/multipart"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/storage"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxPostImages = 10

// Service 帖子、评论、表情与关注
type Service interface {
	CreatePost(ctx context.Context, post *model.Post, images []string) error
	GetPostByID(ctx context.Context, id int) (*model.Post, error)
	UpdatePost(ctx context.Context, userID, postID int, content string) (*model.Post, error)
	DeletePost(ctx context.Context, userID, postID int) error
	GetUserPosts(ctx context.Context, userID, page, pageSize int) ([]*model.Post, int, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentsByPostID(ctx context.Context, postID, page, pageSize int) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int) error
	React(ctx context.Context, userID, postID int, reactionType model.ReactionType) error
	RemoveReaction(ctx context.Context, userID, postID int) error
	Follow(ctx context.Context, followerID, followedID int) error
	Unfollow(ctx context.Context, followerID, followedID int) error
	GetFollowers(ctx context.Context, userID, page, pageSize int) ([]*model.User, error)
	GetFollowing(ctx context.Context, userID, page, pageSize int) ([]*model.User, error)
}

// FeedService 排序后的信息流
type FeedService interface {
	GetFeed(ctx context.Context, viewerID, page, pageSize int) (*model.FeedPage, error)
}

type CommunityHandler struct {
	communityService Service
	feedService      FeedService
	storage          storage.Storage
}

func NewCommunityHandler(communityService Service, feedService FeedService, storage storage.Storage) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
		feedService:      feedService,
		storage:          storage,
	}
}

// CreatePost 支持 JSON 或带 images[] 的 multipart 表单
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" form:"content" binding:"max=5000"`
		PetID   *int   `json:"pet_id" form:"pet_id"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["images[]"]
	}
	if len(files) > maxPostImages {
		errors.HandleError(c, errors.New(errors.ErrValidation, "too many images"))
		return
	}

	images := make([]string, 0, len(files))
	for _, file := range files {
		if !util.IsAllowedUpload(file.Filename) {
			errors.HandleError(c, errors.New(errors.ErrValidation, "unsupported file type"))
			return
		}
		url, err := h.storage.UploadFile(c.Request.Context(), file, storage.ObjectKey("posts", userID, file.Filename))
		if err != nil {
			util.Logger.Error("图片上传失败", zap.Error(err), zap.Int("user_id", userID))
			errors.HandleError(c, errors.Wrap(errors.ErrStorage, "failed to upload image", err))
			return
		}
		images = append(images, url)
	}

	post := &model.Post{UserID: userID, PetID: req.PetID, Content: req.Content}
	if err := h.communityService.CreatePost(c.Request.Context(), post, images); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, post, "Post created")
}

func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	post, err := h.communityService.GetPostByID(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "")
}

func (h *CommunityHandler) UpdatePost(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	post, err := h.communityService.UpdatePost(c.Request.Context(), userID, id, req.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "Post updated")
}

func (h *CommunityHandler) DeletePost(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.communityService.DeletePost(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Post deleted")
}

func (h *CommunityHandler) GetUserPosts(c *gin.Context) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	posts, total, err := h.communityService.GetUserPosts(c.Request.Context(), id, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, apiutil.Paged{Items: posts, Total: total, Page: page, PageSize: pageSize}, "")
}
