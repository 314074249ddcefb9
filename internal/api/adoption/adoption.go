package adoption

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service 领养相关的业务接口
type Service interface {
	Submit(ctx context.Context, applicantID, adoptionPostID int, message string) (*model.SubmittedApplication, error)
	UpdateStatus(ctx context.Context, actingOwnerID, applicationID int, status model.ApplicationStatus, rejectionReason *string) (*model.AdoptionApplication, error)
	CreatePost(ctx context.Context, authorID int, post *model.AdoptionPost) error
	GetPost(ctx context.Context, id int) (*model.AdoptionPost, error)
	ListActivePosts(ctx context.Context, page, pageSize int) ([]*model.AdoptionPost, int, error)
	ClosePost(ctx context.Context, userID, postID int) error
	ListApplicationsForPost(ctx context.Context, userID, postID int) ([]*model.AdoptionApplication, error)
	ListMyApplications(ctx context.Context, applicantID int) ([]*model.AdoptionApplication, error)
}

type AdoptionHandler struct {
	adoptionService Service
}

func NewAdoptionHandler(adoptionService Service) *AdoptionHandler {
	return &AdoptionHandler{adoptionService: adoptionService}
}

func (h *AdoptionHandler) CreatePost(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}

	var req struct {
		PetID       *int   `json:"pet_id"`
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required"`
		Location    string `json:"location" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	post := &model.AdoptionPost{
		PetID:       req.PetID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	}
	if err := h.adoptionService.CreatePost(c.Request.Context(), userID, post); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, post, "Adoption post created")
}

func (h *AdoptionHandler) GetPost(c *gin.Context) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	post, err := h.adoptionService.GetPost(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, post, "")
}

func (h *AdoptionHandler) ListPosts(c *gin.Context) {
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	posts, total, err := h.adoptionService.ListActivePosts(c.Request.Context(), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, apiutil.Paged{Items: posts, Total: total, Page: page, PageSize: pageSize}, "")
}

func (h *AdoptionHandler) ClosePost(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.adoptionService.ClosePost(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Adoption post closed")
}

// Apply 提交领养申请，同时创建与宠物主人的聊天室
func (h *AdoptionHandler) Apply(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	postID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"max=2000"`
	}
	if !apiutil.BindOptionalJSON(c, &req) {
		return
	}

	result, err := h.adoptionService.Submit(c.Request.Context(), userID, postID, req.Message)
	if err != nil {
		util.Logger.Info("领养申请被拒绝",
			zap.Int("user_id", userID),
			zap.Int("adoption_post_id", postID),
			zap.Int("code", int(errors.CodeOf(err))))
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, result, "Adoption application submitted successfully")
}

func (h *AdoptionHandler) ListApplications(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	postID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	applications, err := h.adoptionService.ListApplicationsForPost(c.Request.Context(), userID, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, applications, "")
}

func (h *AdoptionHandler) ListMyApplications(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	applications, err := h.adoptionService.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, applications, "")
}

// UpdateApplicationStatus 宠物主人批准或拒绝申请
func (h *AdoptionHandler) UpdateApplicationStatus(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	applicationID, ok := apiutil.ParamID(c, "applicationId")
	if !ok {
		return
	}

	var req struct {
		Status          model.ApplicationStatus `json:"status" binding:"required,oneof=APPROVED REJECTED"`
		RejectionReason *string                 `json:"rejectionReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	application, err := h.adoptionService.UpdateStatus(c.Request.Context(), userID, applicationID, req.Status, req.RejectionReason)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	message := "Application approved successfully"
	if application.Status == model.ApplicationRejected {
		message = "Application rejected successfully"
	}
	errors.HandleSuccess(c, application, message)
}
