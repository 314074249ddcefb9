package verification

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/storage"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, userID int, docType model.DocumentType, petID *int, fileURL string) (*model.VerificationDocument, error)
	ListMine(ctx context.Context, userID int) ([]*model.VerificationDocument, error)
}

type VerificationHandler struct {
	verificationService Service
	storage             storage.Storage
}

func NewVerificationHandler(verificationService Service, storage storage.Storage) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService, storage: storage}
}

// Submit 上传认证材料（multipart：type、pet_id、file）
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}

	var req struct {
		Type  model.DocumentType `form:"type" binding:"required,document_type"`
		PetID *int               `form:"pet_id" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "document file is required", err))
		return
	}
	if !util.IsAllowedUpload(file.Filename) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "unsupported file type"))
		return
	}

	url, err := h.storage.UploadFile(c.Request.Context(), file, storage.ObjectKey("documents", userID, file.Filename))
	if err != nil {
		util.Logger.Error("上传认证材料失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "failed to upload document", err))
		return
	}

	doc, err := h.verificationService.Submit(c.Request.Context(), userID, req.Type, req.PetID, url)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, doc, "Document submitted for review")
}

func (h *VerificationHandler) ListMine(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	docs, err := h.verificationService.ListMine(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, docs, "")
}
