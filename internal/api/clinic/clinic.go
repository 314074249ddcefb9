package clinic

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/gin-gonic/gin"
)

type Service interface {
	List(ctx context.Context, city string, page, pageSize int) ([]*model.VetClinic, int, error)
	Get(ctx context.Context, id int) (*model.VetClinic, error)
	Create(ctx context.Context, adminID int, clinic *model.VetClinic) error
	Update(ctx context.Context, adminID int, clinic *model.VetClinic) (*model.VetClinic, error)
	Delete(ctx context.Context, adminID, id int) error
}

type ClinicHandler struct {
	clinicService Service
}

func NewClinicHandler(clinicService Service) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

type clinicRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Address     string `json:"address" binding:"max=255"`
	City        string `json:"city" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Website     string `json:"website" binding:"omitempty,url"`
	Description string `json:"description"`
	IsVerified  bool   `json:"is_verified"`
}

func (r clinicRequest) toModel() *model.VetClinic {
	return &model.VetClinic{
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		Phone:       r.Phone,
		Email:       r.Email,
		Website:     r.Website,
		Description: r.Description,
		IsVerified:  r.IsVerified,
	}
}

// List 公开的诊所列表，可按城市过滤
func (h *ClinicHandler) List(c *gin.Context) {
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	clinics, total, err := h.clinicService.List(c.Request.Context(), c.Query("city"), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, apiutil.Paged{Items: clinics, Total: total, Page: page, PageSize: pageSize}, "")
}

func (h *ClinicHandler) Get(c *gin.Context) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	clinic, err := h.clinicService.Get(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, clinic, "")
}

func (h *ClinicHandler) Create(c *gin.Context) {
	adminID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}
	clinic := req.toModel()
	if err := h.clinicService.Create(c.Request.Context(), adminID, clinic); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, clinic, "Clinic created")
}

func (h *ClinicHandler) Update(c *gin.Context) {
	adminID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}
	update := req.toModel()
	update.ID = id
	clinic, err := h.clinicService.Update(c.Request.Context(), adminID, update)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, clinic, "Clinic updated")
}

func (h *ClinicHandler) Delete(c *gin.Context) {
	adminID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.clinicService.Delete(c.Request.Context(), adminID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Clinic deleted")
}
