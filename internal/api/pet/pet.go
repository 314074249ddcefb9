package pet

import (
	"context"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/storage"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	CreatePet(ctx context.Context, ownerID int, pet *model.Pet) error
	GetPet(ctx context.Context, id int) (*model.Pet, error)
	ListByOwner(ctx context.Context, ownerID int) ([]*model.Pet, error)
	UpdatePet(ctx context.Context, userID int, update *model.Pet) (*model.Pet, error)
	UpdatePhoto(ctx context.Context, userID, petID int, photoURL string) (*model.Pet, error)
	DeletePet(ctx context.Context, userID, petID int) error
}

type PetHandler struct {
	petService Service
	storage    storage.Storage
}

func NewPetHandler(petService Service, storage storage.Storage) *PetHandler {
	return &PetHandler{petService: petService, storage: storage}
}

type petRequest struct {
	Name      string     `json:"name" binding:"required,max=100"`
	Species   string     `json:"species" binding:"required,max=50"`
	Breed     string     `json:"breed" binding:"max=100"`
	Gender    string     `json:"gender" binding:"omitempty,oneof=MALE FEMALE UNKNOWN"`
	BirthDate *time.Time `json:"birth_date" binding:"omitempty,past_date"`
	Bio       string     `json:"bio" binding:"max=1000"`
}

func (r petRequest) toModel() *model.Pet {
	return &model.Pet{
		Name:      r.Name,
		Species:   r.Species,
		Breed:     r.Breed,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		Bio:       r.Bio,
	}
}

func (h *PetHandler) CreatePet(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	pet := req.toModel()
	if err := h.petService.CreatePet(c.Request.Context(), userID, pet); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, pet, "Pet profile created")
}

func (h *PetHandler) GetPet(c *gin.Context) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	pet, err := h.petService.GetPet(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, pet, "")
}

// ListPets 默认列出自己的宠物，带 owner_id 时列出他人的
func (h *PetHandler) ListPets(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	ownerID := userID
	if c.Query("owner_id") != "" {
		var q struct {
			OwnerID int `form:"owner_id" binding:"min=1"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			apiutil.BindError(c, err)
			return
		}
		ownerID = q.OwnerID
	}

	pets, err := h.petService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, pets, "")
}

func (h *PetHandler) UpdatePet(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	update := req.toModel()
	update.ID = id
	pet, err := h.petService.UpdatePet(c.Request.Context(), userID, update)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, pet, "Pet profile updated")
}

func (h *PetHandler) UploadPhoto(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "photo file is required", err))
		return
	}
	if !util.IsAllowedUpload(file.Filename) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "unsupported file type"))
		return
	}

	// 先确认宠物存在，避免为不存在的宠物上传文件
	if _, err := h.petService.GetPet(c.Request.Context(), id); err != nil {
		errors.HandleError(c, err)
		return
	}

	url, err := h.storage.UploadFile(c.Request.Context(), file, storage.ObjectKey("pets", id, file.Filename))
	if err != nil {
		util.Logger.Error("上传宠物照片失败", zap.Error(err), zap.Int("pet_id", id))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "failed to upload photo", err))
		return
	}

	pet, err := h.petService.UpdatePhoto(c.Request.Context(), userID, id, url)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, pet, "Pet photo uploaded")
}

func (h *PetHandler) DeletePet(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.petService.DeletePet(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Pet profile deleted")
}
