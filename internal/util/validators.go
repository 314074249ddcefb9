package util

import (
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义验证器
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("future_date", ValidateFutureDate)
	_ = v.RegisterValidation("past_date", ValidatePastDate)
	_ = v.RegisterValidation("verification_level", ValidateVerificationLevel)
	_ = v.RegisterValidation("reaction_type", ValidateReactionType)
	_ = v.RegisterValidation("document_type", ValidateDocumentType)
}

// ValidateFutureDate 验证日期是否在未来
func ValidateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}

// ValidatePastDate 出生日期等不能在未来
func ValidatePastDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.Before(time.Now())
}

func ValidateVerificationLevel(fl validator.FieldLevel) bool {
	return model.VerificationLevel(fl.Field().String()).Valid()
}

func ValidateReactionType(fl validator.FieldLevel) bool {
	return model.ReactionType(fl.Field().String()).Valid()
}

func ValidateDocumentType(fl validator.FieldLevel) bool {
	return model.DocumentType(fl.Field().String()).Valid()
}
