package model

import "time"

type DocumentType string

const (
	DocumentIdentity   DocumentType = "IDENTITY"
	DocumentVetLicense DocumentType = "VET_LICENSE"
	DocumentPetMedical DocumentType = "PET_MEDICAL"
)

// Valid 判断文件类型是否合法
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentIdentity, DocumentVetLicense, DocumentPetMedical:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// VerificationDocument 用户上传的认证材料
type VerificationDocument struct {
	ID         int            `json:"id"`
	UserID     int            `json:"user_id"`
	PetID      *int           `json:"pet_id,omitempty"`
	Type       DocumentType   `json:"type"`
	FileURL    string         `json:"file_url"`
	Status     DocumentStatus `json:"status"`
	ReviewerID *int           `json:"reviewer_id,omitempty"`
	ReviewNote string         `json:"review_note,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	User       *User          `json:"user,omitempty"`
}
