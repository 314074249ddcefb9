package model

import "time"

// AdoptionPost 领养帖，批准某个申请后 IsActive 变为 false
type AdoptionPost struct {
	ID          int       `json:"id"`
	AuthorID    int       `json:"author_id"`
	PetID       *int      `json:"pet_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Pet         *Pet      `json:"pet,omitempty"`
	Author      *User     `json:"author,omitempty"`
}

// OwnerID 实现 policy.Resource
func (p *AdoptionPost) OwnerID() int { return p.AuthorID }

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// IsTerminal APPROVED 与 REJECTED 都不能再迁移
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// AdoptionApplication 领养申请
type AdoptionApplication struct {
	ID              int               `json:"id"`
	AdoptionPostID  int               `json:"adoption_post_id"`
	ApplicantID     int               `json:"applicant_id"`
	PetOwnerID      int               `json:"pet_owner_id"`
	ChatRoomID      *int              `json:"chat_room_id,omitempty"`
	Message         string            `json:"message"`
	Status          ApplicationStatus `json:"status"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Applicant       *User             `json:"applicant,omitempty"`
}

// OwnerID 实现 policy.Resource，申请由宠物主人处理
func (a *AdoptionApplication) OwnerID() int { return a.PetOwnerID }

// SubmittedApplication 提交申请的返回结果
type SubmittedApplication struct {
	Application *AdoptionApplication `json:"application"`
	ChatRoomID  int                  `json:"chat_room_id"`
}
