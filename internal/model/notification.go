package model

import "time"

type NotificationType string

const (
	NotificationAdoptionApplication NotificationType = "ADOPTION_APPLICATION"
	NotificationAdoptionApproved    NotificationType = "ADOPTION_APPROVED"
	NotificationAdoptionRejected    NotificationType = "ADOPTION_REJECTED"
	NotificationComment             NotificationType = "COMMENT"
	NotificationReaction            NotificationType = "REACTION"
	NotificationFollow              NotificationType = "FOLLOW"
	NotificationMessage             NotificationType = "MESSAGE"
	NotificationVerification        NotificationType = "VERIFICATION"
)

// Notification 通知记录，EntityID/EntityType 指回触发实体
type Notification struct {
	ID         int              `json:"id"`
	ReceiverID int              `json:"receiver_id"`
	SenderID   int              `json:"sender_id"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	EntityID   *int             `json:"entity_id,omitempty"`
	EntityType string           `json:"entity_type,omitempty"`
	IsRead     bool             `json:"is_read"`
	CreatedAt  time.Time        `json:"created_at"`
}
