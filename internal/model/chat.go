package model

import "time"

type ChatRoomType string

const (
	ChatRoomDirect   ChatRoomType = "DIRECT"
	ChatRoomAdoption ChatRoomType = "ADOPTION"
)

type ChatRoom struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Type           ChatRoomType `json:"type"`
	ParticipantIDs []int        `json:"participant_ids"`
	CreatedAt      time.Time    `json:"created_at"`
	LastMessage    *Message     `json:"last_message,omitempty"`
}

// HasParticipant 判断用户是否在聊天室中
func (r *ChatRoom) HasParticipant(userID int) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID         int       `json:"id"`
	ChatRoomID int       `json:"chat_room_id"`
	SenderID   int       `json:"sender_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
