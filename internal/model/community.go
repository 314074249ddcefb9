package model

import "time"

type Post struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	PetID         *int      `json:"pet_id,omitempty"`
	Content       string    `json:"content"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          *User     `json:"user,omitempty"`
	ReactionCount int       `json:"reaction_count"`
	CommentCount  int       `json:"comment_count"`
}

// RankedPost 是信息流返回的投影，不落库
type RankedPost struct {
	*Post
	EngagementScore float64 `json:"engagement_score"`
	IsVerified      bool    `json:"is_verified"`
	IsFollowing     bool    `json:"is_following"`
}

// FeedPage 一页排序后的信息流
type FeedPage struct {
	Posts   []*RankedPost `json:"posts"`
	HasMore bool          `json:"has_more"`
}

type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `json:"user,omitempty"`
}

type ReactionType string

const (
	ReactionLike ReactionType = "LIKE"
	ReactionLove ReactionType = "LOVE"
	ReactionHaha ReactionType = "HAHA"
	ReactionWow  ReactionType = "WOW"
	ReactionSad  ReactionType = "SAD"
)

// Valid 判断表情类型是否合法
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad:
		return true
	}
	return false
}

type Reaction struct {
	ID        int          `json:"id"`
	UserID    int          `json:"user_id"`
	PostID    int          `json:"post_id"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id"`
	FollowedID int       `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
