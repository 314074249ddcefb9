package model

import "time"

// Role 用户角色
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// VerificationLevel 用户信任等级，由低到高
type VerificationLevel string

const (
	LevelBasic        VerificationLevel = "BASIC"
	LevelVerified     VerificationLevel = "VERIFIED"
	LevelPurrParent   VerificationLevel = "PURRPARENT"
	LevelSuperAdopter VerificationLevel = "SUPER_ADOPTER"
	LevelVet          VerificationLevel = "VET"
)

var levelRank = map[VerificationLevel]int{
	LevelBasic:        0,
	LevelVerified:     1,
	LevelPurrParent:   2,
	LevelSuperAdopter: 3,
	LevelVet:          4,
}

// Valid 判断等级是否为已知值
func (l VerificationLevel) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// IsVerified 除 BASIC 以外的等级都视为已认证
func (l VerificationLevel) IsVerified() bool {
	return l.Valid() && l != LevelBasic
}

// AtLeast 比较两个等级的高低
func (l VerificationLevel) AtLeast(other VerificationLevel) bool {
	return levelRank[l] >= levelRank[other]
}

// User 结构体表示用户模型
type User struct {
	ID                int               `json:"id"`
	Username          string            `json:"username"`
	Email             string            `json:"email"`
	PasswordHash      string            `json:"-"`
	AvatarURL         string            `json:"avatar_url"`
	Bio               string            `json:"bio"`
	Role              Role              `json:"role"`
	VerificationLevel VerificationLevel `json:"verification_level"`
	IsEmailVerified   bool              `json:"is_email_verified"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// FollowerIDs 只在需要判断关注关系时加载
	FollowerIDs []int `json:"-"`
}

// HasFollower 判断 userID 是否关注了该用户
func (u *User) HasFollower(userID int) bool {
	for _, id := range u.FollowerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
