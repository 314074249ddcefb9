package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

// CommunityRepository 定义了社区相关的数据库操作接口
type CommunityRepository interface {
	CreatePost(ctx context.Context, post *model.Post, images []string) error
	GetPostByID(ctx context.Context, id int) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id int) error
	CountPosts(ctx context.Context) (int, error)
	// ListFeedCandidates 按创建时间倒序取帖子，附带作者、作者粉丝集合、表情数与评论数
	ListFeedCandidates(ctx context.Context, offset, limit int) ([]*model.Post, error)
	GetUserPosts(ctx context.Context, userID, page, pageSize int) ([]*model.Post, int, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id int) (*model.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID, page, pageSize int) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id int) error

	UpsertReaction(ctx context.Context, reaction *model.Reaction) error
	DeleteReaction(ctx context.Context, userID, postID int) error

	CreateFollow(ctx context.Context, follow *model.Follow) error
	DeleteFollow(ctx context.Context, followerID, followedID int) error
	IsFollowing(ctx context.Context, followerID, followedID int) (bool, error)
	GetFollowers(ctx context.Context, userID, page, pageSize int) ([]*model.User, error)
	GetFollowing(ctx context.Context, userID, page, pageSize int) ([]*model.User, error)
}
