package interfaces

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

// AdoptionRepository 领养帖与申请的持久化操作。
// WithTx 中传入的 repo 共享同一个事务，fn 返回错误时整体回滚。
type AdoptionRepository interface {
	WithTx(ctx context.Context, fn func(repo AdoptionRepository) error) error

	CreatePost(ctx context.Context, post *model.AdoptionPost) error
	GetPostByID(ctx context.Context, id int) (*model.AdoptionPost, error)
	// LockPost 在事务中以 FOR UPDATE 读取领养帖
	LockPost(ctx context.Context, id int) (*model.AdoptionPost, error)
	ListActivePosts(ctx context.Context, page, pageSize int) ([]*model.AdoptionPost, int, error)
	DeactivatePost(ctx context.Context, id int) error
	CountActivePosts(ctx context.Context) (int, error)

	CreateApplication(ctx context.Context, app *model.AdoptionApplication) error
	GetApplicationByID(ctx context.Context, id int) (*model.AdoptionApplication, error)
	// LockApplication 在事务中以 FOR UPDATE 读取申请
	LockApplication(ctx context.Context, id int) (*model.AdoptionApplication, error)
	FindApplications(ctx context.Context, applicantID, adoptionPostID int, statuses ...model.ApplicationStatus) ([]*model.AdoptionApplication, error)
	ListApplicationsByPost(ctx context.Context, adoptionPostID int) ([]*model.AdoptionApplication, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID int) ([]*model.AdoptionApplication, error)
	UpdateApplicationStatus(ctx context.Context, id int, status model.ApplicationStatus, rejectionReason *string) error
	CountPendingApplications(ctx context.Context) (int, error)

	CreateChatRoom(ctx context.Context, room *model.ChatRoom) error
}
