package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

type adoptionRepository struct {
	db *sql.DB
	q  dbtx
}

func NewAdoptionRepository(db *sql.DB) *adoptionRepository {
	return &adoptionRepository{db: db, q: db}
}

// WithTx 已在事务中时直接复用当前事务
func (r *adoptionRepository) WithTx(ctx context.Context, fn func(repo interfaces.AdoptionRepository) error) error {
	if _, inTx := r.q.(*sql.Tx); inTx {
		return fn(r)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&adoptionRepository{db: r.db, q: tx})
	})
}

const adoptionPostColumns = `id, author_id, pet_id, title, description, location, is_active, created_at, updated_at`

func scanAdoptionPost(row rowScanner) (*model.AdoptionPost, error) {
	var post model.AdoptionPost
	err := row.Scan(&post.ID, &post.AuthorID, &post.PetID, &post.Title, &post.Description,
		&post.Location, &post.IsActive, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *adoptionRepository) CreatePost(ctx context.Context, post *model.AdoptionPost) error {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO adoption_posts (author_id, pet_id, title, description, location, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, TRUE, NOW(), NOW())`,
		post.AuthorID, post.PetID, post.Title, post.Description, post.Location)
	if err != nil {
		util.Logger.Error("创建领养帖失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(id)
	post.IsActive = true
	return nil
}

func (r *adoptionRepository) getPost(ctx context.Context, id int, lock bool) (*model.AdoptionPost, error) {
	query := `SELECT ` + adoptionPostColumns + ` FROM adoption_posts WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	post, err := scanAdoptionPost(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

func (r *adoptionRepository) GetPostByID(ctx context.Context, id int) (*model.AdoptionPost, error) {
	return r.getPost(ctx, id, false)
}

func (r *adoptionRepository) LockPost(ctx context.Context, id int) (*model.AdoptionPost, error) {
	return r.getPost(ctx, id, true)
}

func (r *adoptionRepository) ListActivePosts(ctx context.Context, page, pageSize int) ([]*model.AdoptionPost, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM adoption_posts WHERE is_active = TRUE`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT `+adoptionPostColumns+` FROM adoption_posts
		WHERE is_active = TRUE ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		pageSize, offsetOf(page, pageSize))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*model.AdoptionPost
	for rows.Next() {
		post, err := scanAdoptionPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

func (r *adoptionRepository) DeactivatePost(ctx context.Context, id int) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE adoption_posts SET is_active = FALSE, updated_at = NOW() WHERE id = ?`, id)
	return err
}

func (r *adoptionRepository) CountActivePosts(ctx context.Context) (int, error) {
	var total int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM adoption_posts WHERE is_active = TRUE`).Scan(&total)
	return total, err
}

const applicationColumns = `id, adoption_post_id, applicant_id, pet_owner_id, chat_room_id, message, status,
	rejection_reason, created_at, updated_at`

func scanApplication(row rowScanner) (*model.AdoptionApplication, error) {
	var app model.AdoptionApplication
	err := row.Scan(&app.ID, &app.AdoptionPostID, &app.ApplicantID, &app.PetOwnerID, &app.ChatRoomID,
		&app.Message, &app.Status, &app.RejectionReason, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *adoptionRepository) listApplications(ctx context.Context, query string, args ...interface{}) ([]*model.AdoptionApplication, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*model.AdoptionApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *adoptionRepository) CreateApplication(ctx context.Context, app *model.AdoptionApplication) error {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO adoption_applications
			(adoption_post_id, applicant_id, pet_owner_id, chat_room_id, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		app.AdoptionPostID, app.ApplicantID, app.PetOwnerID, app.ChatRoomID, app.Message, app.Status)
	if err != nil {
		util.Logger.Error("创建领养申请失败", zap.Error(err), zap.Int("adoption_post_id", app.AdoptionPostID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = int(id)
	return nil
}

func (r *adoptionRepository) getApplication(ctx context.Context, id int, lock bool) (*model.AdoptionApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	app, err := scanApplication(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

func (r *adoptionRepository) GetApplicationByID(ctx context.Context, id int) (*model.AdoptionApplication, error) {
	return r.getApplication(ctx, id, false)
}

func (r *adoptionRepository) LockApplication(ctx context.Context, id int) (*model.AdoptionApplication, error) {
	return r.getApplication(ctx, id, true)
}

// FindApplications applicantID 或 adoptionPostID 为 0 时不作为过滤条件
func (r *adoptionRepository) FindApplications(ctx context.Context, applicantID, adoptionPostID int, statuses ...model.ApplicationStatus) ([]*model.AdoptionApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE 1 = 1`
	var args []interface{}
	if applicantID > 0 {
		query += ` AND applicant_id = ?`
		args = append(args, applicantID)
	}
	if adoptionPostID > 0 {
		query += ` AND adoption_post_id = ?`
		args = append(args, adoptionPostID)
	}
	if len(statuses) > 0 {
		marks, statusArgs := placeholders(statuses)
		query += fmt.Sprintf(` AND status IN (%s)`, marks)
		args = append(args, statusArgs...)
	}
	query += ` ORDER BY created_at ASC`
	return r.listApplications(ctx, query, args...)
}

func (r *adoptionRepository) ListApplicationsByPost(ctx context.Context, adoptionPostID int) ([]*model.AdoptionApplication, error) {
	return r.FindApplications(ctx, 0, adoptionPostID)
}

func (r *adoptionRepository) ListApplicationsByApplicant(ctx context.Context, applicantID int) ([]*model.AdoptionApplication, error) {
	return r.FindApplications(ctx, applicantID, 0)
}

func (r *adoptionRepository) UpdateApplicationStatus(ctx context.Context, id int, status model.ApplicationStatus, rejectionReason *string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE adoption_applications SET status = ?, rejection_reason = ?, updated_at = NOW()
		WHERE id = ?`, status, rejectionReason, id)
	if err != nil {
		util.Logger.Error("更新申请状态失败", zap.Error(err), zap.Int("application_id", id))
	}
	return err
}

func (r *adoptionRepository) CountPendingApplications(ctx context.Context) (int, error) {
	var total int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM adoption_applications WHERE status = ?`, model.ApplicationPending).Scan(&total)
	return total, err
}

func (r *adoptionRepository) CreateChatRoom(ctx context.Context, room *model.ChatRoom) error {
	return insertChatRoom(ctx, r.q, room)
}
