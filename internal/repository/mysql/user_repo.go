package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

// Create 创建一个新用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.VerificationLevel == "" {
		user.VerificationLevel = model.LevelBasic
	}
	query := `INSERT INTO users (username, email, password_hash, avatar_url, bio, role, verification_level, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash,
		user.AvatarURL, user.Bio, user.Role, user.VerificationLevel)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("email", user.Email))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

func (r *userRepository) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + where
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx, "u.id = ?", id)
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "u.email = ?", email)
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "u.username = ?", username)
}

// Update 更新用户资料
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username = ?, email = ?, avatar_url = ?, bio = ?, updated_at = NOW()
		WHERE id = ?`,
		user.Username, user.Email, user.AvatarURL, user.Bio, user.ID)
	return err
}

// UpdatePassword 只更新密码哈希
func (r *userRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = NOW() WHERE id = ?`, passwordHash, userID)
	if err != nil {
		util.Logger.Error("更新密码失败", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}

func (r *userRepository) UpdateVerificationLevel(ctx context.Context, userID int, level model.VerificationLevel) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET verification_level = ?, updated_at = NOW() WHERE id = ?`, level, userID)
	if err != nil {
		util.Logger.Error("更新认证等级失败", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	util.Logger.Info("认证等级已更新", zap.Int("user_id", userID), zap.String("level", string(level)))
	return nil
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_email_verified = TRUE, updated_at = NOW() WHERE id = ?`, userID)
	return err
}

// Count 获取用户总数
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// FindAll 分页获取用户列表
func (r *userRepository) FindAll(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u ORDER BY u.id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offsetOf(page, pageSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
