package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

// dbtx 由 *sql.DB 与 *sql.Tx 共同实现
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx 在事务中执行 fn，fn 出错或 panic 时回滚
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				util.Logger.Error("回滚事务失败", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// placeholders 生成 "?, ?, ?" 与对应参数
func placeholders[T any](values []T) (string, []interface{}) {
	marks := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		marks[i] = "?"
		args[i] = v
	}
	return strings.Join(marks, ", "), args
}

func offsetOf(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.avatar_url, u.bio, u.role,
	u.verification_level, u.is_email_verified, u.created_at, u.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AvatarURL, &user.Bio,
		&user.Role, &user.VerificationLevel, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
