package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) *verificationRepository {
	return &verificationRepository{db: db}
}

const documentColumns = `id, user_id, pet_id, type, file_url, status, reviewer_id, review_note, created_at, reviewed_at`

func scanDocument(row rowScanner) (*model.VerificationDocument, error) {
	var doc model.VerificationDocument
	var note sql.NullString
	err := row.Scan(&doc.ID, &doc.UserID, &doc.PetID, &doc.Type, &doc.FileURL, &doc.Status,
		&doc.ReviewerID, &note, &doc.CreatedAt, &doc.ReviewedAt)
	if err != nil {
		return nil, err
	}
	doc.ReviewNote = note.String
	return &doc, nil
}

func (r *verificationRepository) Create(ctx context.Context, doc *model.VerificationDocument) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_documents (user_id, pet_id, type, file_url, status, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		doc.UserID, doc.PetID, doc.Type, doc.FileURL, doc.Status)
	if err != nil {
		util.Logger.Error("保存认证材料失败", zap.Error(err), zap.Int("user_id", doc.UserID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	doc.ID = int(id)
	return nil
}

func (r *verificationRepository) FindByID(ctx context.Context, id int) (*model.VerificationDocument, error) {
	doc, err := scanDocument(r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM verification_documents WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (r *verificationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.VerificationDocument, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*model.VerificationDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *verificationRepository) ListByUser(ctx context.Context, userID int) ([]*model.VerificationDocument, error) {
	return r.list(ctx, `SELECT `+documentColumns+` FROM verification_documents
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (r *verificationRepository) ListPending(ctx context.Context, page, pageSize int) ([]*model.VerificationDocument, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verification_documents WHERE status = ?`, model.DocumentPending).Scan(&total); err != nil {
		return nil, 0, err
	}
	docs, err := r.list(ctx, `SELECT `+documentColumns+` FROM verification_documents
		WHERE status = ? ORDER BY created_at ASC LIMIT ? OFFSET ?`,
		model.DocumentPending, pageSize, offsetOf(page, pageSize))
	return docs, total, err
}

func (r *verificationRepository) UpdateReview(ctx context.Context, doc *model.VerificationDocument) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE verification_documents SET status = ?, reviewer_id = ?, review_note = ?, reviewed_at = NOW()
		WHERE id = ?`, doc.Status, doc.ReviewerID, doc.ReviewNote, doc.ID)
	return err
}
