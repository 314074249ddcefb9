package mysql

import (
	"context"
	"database/sql"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	var entityType sql.NullString
	if n.EntityType != "" {
		entityType = sql.NullString{String: n.EntityType, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (receiver_id, sender_id, type, message, entity_id, entity_type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, NOW())`,
		n.ReceiverID, n.SenderID, n.Type, n.Message, n.EntityID, entityType)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = int(id)
	return nil
}

func (r *notificationRepository) ListByReceiver(ctx context.Context, receiverID, page, pageSize int) ([]*model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, receiver_id, sender_id, type, message, entity_id, entity_type, is_read, created_at
		FROM notifications WHERE receiver_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		receiverID, pageSize, offsetOf(page, pageSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Notification
	for rows.Next() {
		var n model.Notification
		var entityType sql.NullString
		if err := rows.Scan(&n.ID, &n.ReceiverID, &n.SenderID, &n.Type, &n.Message,
			&n.EntityID, &entityType, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.EntityType = entityType.String
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, receiverID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND receiver_id = ?`, id, receiverID)
	return err
}
