package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *chatRepository {
	return &chatRepository{db: db}
}

// insertChatRoom 写入聊天室及其参与者，调用方负责事务
func insertChatRoom(ctx context.Context, q dbtx, room *model.ChatRoom) error {
	result, err := q.ExecContext(ctx,
		`INSERT INTO chat_rooms (name, type, created_at) VALUES (?, ?, NOW())`, room.Name, room.Type)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = int(id)

	for _, userID := range room.ParticipantIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_room_id, user_id, joined_at) VALUES (?, ?, NOW())`,
			room.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *chatRepository) CreateChatRoom(ctx context.Context, room *model.ChatRoom) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertChatRoom(ctx, tx, room)
	})
}

func (r *chatRepository) loadParticipants(ctx context.Context, rooms []*model.ChatRoom) error {
	if len(rooms) == 0 {
		return nil
	}
	ids := make([]int, len(rooms))
	byID := make(map[int]*model.ChatRoom, len(rooms))
	for i, room := range rooms {
		ids[i] = room.ID
		byID[room.ID] = room
	}

	marks, args := placeholders(ids)
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT chat_room_id, user_id FROM chat_participants WHERE chat_room_id IN (%s) ORDER BY id`, marks), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var roomID, userID int
		if err := rows.Scan(&roomID, &userID); err != nil {
			return err
		}
		if room, ok := byID[roomID]; ok {
			room.ParticipantIDs = append(room.ParticipantIDs, userID)
		}
	}
	return rows.Err()
}

func (r *chatRepository) GetChatRoomByID(ctx context.Context, id int) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, created_at FROM chat_rooms WHERE id = ?`, id).
		Scan(&room.ID, &room.Name, &room.Type, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadParticipants(ctx, []*model.ChatRoom{&room}); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) FindDirectRoom(ctx context.Context, userA, userB int) (*model.ChatRoom, error) {
	var roomID int
	err := r.db.QueryRowContext(ctx, `
		SELECT cr.id FROM chat_rooms cr
		JOIN chat_participants a ON a.chat_room_id = cr.id AND a.user_id = ?
		JOIN chat_participants b ON b.chat_room_id = cr.id AND b.user_id = ?
		WHERE cr.type = ?
		ORDER BY cr.id LIMIT 1`, userA, userB, model.ChatRoomDirect).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetChatRoomByID(ctx, roomID)
}

func (r *chatRepository) ListRoomsByUser(ctx context.Context, userID int) ([]*model.ChatRoom, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cr.id, cr.name, cr.type, cr.created_at
		FROM chat_rooms cr
		JOIN chat_participants p ON p.chat_room_id = cr.id
		WHERE p.user_id = ?
		ORDER BY cr.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*model.ChatRoom
	for rows.Next() {
		var room model.ChatRoom
		if err := rows.Scan(&room.ID, &room.Name, &room.Type, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, r.loadParticipants(ctx, rooms)
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (chat_room_id, sender_id, content, created_at) VALUES (?, ?, ?, NOW())`,
		msg.ChatRoomID, msg.SenderID, msg.Content)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = int(id)
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, roomID, page, pageSize int) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_room_id, sender_id, content, created_at FROM messages
		WHERE chat_room_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		roomID, pageSize, offsetOf(page, pageSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatRoomID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
