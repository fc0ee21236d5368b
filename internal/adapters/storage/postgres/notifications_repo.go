package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"petcare-marketplace/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	var actionData []byte
	if len(n.ActionData) > 0 {
		b, err := json.Marshal(n.ActionData)
		if err != nil {
			return fmt.Errorf("marshal action_data: %w", err)
		}
		actionData = b
	}

	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, title, message, type,
			request_id, message_id, review_id, action_data,
			is_read, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type),
		nullString(n.RequestID), nullString(n.MessageID), nullString(n.ReviewID), actionData,
		n.IsRead, n.CreatedAt,
	)
	return err
}

func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]notifications.Notification, error) {
	query := `
		SELECT
			id, user_id, title, message, type,
			COALESCE(request_id, ''), COALESCE(message_id, ''), COALESCE(review_id, ''), action_data,
			is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT is_read OR NOT $2)
		ORDER BY created_at DESC, id`
	args := []any{userID, unreadOnly}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var n notifications.Notification
		var typ string
		var actionData []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &typ,
			&n.RequestID, &n.MessageID, &n.ReviewID, &actionData,
			&n.IsRead, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		n.Type = notifications.Type(typ)
		if len(actionData) > 0 {
			if err := json.Unmarshal(actionData, &n.ActionData); err != nil {
				return nil, fmt.Errorf("unmarshal action_data: %w", err)
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationsRepo) MarkRead(ctx context.Context, userID, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	return mustAffect(res, "Notification not found")
}

func (r *NotificationsRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
