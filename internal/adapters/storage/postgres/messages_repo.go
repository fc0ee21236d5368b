package postgres

import (
	"context"
	"database/sql"

	"petcare-marketplace/internal/domain/messages"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) Create(ctx context.Context, m messages.Message) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO messages (
			id, request_id, sender_id, recipient_id,
			content, message_type, attachment_url, is_read, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID, m.RequestID, m.SenderID, m.RecipientID,
		m.Content, string(m.Type), nullString(m.AttachmentURL), m.IsRead, m.CreatedAt,
	)
	return err
}

func (r *MessagesRepo) ListByRequest(ctx context.Context, requestID string) ([]messages.Message, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT
			id, request_id, sender_id, recipient_id,
			content, message_type, COALESCE(attachment_url, ''), is_read, created_at
		FROM messages
		WHERE request_id = $1
		ORDER BY created_at ASC, id
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messages.Message, 0)
	for rows.Next() {
		var m messages.Message
		var typ string
		if err := rows.Scan(
			&m.ID, &m.RequestID, &m.SenderID, &m.RecipientID,
			&m.Content, &typ, &m.AttachmentURL, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Type = messages.Type(typ)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessagesRepo) MarkReadFor(ctx context.Context, requestID, recipientID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE request_id = $1 AND recipient_id = $2 AND NOT is_read
	`, requestID, recipientID)
	return err
}
