package postgres

import (
	"context"
	"errors"

	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type messageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) domain.MessageRepository {
	return &messageRepo{db: db}
}

const messageColumns = `id, sender_id, receiver_id, subject, content, is_read, parent_message_id, created_at`

func (r *messageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (sender_id, receiver_id, subject, content, is_read, parent_message_id, created_at)
	          VALUES ($1, $2, $3, $4, false, $5, NOW()) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		m.SenderID, m.ReceiverID, m.Subject, m.Content, m.ParentMessageID,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *messageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	var m domain.Message
	err := r.db.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id,
	).Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Content, &m.IsRead, &m.ParentMessageID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *messageRepo) Inbox(ctx context.Context, userID string, limit, offset int) ([]domain.Message, int64, error) {
	return r.list(ctx, `receiver_id`, userID, limit, offset)
}

func (r *messageRepo) Sent(ctx context.Context, userID string, limit, offset int) ([]domain.Message, int64, error) {
	return r.list(ctx, `sender_id`, userID, limit, offset)
}

func (r *messageRepo) list(ctx context.Context, column, userID string, limit, offset int) ([]domain.Message, int64, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE ` + column + ` = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Content, &m.IsRead, &m.ParentMessageID, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE `+column+` = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepo) Thread(ctx context.Context, rootID int64) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
	          WHERE id = $1 OR parent_message_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Content, &m.IsRead, &m.ParentMessageID, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepo) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE messages SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
