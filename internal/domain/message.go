package domain

import (
	"context"
	"time"
)

type Message struct {
	ID              int64     `json:"id"`
	SenderID        string    `json:"sender_id"`
	ReceiverID      string    `json:"receiver_id"`
	Subject         string    `json:"subject"`
	Content         string    `json:"content"`
	IsRead          bool      `json:"is_read"`
	ParentMessageID *int64    `json:"parent_message_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	Inbox(ctx context.Context, userID string, limit, offset int) ([]Message, int64, error)
	Sent(ctx context.Context, userID string, limit, offset int) ([]Message, int64, error)
	Thread(ctx context.Context, rootID int64) ([]Message, error)
	MarkRead(ctx context.Context, id int64) error
}

type MessageUsecase interface {
	Send(ctx context.Context, senderID, receiverID, subject, content string, parentID *int64) (*Message, error)
	Inbox(ctx context.Context, userID string, page, pageSize int) ([]Message, int64, error)
	Sent(ctx context.Context, userID string, page, pageSize int) ([]Message, int64, error)
	Thread(ctx context.Context, userID string, rootID int64) ([]Message, error)
	MarkRead(ctx context.Context, userID string, id int64) error
}
