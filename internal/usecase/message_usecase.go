package usecase

import (
	"context"

	"go-clubmatch-backend/internal/domain"
	"go-clubmatch-backend/pkg/apperror"
)

type messageUsecase struct {
	messageRepo domain.MessageRepository
	userRepo    domain.UserRepository
}

func NewMessageUsecase(messageRepo domain.MessageRepository, userRepo domain.UserRepository) domain.MessageUsecase {
	return &messageUsecase{messageRepo: messageRepo, userRepo: userRepo}
}

func (u *messageUsecase) Send(ctx context.Context, senderID, receiverID, subject, content string, parentID *int64) (*domain.Message, error) {
	if senderID == receiverID {
		return nil, apperror.BadRequest("You cannot message yourself")
	}
	if _, err := u.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, apperror.NotFound("Recipient not found")
	}

	if parentID != nil {
		parent, err := u.messageRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, apperror.NotFound("Parent message not found")
		}
		if parent.SenderID != senderID && parent.ReceiverID != senderID {
			return nil, apperror.Forbidden("You are not part of this conversation")
		}
	}

	msg := &domain.Message{
		SenderID:        senderID,
		ReceiverID:      receiverID,
		Subject:         subject,
		Content:         content,
		ParentMessageID: parentID,
	}
	if err := u.messageRepo.Create(ctx, msg); err != nil {
		return nil, apperror.Internal(err)
	}
	return msg, nil
}

func (u *messageUsecase) Inbox(ctx context.Context, userID string, page, pageSize int) ([]domain.Message, int64, error) {
	limit, offset := paginate(page, pageSize)
	return u.messageRepo.Inbox(ctx, userID, limit, offset)
}

func (u *messageUsecase) Sent(ctx context.Context, userID string, page, pageSize int) ([]domain.Message, int64, error) {
	limit, offset := paginate(page, pageSize)
	return u.messageRepo.Sent(ctx, userID, limit, offset)
}

func (u *messageUsecase) Thread(ctx context.Context, userID string, rootID int64) ([]domain.Message, error) {
	root, err := u.messageRepo.GetByID(ctx, rootID)
	if err != nil {
		return nil, apperror.NotFound("Message not found")
	}
	if root.SenderID != userID && root.ReceiverID != userID {
		return nil, apperror.Forbidden("You are not part of this conversation")
	}
	return u.messageRepo.Thread(ctx, rootID)
}

func (u *messageUsecase) MarkRead(ctx context.Context, userID string, id int64) error {
	msg, err := u.messageRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Message not found")
	}
	if msg.ReceiverID != userID {
		return apperror.Forbidden("You can only mark your own messages as read")
	}
	return u.messageRepo.MarkRead(ctx, id)
}
