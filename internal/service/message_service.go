package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"medmsg/internal/cache"
	errs "medmsg/internal/errors"
	"medmsg/internal/model"
	"medmsg/internal/repository"
	"medmsg/internal/storage"
)

// MessageService reads single messages and drives the read-state machine.
type MessageService interface {
	GetMessage(ctx context.Context, id uint) (*model.Message, error)
	// MarkRead transitions the message to read if byUserID is the
	// recipient. It returns errs.ErrNotRecipient for anyone else so the
	// caller can decide whether to surface or swallow the refusal.
	MarkRead(ctx context.Context, id, byUserID uint) (*model.Message, error)
	// OpenAttachment streams a message's attachment to its sender or
	// recipient.
	OpenAttachment(ctx context.Context, id, byUserID uint) (io.ReadCloser, string, error)
}

type messageService struct {
	msgRepo repository.MessageRepository
	blobs   storage.BlobStore
	cache   *cache.Client
}

// NewMessageService creates a new message service.
func NewMessageService(msgRepo repository.MessageRepository, blobs storage.BlobStore, cache *cache.Client) MessageService {
	return &messageService{msgRepo: msgRepo, blobs: blobs, cache: cache}
}

func (s *messageService) GetMessage(ctx context.Context, id uint) (*model.Message, error) {
	msg, err := s.msgRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

// MarkRead is idempotent: marking an already-read message changes nothing.
func (s *messageService) MarkRead(ctx context.Context, id, byUserID uint) (*model.Message, error) {
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}

	if msg.RecipientID != byUserID {
		return msg, errs.ErrNotRecipient
	}

	if !msg.IsRead {
		if err := s.msgRepo.MarkRead(ctx, id); err != nil {
			return nil, fmt.Errorf("mark read: %w", err)
		}
		msg.IsRead = true
		_ = s.cache.Delete(ctx, unreadCacheKey(byUserID))
	}

	return msg, nil
}

func (s *messageService) OpenAttachment(ctx context.Context, id, byUserID uint) (io.ReadCloser, string, error) {
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !msg.HasAttachment() {
		return nil, "", errs.ErrMessageNotFound
	}
	if msg.SenderID != byUserID && msg.RecipientID != byUserID {
		return nil, "", errs.ErrNotRecipient
	}

	rc, err := s.blobs.Open(ctx, msg.AttachmentPath)
	if err != nil {
		return nil, "", fmt.Errorf("open attachment: %w", err)
	}
	return rc, msg.AttachmentName, nil
}
