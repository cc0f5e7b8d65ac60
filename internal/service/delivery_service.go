package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"medmsg/internal/cache"
	errs "medmsg/internal/errors"
	"medmsg/internal/model"
	"medmsg/internal/repository"
	"medmsg/internal/storage"
)

// AttachmentUpload carries an incoming attachment. Filename is the name the
// client supplied; it is sanitized before the blob is stored.
type AttachmentUpload struct {
	Reader   io.Reader
	Filename string
}

// DeliveryService validates and persists outgoing messages.
type DeliveryService interface {
	Send(ctx context.Context, senderID uint, recipientUsername, content string, priority model.Priority, attachment *AttachmentUpload) (*model.Message, error)
}

type deliveryService struct {
	userRepo repository.UserRepository
	msgRepo  repository.MessageRepository
	blobs    storage.BlobStore
	cache    *cache.Client
	log      *zap.SugaredLogger
}

// NewDeliveryService creates a new delivery service.
func NewDeliveryService(userRepo repository.UserRepository, msgRepo repository.MessageRepository, blobs storage.BlobStore, cache *cache.Client, log *zap.SugaredLogger) DeliveryService {
	return &deliveryService{
		userRepo: userRepo,
		msgRepo:  msgRepo,
		blobs:    blobs,
		cache:    cache,
		log:      log,
	}
}

// Send resolves the recipient, stores the attachment if any, and persists
// the message row. The blob is written first because its key is part of the
// row; if the insert then fails the blob is removed so no orphaned state
// survives a failed delivery.
func (s *deliveryService) Send(ctx context.Context, senderID uint, recipientUsername, content string, priority model.Priority, attachment *AttachmentUpload) (*model.Message, error) {
	if content == "" {
		return nil, errs.ErrEmptyContent
	}
	if priority == "" {
		priority = model.PriorityNormal
	}

	recipient, err := s.userRepo.FindByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}

	msg := &model.Message{
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Content:     content,
		Priority:    priority,
		Timestamp:   time.Now().UTC(),
	}

	if attachment != nil && attachment.Filename != "" {
		key, err := s.blobs.Save(ctx, attachment.Reader, attachment.Filename)
		if err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		msg.AttachmentPath = key
		msg.AttachmentName = storage.SanitizeFilename(attachment.Filename)
	}

	if err := s.msgRepo.Create(ctx, msg); err != nil {
		if msg.AttachmentPath != "" {
			if cleanupErr := s.blobs.Delete(ctx, msg.AttachmentPath); cleanupErr != nil {
				s.log.Warnw("orphaned attachment after failed delivery",
					"path", msg.AttachmentPath, "error", cleanupErr)
			}
		}
		return nil, fmt.Errorf("create message: %w", err)
	}

	_ = s.cache.Delete(ctx, unreadCacheKey(recipient.ID))

	return msg, nil
}
