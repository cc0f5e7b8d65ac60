package repository

import (
	"context"

	"gorm.io/gorm"

	"medmsg/internal/model"
)

// MessageRepository defines message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id uint) (*model.Message, error)
	// ListInbox returns a page of messages received by userID, newest first.
	ListInbox(ctx context.Context, userID uint, offset, limit int) ([]model.Message, error)
	CountInbox(ctx context.Context, userID uint) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	ListUnread(ctx context.Context, userID uint, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uint) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Sender.Department").
		First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListInbox orders by timestamp descending with id ascending as a
// deterministic tie-break for messages created in the same instant.
func (r *messageRepository) ListInbox(ctx context.Context, userID uint, offset, limit int) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Sender.Department").
		Where("recipient_id = ?", userID).
		Order("timestamp DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) CountInbox(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("recipient_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *messageRepository) ListUnread(ctx context.Context, userID uint, limit int) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Order("timestamp DESC, id ASC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead sets is_read. Re-applying to an already-read message is a no-op,
// so concurrent transitions are safe.
func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
