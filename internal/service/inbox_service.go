package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"medmsg/internal/cache"
	"medmsg/internal/model"
	"medmsg/internal/repository"
)

const (
	// InboxPageSize is the fixed page size for inbox pagination.
	InboxPageSize = 20
	// DigestLimit bounds the unread digest.
	DigestLimit = 5
	// RecentLimit bounds the dashboard summary.
	RecentLimit = 10

	digestPreviewRunes = 50
	unreadCountTTL     = 30 * time.Second
)

func unreadCacheKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

// InboxPage is one page of received messages.
type InboxPage struct {
	Items      []model.Message `json:"items"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
}

// DigestItem is a preview-truncated unread message for quick polling.
type DigestItem struct {
	Content   string         `json:"content"`
	Sender    string         `json:"sender"`
	Timestamp time.Time      `json:"timestamp"`
	Priority  model.Priority `json:"priority"`
}

// InboxService reads a user's received messages.
type InboxService interface {
	ListInbox(ctx context.Context, userID uint, page int) (*InboxPage, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	RecentDigest(ctx context.Context, userID uint) ([]DigestItem, error)
	RecentInbox(ctx context.Context, userID uint) ([]model.Message, error)
}

type inboxService struct {
	msgRepo repository.MessageRepository
	cache   *cache.Client
}

// NewInboxService builds an InboxService with repository and cache.
func NewInboxService(msgRepo repository.MessageRepository, cache *cache.Client) InboxService {
	return &inboxService{msgRepo: msgRepo, cache: cache}
}

// ListInbox returns one 1-indexed page, newest first. Pages below 1 clamp
// to the first page.
func (s *inboxService) ListInbox(ctx context.Context, userID uint, page int) (*InboxPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.msgRepo.CountInbox(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count inbox: %w", err)
	}

	items, err := s.msgRepo.ListInbox(ctx, userID, (page-1)*InboxPageSize, InboxPageSize)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	if items == nil {
		items = []model.Message{}
	}

	totalPages := int((total + InboxPageSize - 1) / InboxPageSize)

	return &InboxPage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1 && total > 0,
		HasNext:    int64(page)*InboxPageSize < total,
	}, nil
}

// UnreadCount returns the number of unread messages, served from a short
// Redis cache that delivery and read-marking invalidate.
func (s *inboxService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	key := unreadCacheKey(userID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			return n, nil
		}
	}

	n, err := s.msgRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}

	_ = s.cache.Set(ctx, key, []byte(strconv.FormatInt(n, 10)), unreadCountTTL)
	return n, nil
}

// RecentDigest returns up to five unread messages, newest first, with
// content previews truncated to fifty characters.
func (s *inboxService) RecentDigest(ctx context.Context, userID uint) ([]DigestItem, error) {
	msgs, err := s.msgRepo.ListUnread(ctx, userID, DigestLimit)
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}

	items := make([]DigestItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, DigestItem{
			Content:   truncatePreview(m.Content),
			Sender:    m.Sender.Username,
			Timestamp: m.Timestamp,
			Priority:  m.Priority,
		})
	}
	return items, nil
}

// RecentInbox returns the ten most recent messages regardless of read state.
func (s *inboxService) RecentInbox(ctx context.Context, userID uint) ([]model.Message, error) {
	msgs, err := s.msgRepo.ListInbox(ctx, userID, 0, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// truncatePreview counts runes, not bytes, so multi-byte content is not
// split mid-character.
func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= digestPreviewRunes {
		return content
	}
	return string(runes[:digestPreviewRunes]) + "..."
}
