package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medmsg/internal/cache"
	"medmsg/internal/model"
	"medmsg/internal/repository"
)

func TestInboxService_ListInbox(t *testing.T) {
	db := newTestDB(t)
	senderID, recipientID := newTestUsers(t, db)
	svc := NewInboxService(repository.NewMessageRepository(db), &cache.Client{})
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 25; i++ {
		newTestMessage(t, db, senderID, recipientID,
			fmt.Sprintf("message %d", i), model.PriorityNormal, base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("first page holds twenty newest messages", func(t *testing.T) {
		page, err := svc.ListInbox(ctx, recipientID, 1)
		require.NoError(t, err)

		assert.Len(t, page.Items, 20)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.HasPrev)
		assert.True(t, page.HasNext)
		assert.Equal(t, "message 24", page.Items[0].Content)
		assert.Equal(t, "message 5", page.Items[19].Content)
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		page, err := svc.ListInbox(ctx, recipientID, 2)
		require.NoError(t, err)

		assert.Len(t, page.Items, 5)
		assert.True(t, page.HasPrev)
		assert.False(t, page.HasNext)
		assert.Equal(t, "message 4", page.Items[0].Content)
		assert.Equal(t, "message 0", page.Items[4].Content)
	})

	t.Run("page below one clamps to the first page", func(t *testing.T) {
		page, err := svc.ListInbox(ctx, recipientID, 0)
		require.NoError(t, err)

		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Items, 20)
	})

	t.Run("sent messages never show in the sender inbox", func(t *testing.T) {
		page, err := svc.ListInbox(ctx, senderID, 1)
		require.NoError(t, err)

		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
		assert.False(t, page.HasPrev)
		assert.False(t, page.HasNext)
	})
}

func TestInboxService_ListInbox_TimestampTieBreak(t *testing.T) {
	db := newTestDB(t)
	senderID, recipientID := newTestUsers(t, db)
	svc := NewInboxService(repository.NewMessageRepository(db), &cache.Client{})

	ts := time.Now().Truncate(time.Second)
	first := newTestMessage(t, db, senderID, recipientID, "first insert", model.PriorityNormal, ts)
	second := newTestMessage(t, db, senderID, recipientID, "second insert", model.PriorityNormal, ts)

	page, err := svc.ListInbox(context.Background(), recipientID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	// equal timestamps fall back to insertion order
	assert.Equal(t, first.ID, page.Items[0].ID)
	assert.Equal(t, second.ID, page.Items[1].ID)
}

func TestInboxService_UnreadCount(t *testing.T) {
	db := newTestDB(t)
	senderID, recipientID := newTestUsers(t, db)
	msgRepo := repository.NewMessageRepository(db)
	svc := NewInboxService(msgRepo, &cache.Client{})
	ctx := context.Background()

	n, err := svc.UnreadCount(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	now := time.Now()
	m1 := newTestMessage(t, db, senderID, recipientID, "one", model.PriorityNormal, now)
	newTestMessage(t, db, senderID, recipientID, "two", model.PriorityUrgent, now.Add(time.Minute))

	n, err = svc.UnreadCount(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, msgRepo.MarkRead(ctx, m1.ID))

	n, err = svc.UnreadCount(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// the sender's own unread count is unaffected
	n, err = svc.UnreadCount(ctx, senderID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestInboxService_RecentDigest(t *testing.T) {
	db := newTestDB(t)
	senderID, recipientID := newTestUsers(t, db)
	msgRepo := repository.NewMessageRepository(db)
	svc := NewInboxService(msgRepo, &cache.Client{})
	ctx := context.Background()

	t.Run("long content is truncated to a fifty character preview", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		msg := newTestMessage(t, db, senderID, recipientID, long, model.PriorityEmergency, time.Now())

		items, err := svc.RecentDigest(ctx, recipientID)
		require.NoError(t, err)
		require.Len(t, items, 1)

		assert.Equal(t, strings.Repeat("a", 50)+"...", items[0].Content)
		assert.Equal(t, "ivanov_doctor", items[0].Sender)
		assert.Equal(t, model.PriorityEmergency, items[0].Priority)

		require.NoError(t, msgRepo.MarkRead(ctx, msg.ID))
	})

	t.Run("short content passes through untouched", func(t *testing.T) {
		msg := newTestMessage(t, db, senderID, recipientID, "Room 205 is ready", model.PriorityNormal, time.Now())

		items, err := svc.RecentDigest(ctx, recipientID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Room 205 is ready", items[0].Content)

		require.NoError(t, msgRepo.MarkRead(ctx, msg.ID))
	})

	t.Run("read messages are excluded and unread capped at five newest", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		for i := 0; i < 7; i++ {
			newTestMessage(t, db, senderID, recipientID,
				fmt.Sprintf("unread %d", i), model.PriorityNormal, base.Add(time.Duration(i)*time.Minute))
		}

		items, err := svc.RecentDigest(ctx, recipientID)
		require.NoError(t, err)
		require.Len(t, items, DigestLimit)
		assert.Equal(t, "unread 6", items[0].Content)
		assert.Equal(t, "unread 2", items[4].Content)
	})
}

func TestInboxService_RecentInbox(t *testing.T) {
	db := newTestDB(t)
	senderID, recipientID := newTestUsers(t, db)
	msgRepo := repository.NewMessageRepository(db)
	svc := NewInboxService(msgRepo, &cache.Client{})
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		msg := newTestMessage(t, db, senderID, recipientID,
			fmt.Sprintf("recent %d", i), model.PriorityNormal, base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			require.NoError(t, msgRepo.MarkRead(ctx, msg.ID))
		}
	}

	msgs, err := svc.RecentInbox(ctx, recipientID)
	require.NoError(t, err)

	// read state does not filter the dashboard view
	require.Len(t, msgs, RecentLimit)
	assert.Equal(t, "recent 11", msgs[0].Content)
	assert.Equal(t, "recent 2", msgs[9].Content)
}
