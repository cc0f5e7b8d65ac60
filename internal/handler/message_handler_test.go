package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medmsg/internal/auth"
	errs "medmsg/internal/errors"
	"medmsg/internal/model"
)

// mockMessageService is a mock implementation of service.MessageService.
type mockMessageService struct {
	mock.Mock
}

func (m *mockMessageService) GetMessage(ctx context.Context, id uint) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *mockMessageService) MarkRead(ctx context.Context, id, byUserID uint) (*model.Message, error) {
	args := m.Called(ctx, id, byUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *mockMessageService) OpenAttachment(ctx context.Context, id, byUserID uint) (io.ReadCloser, string, error) {
	args := m.Called(ctx, id, byUserID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func newMessageContext(e *echo.Echo, method, path string, userID uint, msgID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	c.SetParamNames("id")
	c.SetParamValues(msgID)
	c.Set("user", &jwt.Token{Claims: &auth.Claims{UserID: userID}})
	return c, rec
}

func TestMessageHandler_MarkRead(t *testing.T) {
	e := echo.New()
	msg := &model.Message{
		ID: 1, SenderID: 1, RecipientID: 2,
		Content: "patient in room 12 needs review", Priority: model.PriorityUrgent,
	}

	t.Run("recipient marks the message read", func(t *testing.T) {
		svc := new(mockMessageService)
		read := *msg
		read.IsRead = true
		svc.On("MarkRead", mock.Anything, uint(1), uint(2)).Return(&read, nil)

		h := NewMessageHandler(nil, nil, svc)
		c, rec := newMessageContext(e, http.MethodPost, "/api/messages/:id/read", 2, "1")

		require.NoError(t, h.MarkRead(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_read":true`)
	})

	t.Run("sender call is a no-op that still returns the message", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("MarkRead", mock.Anything, uint(1), uint(1)).Return(msg, errs.ErrNotRecipient)

		h := NewMessageHandler(nil, nil, svc)
		c, rec := newMessageContext(e, http.MethodPost, "/api/messages/:id/read", 1, "1")

		require.NoError(t, h.MarkRead(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"is_read":false`)
	})

	t.Run("third party gets not-found and no message content", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("MarkRead", mock.Anything, uint(1), uint(3)).Return(msg, errs.ErrNotRecipient)

		h := NewMessageHandler(nil, nil, svc)
		c, rec := newMessageContext(e, http.MethodPost, "/api/messages/:id/read", 3, "1")

		err := h.MarkRead(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		assert.NotContains(t, rec.Body.String(), "patient in room 12")
	})

	t.Run("unknown message", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("MarkRead", mock.Anything, uint(9), uint(2)).Return(nil, errs.ErrMessageNotFound)

		h := NewMessageHandler(nil, nil, svc)
		c, _ := newMessageContext(e, http.MethodPost, "/api/messages/:id/read", 2, "9")

		err := h.MarkRead(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestMessageHandler_Get_HidesOtherUsersMessages(t *testing.T) {
	e := echo.New()
	msg := &model.Message{
		ID: 1, SenderID: 1, RecipientID: 2,
		Content: "confidential note", Priority: model.PriorityNormal,
	}

	svc := new(mockMessageService)
	svc.On("GetMessage", mock.Anything, uint(1)).Return(msg, nil)

	h := NewMessageHandler(nil, nil, svc)
	c, rec := newMessageContext(e, http.MethodGet, "/api/messages/:id", 3, "1")

	err := h.Get(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.NotContains(t, rec.Body.String(), "confidential note")
}
