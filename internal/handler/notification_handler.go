package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medmsg/internal/errors"
	"medmsg/internal/service"
)

// NotificationHandler serves the polling digest endpoint.
type NotificationHandler struct {
	inbox service.InboxService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(inbox service.InboxService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// NotificationsResponse is the digest payload.
type NotificationsResponse struct {
	UnreadCount    int64                `json:"unread_count"`
	RecentMessages []service.DigestItem `json:"recent_messages"`
}

// Notifications godoc
// @Summary Unread count plus a preview of the latest unread messages
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NotificationsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /notifications [get]
func (h *NotificationHandler) Notifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	unread, err := h.inbox.UnreadCount(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to count unread messages",
			Code:  "INTERNAL_ERROR",
		})
	}

	digest, err := h.inbox.RecentDigest(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to build digest",
			Code:  "INTERNAL_ERROR",
		})
	}
	if digest == nil {
		digest = []service.DigestItem{}
	}

	return c.JSON(http.StatusOK, NotificationsResponse{
		UnreadCount:    unread,
		RecentMessages: digest,
	})
}
