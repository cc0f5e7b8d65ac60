package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"medmsg/internal/errors"
	"medmsg/internal/model"
	"medmsg/internal/service"
)

// MessageHandler handles message endpoints.
type MessageHandler struct {
	delivery service.DeliveryService
	inbox    service.InboxService
	messages service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(delivery service.DeliveryService, inbox service.InboxService, messages service.MessageService) *MessageHandler {
	return &MessageHandler{
		delivery: delivery,
		inbox:    inbox,
		messages: messages,
	}
}

// Send godoc
// @Summary Send a message, optionally with a file attachment
// @Tags messages
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param recipient formData string true "Recipient username"
// @Param content formData string true "Message text"
// @Param priority formData string false "normal, urgent or emergency (defaults to normal)"
// @Param file formData file false "Attachment"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	recipient := c.FormValue("recipient")
	if recipient == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "recipient is required")
	}
	content := c.FormValue("content")
	priority := model.Priority(c.FormValue("priority"))

	var attachment *service.AttachmentUpload
	if fh, err := c.FormFile("file"); err == nil && fh != nil && fh.Filename != "" {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read attachment")
		}
		defer src.Close()
		attachment = &service.AttachmentUpload{Reader: src, Filename: fh.Filename}
	}

	msg, err := h.delivery.Send(c.Request().Context(), userID, recipient, content, priority, attachment)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, msg)
}

// Inbox godoc
// @Summary Paginated inbox, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-indexed page" default(1)
// @Success 200 {object} service.InboxPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages [get]
func (h *MessageHandler) Inbox(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			page = parsed
		}
	}

	result, err := h.inbox.ListInbox(c.Request().Context(), userID, page)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list inbox",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, result)
}

// Recent godoc
// @Summary Most recent messages for the dashboard view
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Message
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages/recent [get]
func (h *MessageHandler) Recent(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	msgs, err := h.inbox.RecentInbox(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list recent messages",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, msgs)
}

// Get godoc
// @Summary Fetch one message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := parseMessageID(c)
	if err != nil {
		return err
	}

	msg, err := h.messages.GetMessage(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// respond not-found rather than reveal other users' messages
	if msg.SenderID != userID && msg.RecipientID != userID {
		httpErr := errors.MapErrorToHTTP(errors.ErrMessageNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, msg)
}

// MarkRead godoc
// @Summary Mark a message as read
// @Description Only the recipient can change read state. The sender's call
// @Description succeeds without changing anything; other users get 404.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := parseMessageID(c)
	if err != nil {
		return err
	}

	msg, err := h.messages.MarkRead(c.Request().Context(), id, userID)
	if err == errors.ErrNotRecipient {
		// the sender's attempt is a silent no-op; anyone else gets the
		// same not-found answer as Get so content never leaks
		if msg.SenderID != userID {
			err = errors.ErrMessageNotFound
		} else {
			err = nil
		}
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, msg)
}

// DownloadAttachment godoc
// @Summary Download a message's attachment
// @Tags messages
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/attachment [get]
func (h *MessageHandler) DownloadAttachment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := parseMessageID(c)
	if err != nil {
		return err
	}

	rc, name, err := h.messages.OpenAttachment(c.Request().Context(), id, userID)
	if err != nil {
		if err == errors.ErrNotRecipient {
			err = errors.ErrMessageNotFound
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEOctetStream)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), rc)
	return err
}

func parseMessageID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}
	return uint(id), nil
}
