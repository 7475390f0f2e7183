package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/service"
	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/response"
)

// MessageHandler exposes direct messaging and feedback endpoints.
type MessageHandler struct {
	service *service.MessageService
	users   *service.UserService
}

// NewMessageHandler constructs a message handler.
func NewMessageHandler(svc *service.MessageService, users *service.UserService) *MessageHandler {
	return &MessageHandler{service: svc, users: users}
}

// Send godoc
// @Summary Send a direct message
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body service.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}
	msg, err := h.service.Send(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Inbox godoc
// @Summary Received messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/inbox [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	msgs, err := h.service.Inbox(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, msgs, nil)
}

// Sent godoc
// @Summary Sent messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/sent [get]
func (h *MessageHandler) Sent(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	msgs, err := h.service.Sent(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, msgs, nil)
}

// MarkRead godoc
// @Summary Mark a received message as read
// @Tags Messages
// @Param id path string true "Message ID"
// @Success 204
// @Security BearerAuth
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnreadCount godoc
// @Summary Count of unread messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"unread": count}, nil)
}

// SubmitFeedback godoc
// @Summary Submit subject feedback
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body service.FeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /feedback [post]
func (h *MessageHandler) SubmitFeedback(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}
	feedback, err := h.service.SubmitFeedback(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// SubjectFeedback godoc
// @Summary Feedback left for a subject
// @Tags Messages
// @Produce json
// @Param subject_id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /feedback/subject/{subject_id} [get]
func (h *MessageHandler) SubjectFeedback(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	feedback, err := h.service.SubjectFeedback(c.Request.Context(), actor, c.Param("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}
