package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodlift/moodlift-backend/internal/service"
)

// ChatHandler implements companion conversation endpoints
type ChatHandler struct {
	chats  *service.ChatService
	users  *service.AuthService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chats *service.ChatService, users *service.AuthService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chats:  chats,
		users:  users,
		logger: logger,
	}
}

type chatMessageRequest struct {
	Message  string  `json:"message"`
	Language *string `json:"language,omitempty"`
}

// SendMessage sends a message to the companion and returns its reply
// POST /api/v1/chat/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), authUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load account")
		return
	}

	reply, err := h.chats.SendMessage(c.Request.Context(), user, req.Message, req.Language)
	if err != nil {
		respondError(c, h.logger, err, "Failed to process message")
		return
	}

	c.JSON(http.StatusOK, reply)
}

// GetHistory returns a page of conversation history, newest first
// GET /api/v1/chat/messages
func (h *ChatHandler) GetHistory(c *gin.Context) {
	conv, err := h.chats.GetHistory(c.Request.Context(), authUserID(c),
		queryInt(c, "offset", 0), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load chat history")
		return
	}

	c.JSON(http.StatusOK, conv)
}

// GetStats summarizes conversation activity over the trailing window
// GET /api/v1/chat/stats?days=30
func (h *ChatHandler) GetStats(c *gin.Context) {
	stats, err := h.chats.GetStats(c.Request.Context(), authUserID(c), queryInt(c, "days", 30))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get chat stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
