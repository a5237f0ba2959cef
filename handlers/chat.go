package handlers

import (
	"net/http"

	"glowdesk/models"
	"glowdesk/services/dialog"
	"glowdesk/services/intelligence"
	"glowdesk/services/session"
	"glowdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatRequest is the inbound webhook payload. ConversationKey is
// optional: a missing key starts a fresh conversation and the generated
// key is echoed back for the client to reuse.
type ChatRequest struct {
	ConversationKey string `json:"conversationKey"`
	Message         string `json:"message" binding:"required"`
}

// ChatResponse wraps the engine's reply for the wire.
type ChatResponse struct {
	ConversationKey string          `json:"conversationKey"`
	Text            string          `json:"text"`
	Buttons         []models.Button `json:"buttons,omitempty"`
	Escalated       bool            `json:"escalated,omitempty"`
}

// ChatHandler owns the conversational endpoint. Escalated turns are
// answered by the Assistant; its failure degrades to the engine's
// apology text so the customer always gets a reply.
type ChatHandler struct {
	Engine    *dialog.Engine
	Assistant intelligence.Assistant
	Sessions  session.Store
}

func NewChatHandler(engine *dialog.Engine, assistant intelligence.Assistant, sessions session.Store) *ChatHandler {
	return &ChatHandler{Engine: engine, Assistant: assistant, Sessions: sessions}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "message is required")
		return
	}

	key := req.ConversationKey
	if key == "" {
		key = uuid.NewString()
	}

	outcome, err := h.Engine.HandleTurn(c.Request.Context(), key, req.Message)
	if err != nil {
		utils.GetLogger().Error("chat turn failed", zap.String("key", key), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Chat failed", "please try again")
		return
	}

	if outcome.Escalated() {
		text := h.escalatedText(c, key, outcome.Escalate)
		c.JSON(http.StatusOK, ChatResponse{ConversationKey: key, Text: text, Escalated: true})
		return
	}

	resp := ChatResponse{ConversationKey: key, Text: outcome.Reply.Text, Buttons: outcome.Reply.Buttons}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) escalatedText(c *gin.Context, key string, esc *dialog.Escalation) string {
	logger := utils.GetLogger()
	logger.Info("turn escalated to assistant",
		zap.String("key", key), zap.String("reason", esc.Reason))

	bc, err := h.Sessions.Get(c.Request.Context(), key)
	if err != nil {
		logger.Warn("failed to load context for escalation", zap.String("key", key), zap.Error(err))
		bc = nil
	}

	text, err := h.Assistant.Respond(c.Request.Context(), esc.Message, bc)
	if err != nil {
		logger.Error("assistant failed", zap.String("key", key), zap.Error(err))
		return "I couldn't quite work that one out. Could you rephrase it, or give us a call and we'll sort it out?"
	}
	return text
}
