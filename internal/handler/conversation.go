package handler

import (
	"net/http"

	"backend/internal/agents"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConversationHandler interface {
	SendMessage(c *gin.Context)
}

type conversationHandler struct {
	coordinator *agents.Coordinator
	logger      *zap.Logger
}

func NewConversationHandler(coordinator *agents.Coordinator, logger *zap.Logger) ConversationHandler {
	return &conversationHandler{coordinator: coordinator, logger: logger}
}

type ConversationRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// SendMessage handles POST /api/conversation/message. The coordinator agent
// scans the message for crisis indicators before generating a reply.
func (h *conversationHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet("user_id").(int64)

	var req ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.New().String()
	}

	reply, assessment, err := h.coordinator.Respond(c.Request.Context(), agents.StartConversation{
		UserID:         userID,
		ConversationID: req.ConversationID,
		Text:           req.Message,
	})
	if err != nil {
		h.logger.Error("Conversation coordinator failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id":   req.ConversationID,
		"reply":             reply,
		"crisis_level":      assessment.CrisisLevel,
		"escalation_needed": assessment.EscalationNeeded,
	})
}
