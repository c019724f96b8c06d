package handler

import (
	"errors"
	"net/http"

	"stayagent/internal/model"
	"stayagent/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles conversation-related HTTP requests
type ChatHandler struct {
	agent *service.AgentService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(agent *service.AgentService) *ChatHandler {
	return &ChatHandler{agent: agent}
}

// OpenSession handles POST /api/v1/sessions
func (h *ChatHandler) OpenSession(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	// Body is optional; an anonymous session has no username.
	_ = c.ShouldBindJSON(&req)

	c.JSON(http.StatusOK, h.agent.OpenSession(req.Username))
}

// ResetSession handles POST /api/v1/sessions/:id/reset
func (h *ChatHandler) ResetSession(c *gin.Context) {
	resp, err := h.agent.ResetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.agent.HandleTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat turn failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
