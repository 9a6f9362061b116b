package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/services"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type MessageHandler struct {
	bridge services.BridgeService
}

func NewMessageHandler(bridge services.BridgeService) *MessageHandler {
	return &MessageHandler{bridge: bridge}
}

type SendMessageRequest struct {
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MessageHandler.Send", "invalid request body", err))
		return
	}

	role := models.Role(contextRole(c))
	m, err := h.bridge.SendMessage(c.Request.Context(), c.Param("session_id"), role, req.Text, req.AudioURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *MessageHandler) List(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	msgs, err := h.bridge.Messages(c.Request.Context(), c.Param("session_id"), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

func (h *MessageHandler) Purge(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.bridge.Purge(c.Request.Context(), c.Param("session_id"), confirmed); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
