package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/services"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type SessionHandler struct {
	sessions services.SessionService
	bridge   services.BridgeService
}

func NewSessionHandler(sessions services.SessionService, bridge services.BridgeService) *SessionHandler {
	return &SessionHandler{sessions: sessions, bridge: bridge}
}

type StartSessionRequest struct {
	ProviderLang string `json:"provider_lang"`
	PatientLang  string `json:"patient_lang"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Start", "invalid request body", err))
		return
	}

	sess, err := h.sessions.Start(c.Request.Context(), userID, req.ProviderLang, req.PatientLang)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

func (h *SessionHandler) Get(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":     sess,
		"translating": h.bridge.Translating(sess.SessionID),
	})
}

type SetLanguagesRequest struct {
	ProviderLang string `json:"provider_lang" binding:"required"`
	PatientLang  string `json:"patient_lang" binding:"required"`
}

func (h *SessionHandler) SetLanguages(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req SetLanguagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.SetLanguages", "invalid request body", err))
		return
	}

	sessionID := c.Param("session_id")
	if err := h.sessions.SetLanguages(c.Request.Context(), sessionID, req.ProviderLang, req.PatientLang); err != nil {
		writeError(c, err)
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) End(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	ended, err := h.sessions.End(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ended)
}

// Summarize is provider-only, enforced by route middleware.
func (h *SessionHandler) Summarize(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	summary, err := h.bridge.Summarize(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
