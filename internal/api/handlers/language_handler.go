package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/languages"
)

type LanguageHandler struct{}

func NewLanguageHandler() *LanguageHandler { return &LanguageHandler{} }

func (h *LanguageHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": languages.All()})
}
