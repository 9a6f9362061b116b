package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/api/handlers"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/api/middleware"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Language *handlers.LanguageHandler
	Session  *handlers.SessionHandler
	Message  *handlers.MessageHandler
	Profile  *handlers.ProfileHandler
	WS       *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/languages", d.Language.List)

	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/session/start", d.Session.Start)
	auth.GET("/session/:session_id", d.Session.Get)
	auth.PUT("/session/:session_id/languages", d.Session.SetLanguages)
	auth.POST("/session/:session_id/end", d.Session.End)

	auth.POST("/session/:session_id/messages", d.Message.Send)
	auth.GET("/session/:session_id/messages", d.Message.List)
	auth.DELETE("/session/:session_id/messages", middleware.RequireProvider(), d.Message.Purge)

	auth.POST("/session/:session_id/summary", middleware.RequireProvider(), d.Session.Summarize)

	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile/update", d.Profile.Update)

	// WebSocket
	auth.GET("/ws/session/:session_id/dictation", d.WS.DictationWS)
}
