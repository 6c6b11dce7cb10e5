package router

import (
	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, requireIdentity gin.HandlerFunc) {
	rg.POST("/password", h.SignInWithPassword)
	rg.POST("/magic-link", h.SendMagicLink)
	rg.POST("/magic-link/verify", h.VerifyMagicLink)
	rg.POST("/register", h.Register)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", requireIdentity, h.Me)
}
