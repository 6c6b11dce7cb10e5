package router

import (
	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/handler"
)

func OrganizationRouter(rg *gin.RouterGroup, h *handler.OrganizationHandler) {
	rg.GET("", h.Get)
	rg.PATCH("", h.Update)
}

func ProfileRouter(rg *gin.RouterGroup, h *handler.ProfileHandler) {
	rg.PATCH("", h.UpdateMe)
}

func MemberRouter(rg *gin.RouterGroup, h *handler.ProfileHandler) {
	rg.GET("", h.ListMembers)
	rg.PATCH("/:id/role", h.ChangeRole)
}

func ClientRouter(rg *gin.RouterGroup, h *handler.ClientHandler, profiles *handler.ProfileHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.GET("/:id/portal-access", profiles.ListPortalUsers)
	rg.POST("/:id/portal-access", profiles.GrantPortalAccess)
}

func RequestRouter(rg *gin.RouterGroup, h *handler.RequestHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/status", h.TransitionStatus)
	rg.GET("/:id/comments", h.ListComments)
	rg.POST("/:id/comments", h.PostComment)
}

func DashboardRouter(rg *gin.RouterGroup, h *handler.DashboardHandler) {
	rg.GET("/aggregates", h.Aggregates)
	rg.GET("/badges", h.Badges)
	rg.GET("/calendar", h.Calendar)
	rg.GET("/report", h.Report)
}

func SchemaRouter(rg *gin.RouterGroup, h *handler.SchemaHandler) {
	rg.GET("", h.List)
	rg.GET("/:name", h.Get)
}
