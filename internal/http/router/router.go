package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/common/metrics"
	"clienthub.app/hub/internal/http/handler"
	"clienthub.app/hub/internal/http/middleware"
	"clienthub.app/hub/internal/service"
)

type RouterConfig struct {
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireIdentity := middleware.RequireIdentity(services.Identity())

	authHandler := handler.NewAuthHandler(services.Auth(), cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, requireIdentity)

	v1 := router.Group("/api/v1")
	{
		SchemaRouter(v1.Group("/schemas"), handler.NewSchemaHandler())

		authed := v1.Group("", requireIdentity)

		profileHandler := handler.NewProfileHandler(services.Profiles())
		OrganizationRouter(authed.Group("/organization"), handler.NewOrganizationHandler(services.Organizations()))
		ProfileRouter(authed.Group("/profile"), profileHandler)
		MemberRouter(authed.Group("/members", middleware.RequireStaff()), profileHandler)
		ClientRouter(authed.Group("/clients"), handler.NewClientHandler(services.Clients()), profileHandler)
		RequestRouter(authed.Group("/requests"), handler.NewRequestHandler(services.Requests(), services.Comments()))
		DashboardRouter(authed.Group("/dashboard"), handler.NewDashboardHandler(services.Dashboard()))
	}
}
