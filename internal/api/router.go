package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	memberHandler       *handler.MemberHandler
	membershipHandler   *handler.MembershipHandler
	notificationHandler *handler.NotificationHandler
	dashboardHandler    *handler.DashboardHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	memberHandler *handler.MemberHandler,
	membershipHandler *handler.MembershipHandler,
	notificationHandler *handler.NotificationHandler,
	dashboardHandler *handler.DashboardHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		memberHandler:       memberHandler,
		membershipHandler:   membershipHandler,
		notificationHandler: notificationHandler,
		dashboardHandler:    dashboardHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	// WebSocket
	engine.GET("/ws", r.websocketHandler.Handle)

	api := engine.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/forgot-password", r.authHandler.ForgotPassword)
			auth.POST("/reset-password", r.authHandler.ResetPassword)
		}

		// 管理端接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.RequireAdmin())
		{
			admin.GET("/dashboard", r.dashboardHandler.GetStats)

			admin.GET("/members", r.memberHandler.List)
			admin.GET("/members/:id", r.memberHandler.Get)
			admin.POST("/members", r.memberHandler.Create)
			admin.PUT("/members/:id", r.memberHandler.Update)
			admin.DELETE("/members/:id", r.memberHandler.Delete)

			admin.GET("/memberships", r.membershipHandler.List)
			admin.POST("/memberships", r.membershipHandler.Create)
			admin.PUT("/memberships/:id", r.membershipHandler.Update)

			admin.GET("/notifications", r.notificationHandler.ListForAdmin)
			admin.POST("/notifications/check", r.notificationHandler.TriggerSweep)
		}

		// 会员端接口
		user := api.Group("/user")
		user.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.RequireUser())
		{
			user.GET("/profile", r.userHandler.GetProfile)
			user.PUT("/profile", r.userHandler.UpdateProfile)
			user.GET("/membership", r.userHandler.GetMembership)
			user.GET("/membership/history", r.userHandler.GetMembershipHistory)

			user.GET("/notifications", r.notificationHandler.ListForUser)
			user.PUT("/notifications/read-all", r.notificationHandler.MarkAllRead)
			user.PUT("/notifications/:id/read", r.notificationHandler.MarkRead)
		}
	}

	return engine
}
