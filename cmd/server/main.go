package main

import (
	"fmt"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/cron"
	"github.com/qs3c/gym_go_server/internal/pkg/email"
	"github.com/qs3c/gym_go_server/internal/pkg/otp"
	"github.com/qs3c/gym_go_server/internal/pkg/whatsapp"
	"github.com/qs3c/gym_go_server/internal/pkg/ws"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.SeedAdmin(db, &cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	otpStore := otp.NewStore(rdb, time.Duration(cfg.Notification.OTPExpireMinutes)*time.Minute)

	// 初始化投递通道
	emailService := email.NewService(&cfg.Email)
	whatsappService := whatsapp.NewService(&cfg.WhatsApp)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, adminRepo, otpStore, emailService, cfg)
	userService := service.NewUserService(userRepo)
	memberService := service.NewMemberService(userRepo)
	membershipService := service.NewMembershipService(membershipRepo, userRepo)
	notificationService := service.NewNotificationService(
		membershipRepo, notificationRepo, emailService, whatsappService, wsHub)
	dashboardService := service.NewDashboardService(userRepo, membershipRepo, notificationRepo)

	// 启动到期扫描
	cronService := cron.NewService(notificationService, cfg.Notification.CheckIntervalHours)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, membershipService)
	memberHandler := handler.NewMemberHandler(memberService, membershipService)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	notificationHandler := handler.NewNotificationHandler(notificationService, cronService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		memberHandler,
		membershipHandler,
		notificationHandler,
		dashboardHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
