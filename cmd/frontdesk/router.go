package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/dumeirei/hotel-frontdesk/docs"
	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
	"github.com/dumeirei/hotel-frontdesk/internal/common/jwt"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	commonMiddleware "github.com/dumeirei/hotel-frontdesk/internal/common/middleware"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	adminHandler "github.com/dumeirei/hotel-frontdesk/internal/handler/admin"
	authHandler "github.com/dumeirei/hotel-frontdesk/internal/handler/auth"
	hotelHandler "github.com/dumeirei/hotel-frontdesk/internal/handler/hotel"
	"github.com/dumeirei/hotel-frontdesk/internal/middleware"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
	adminService "github.com/dumeirei/hotel-frontdesk/internal/service/admin"
	authService "github.com/dumeirei/hotel-frontdesk/internal/service/auth"
	hotelService "github.com/dumeirei/hotel-frontdesk/internal/service/hotel"
)

// maxRequestBodySize 请求体上限 1MB
const maxRequestBodySize = 1 << 20

// setupRouter 设置路由，m 为 nil 时不暴露 /metrics
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	m *metrics.Metrics,
) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	roomRepo := repository.NewRoomRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)

	// 初始化服务
	roomSvc := hotelService.NewRoomService(db, roomRepo, reservationRepo)
	guestSvc := hotelService.NewGuestService(db, guestRepo, reservationRepo)
	reservationSvc := hotelService.NewReservationService(db, reservationRepo, roomRepo, guestRepo)
	authSvc := authService.NewAuthService(employeeRepo, jwtManager)
	employeeSvc := adminService.NewEmployeeService(employeeRepo)
	dashboardSvc := adminService.NewDashboardService(
		roomRepo, employeeRepo, guestRepo, reservationRepo,
		cfg.Business.FrontDesk.StatsCacheDuration(),
	)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	roomH := hotelHandler.NewRoomHandler(roomSvc)
	guestH := hotelHandler.NewGuestHandler(guestSvc)
	reservationH := hotelHandler.NewReservationHandler(reservationSvc)
	employeeH := adminHandler.NewEmployeeHandler(employeeSvc)
	dashboardH := adminHandler.NewDashboardHandler(dashboardSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORSFromConfig(&cfg.CORS))
	r.Use(middleware.AccessLog(logger, cfg.Metrics.Path, "/swagger/*any"))
	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ping", "/ready", cfg.Metrics.Path},
		}))
		r.Use(commonMiddleware.InjectTraceContext())
	}
	if m != nil {
		r.Use(m.Middleware(cfg.Metrics.Path))
	}
	r.Use(middleware.RequestSizeLimiter(maxRequestBodySize))

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	if m != nil {
		r.GET(cfg.Metrics.Path, m.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.APIRateLimit(redisClient, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	{
		// 公开接口
		login := []gin.HandlerFunc{authH.Login}
		if cfg.RateLimit.Enabled {
			login = append([]gin.HandlerFunc{middleware.LoginRateLimit(redisClient, cfg.RateLimit.LoginPerMinute)}, login...)
		}
		v1.POST("/auth/login", login...)
		v1.POST("/auth/refresh", authH.RefreshToken)

		// 登录员工可用
		staff := v1.Group("")
		staff.Use(middleware.Auth(jwtManager))
		{
			staff.GET("/auth/profile", authH.GetProfile)

			staff.GET("/rooms", roomH.List)
			staff.GET("/rooms/available", roomH.ListAvailable)
			staff.GET("/rooms/:id", roomH.Get)
			staff.POST("/rooms", roomH.Create)
			staff.PUT("/rooms/:id", roomH.Update)
			staff.PUT("/rooms/:id/status", roomH.ChangeStatus)

			staff.GET("/guests", guestH.List)
			staff.GET("/guests/lookup", guestH.Lookup)
			staff.GET("/guests/:id", guestH.Get)
			staff.POST("/guests", guestH.Create)
			staff.PUT("/guests/:id", guestH.Update)
			staff.DELETE("/guests/:id", guestH.Delete)

			staff.GET("/reservations", reservationH.List)
			staff.GET("/reservations/:id", reservationH.Get)
			staff.GET("/reservations/:id/qrcode", reservationH.QRCode)
			staff.POST("/reservations", reservationH.Create)
			staff.POST("/reservations/:id/checkout", reservationH.Checkout)
		}

		// 仅管理员
		admin := staff.Group("")
		admin.Use(middleware.RequireAdministrator())
		{
			admin.DELETE("/rooms/:id", roomH.Delete)
			admin.POST("/reservations/:id/cancel", reservationH.Cancel)
			admin.DELETE("/reservations/:id", reservationH.Delete)

			admin.GET("/admin/employees", employeeH.List)
			admin.GET("/admin/employees/:id", employeeH.Get)
			admin.POST("/admin/employees", employeeH.Create)
			admin.PUT("/admin/employees/:id", employeeH.Update)
			admin.PUT("/admin/employees/:id/password", employeeH.ResetPassword)
			admin.DELETE("/admin/employees/:id", employeeH.Delete)

			admin.GET("/admin/dashboard/stats", dashboardH.GetStats)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "接口不存在")
	})
}
