package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "storehub/api/swagger" // swagger docs
	"storehub/internal/config"
	"storehub/internal/database"
	"storehub/internal/handler"
	"storehub/internal/repository"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/internal/token"
	"storehub/internal/websocket"
	"storehub/pkg/logger"
)

// @title           StoreHub API
// @version         1.0
// @description     Multi-tenant identity, store and access management API.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	if err := logger.Init(&logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "storehub-api",
	}); err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	zlog := logger.Get()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	if err := database.SyncPermissions(db); err != nil {
		log.Fatalf("Permission sync failed: %v", err)
	}
	if err := database.SeedPlans(db); err != nil {
		log.Fatalf("Plan seed failed: %v", err)
	}
	zlog.Info("connected to PostgreSQL")

	// Token codec and context resolver
	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	directory := repository.NewIdentityRepository(db)
	resolver := tenancy.NewContextResolver(codec, directory)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	scopedDB := repository.NewScopedDB(db, zlog)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	storeRepo := repository.NewStoreRepository(db, scopedDB)
	roleRepo := repository.NewRoleRepository(db, scopedDB)
	auditRepo := repository.NewAuditRepository(scopedDB)
	subRepo := repository.NewSubscriptionRepository(db)

	auditService := service.NewAuditService(auditRepo, zlog)
	subService := service.NewSubscriptionService(subRepo, tenantRepo, storeRepo)
	authService := service.NewAuthService(userRepo, tenantRepo, roleRepo, subRepo, codec, resolver, txManager)
	rbacService := service.NewRBACService(roleRepo, storeRepo, tenantRepo, auditService, wsHub)
	storeService := service.NewStoreService(storeRepo, tenantRepo, subService, auditService, wsHub)
	userService := service.NewUserService(userRepo, tenantRepo, roleRepo, subService, auditService, txManager)
	tenantService := service.NewTenantService(tenantRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, resolver)
	tenantHandler := handler.NewTenantHandler(tenantService, resolver)
	storeHandler := handler.NewStoreHandler(storeService, resolver)
	userHandler := handler.NewUserHandler(userService, rbacService, resolver)
	roleHandler := handler.NewRoleHandler(rbacService, resolver)
	subHandler := handler.NewSubscriptionHandler(subService, resolver)
	auditHandler := handler.NewAuditHandler(auditService, resolver)

	// Set up Gin Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Store-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, resolver, c)
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	tenantHandler.RegisterRoutes(router.Group(""))
	storeHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	subHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	zlog.Info("server listening on :" + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
