package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/store/backend/internal/application/catalog"
	contentapp "github.com/store/backend/internal/application/content"
	identityapp "github.com/store/backend/internal/application/identity"
	mediaapp "github.com/store/backend/internal/application/media"
	tradeapp "github.com/store/backend/internal/application/trade"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/infrastructure/cache"
	"github.com/store/backend/internal/infrastructure/config"
	"github.com/store/backend/internal/infrastructure/logger"
	"github.com/store/backend/internal/infrastructure/mail"
	"github.com/store/backend/internal/infrastructure/persistence"
	"github.com/store/backend/internal/infrastructure/storage"
	"github.com/store/backend/internal/interfaces/http/handler"
	"github.com/store/backend/internal/interfaces/http/middleware"
	"github.com/store/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Object storage for product and content images
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()
	if err := objectStorage.EnsureBucket(startupCtx); err != nil {
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}

	// Redis-backed store for mailed confirmation tokens
	tokenStore, err := cache.NewRedisTokenStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := tokenStore.Close(); err != nil {
			log.Error("Error closing Redis connection", zap.Error(err))
		}
	}()

	mailer, err := mail.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Initialize repositories
	imageRepo := persistence.NewGormImageRepository(db.DB)
	imageRefChecker := persistence.NewGormImageReferenceChecker(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	previewRepo := persistence.NewGormPreviewRepository(db.DB)
	detailRepo := persistence.NewGormDetailRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	tagGroupRepo := persistence.NewGormTagGroupRepository(db.DB)
	productGroupRepo := persistence.NewGormProductGroupRepository(db.DB)
	slideRepo := persistence.NewGormSlideRepository(db.DB)
	categoryBlockRepo := persistence.NewGormCategoryBlockRepository(db.DB)
	homeCategoryRepo := persistence.NewGormHomeCategoryRepository(db.DB)
	pageBlockRepo := persistence.NewGormPageBlockRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	repairServiceRepo := persistence.NewGormRepairServiceRepository(db.DB)
	userRequestRepo := persistence.NewGormUserRequestRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Initialize application services
	imageService := mediaapp.NewImageService(imageRepo, imageRefChecker, objectStorage, uow, log)
	productService := catalogapp.NewProductService(
		productRepo, previewRepo, detailRepo, tagRepo, imageService, uow, log)
	tagService := catalogapp.NewTagService(tagRepo, tagGroupRepo, log)
	productGroupService := catalogapp.NewProductGroupService(productGroupRepo)
	sliderService := contentapp.NewSliderService(slideRepo, imageRepo, imageService, uow, log)
	categoryBlockService := contentapp.NewCategoryBlockService(categoryBlockRepo, imageService, uow, log)
	homeCategoryService := contentapp.NewHomeCategoryService(
		homeCategoryRepo, productGroupRepo, productRepo, tagRepo, imageRepo, imageService, uow, log)
	pageService := contentapp.NewPageService(pageBlockRepo, contactRepo, repairServiceRepo, uow)
	requestService := contentapp.NewRequestService(userRequestRepo)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, profileRepo, uow, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, cfg.Admin, log)
	profileService := identityapp.NewProfileService(
		profileRepo, tokenStore, mailer, uow, cfg.App.PublicURL, log)

	// Seed fixed rows the storefront relies on
	if err := tagService.SeedDefaults(startupCtx); err != nil {
		log.Fatal("Failed to seed default tags", zap.Error(err))
	}
	if err := pageService.SeedContact(startupCtx); err != nil {
		log.Fatal("Failed to seed contact card", zap.Error(err))
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	tagHandler := handler.NewTagHandler(tagService)
	productGroupHandler := handler.NewProductGroupHandler(productGroupService)
	sliderHandler := handler.NewSliderHandler(sliderService)
	categoryBlockHandler := handler.NewCategoryBlockHandler(categoryBlockService)
	homeCategoryHandler := handler.NewHomeCategoryHandler(homeCategoryService)
	pageHandler := handler.NewPageHandler(pageService)
	requestHandler := handler.NewRequestHandler(requestService)
	orderHandler := handler.NewOrderHandler(orderService)
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and logging can tag
	// their entries, then CORS and the body size cap.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health endpoints live outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ping", systemHandler.Ping)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Public storefront surface
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/article/:article", productHandler.GetByArticle)
	catalogRoutes.POST("/basket", middleware.OptionalPartner(jwtService), productHandler.Basket)
	catalogRoutes.GET("/tags", tagHandler.ListTags)
	catalogRoutes.GET("/tag-groups", tagHandler.ListTagGroups)
	catalogRoutes.GET("/product-groups", productGroupHandler.List)

	contentRoutes := router.NewDomainGroup("content", "/content")
	contentRoutes.GET("/slider", sliderHandler.List)
	contentRoutes.GET("/category-blocks", categoryBlockHandler.List)
	contentRoutes.GET("/home-categories", homeCategoryHandler.List)
	contentRoutes.GET("/pages/:page_type/blocks", pageHandler.GetBlocks)
	contentRoutes.GET("/contact", pageHandler.GetContact)
	contentRoutes.GET("/repair-services", pageHandler.ListRepairServices)
	contentRoutes.POST("/requests", requestHandler.Create)

	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/orders", middleware.OptionalPartner(jwtService), orderHandler.Create)
	tradeRoutes.GET("/orders/:number", orderHandler.Track)

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/admin/login", authHandler.LoginAdmin)
	authRoutes.POST("/partner/login", authHandler.LoginPartner)

	profileRoutes := router.NewDomainGroup("profile", "/profile")
	profileRoutes.POST("/register", profileHandler.Register)
	profileRoutes.POST("/email/confirm", profileHandler.ConfirmEmailChange)
	profileRoutes.POST("/password/reset", profileHandler.RequestPasswordReset)
	profileRoutes.POST("/password/confirm", profileHandler.ConfirmPasswordReset)

	// Partner cabinet, requires a partner token
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.Use(middleware.RequirePartner(jwtService))
	partnerRoutes.GET("/profile", profileHandler.Me)
	partnerRoutes.PUT("/profile/password", profileHandler.UpdatePassword)
	partnerRoutes.POST("/profile/email", profileHandler.RequestEmailChange)
	partnerRoutes.GET("/orders", orderHandler.ListMine)

	// Admin console, requires an admin token
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin(jwtService))
	adminRoutes.GET("/products", productHandler.ListAdmin)
	adminRoutes.GET("/products/:id", productHandler.GetByID)
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.POST("/tags", tagHandler.CreateTag)
	adminRoutes.PUT("/tags/:id", tagHandler.UpdateTag)
	adminRoutes.DELETE("/tags/:id", tagHandler.DeleteTag)
	adminRoutes.POST("/tag-groups", tagHandler.CreateTagGroup)
	adminRoutes.PUT("/tag-groups/:id", tagHandler.UpdateTagGroup)
	adminRoutes.DELETE("/tag-groups/:id", tagHandler.DeleteTagGroup)
	adminRoutes.POST("/product-groups", productGroupHandler.Create)
	adminRoutes.PUT("/product-groups/:id", productGroupHandler.Update)
	adminRoutes.DELETE("/product-groups/:id", productGroupHandler.Delete)
	adminRoutes.PUT("/slider", sliderHandler.Update)
	adminRoutes.PUT("/category-blocks", categoryBlockHandler.Update)
	adminRoutes.POST("/home-categories", homeCategoryHandler.Create)
	adminRoutes.DELETE("/home-categories/:id", homeCategoryHandler.Delete)
	adminRoutes.PUT("/pages/:page_type/blocks", pageHandler.ReplaceBlocks)
	adminRoutes.PUT("/contact", pageHandler.UpdateContact)
	adminRoutes.PUT("/repair-services", pageHandler.ReplaceRepairServices)
	adminRoutes.GET("/requests", requestHandler.List)
	adminRoutes.PATCH("/requests/:id/checked", requestHandler.MarkChecked)
	adminRoutes.DELETE("/requests/:id", requestHandler.Delete)
	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.GET("/orders/:number", orderHandler.GetByNumber)
	adminRoutes.PUT("/orders/:number/status", orderHandler.UpdateStatus)
	adminRoutes.GET("/partners", profileHandler.List)
	adminRoutes.GET("/partners/:id", profileHandler.GetByID)
	adminRoutes.PUT("/partners/:id/status", profileHandler.UpdateStatus)

	r.Register(catalogRoutes).
		Register(contentRoutes).
		Register(tradeRoutes).
		Register(authRoutes).
		Register(profileRoutes).
		Register(partnerRoutes).
		Register(adminRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
