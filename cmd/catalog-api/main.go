package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ehub-epfl/founders-explorer-api/api/swagger"
	"github.com/ehub-epfl/founders-explorer-api/internal/handler"
	"github.com/ehub-epfl/founders-explorer-api/internal/middleware"
	"github.com/ehub-epfl/founders-explorer-api/internal/repository"
	"github.com/ehub-epfl/founders-explorer-api/internal/service"
	"github.com/ehub-epfl/founders-explorer-api/pkg/cache"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
	"github.com/ehub-epfl/founders-explorer-api/pkg/database"
	"github.com/ehub-epfl/founders-explorer-api/pkg/logger"
	corsmiddleware "github.com/ehub-epfl/founders-explorer-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ehub-epfl/founders-explorer-api/pkg/middleware/requestid"
)

// @title Founders Explorer API
// @version 1.0.0
// @description Course catalog API for entrepreneurship-minded students
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The catalog works without Redis; tree and level lookups just hit
		// the database every time.
		logr.Warn("redis unavailable, continuing without cache")
		redisClient = nil
	}

	courseRepo := repository.NewCourseRepository(db)
	programRepo := repository.NewProgramRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	catalogSvc := service.NewCatalogService(courseRepo, metricsSvc, logr, cfg.Catalog)
	programSvc := service.NewProgramService(programRepo, cacheRepo, metricsSvc, logr, cfg.Catalog)
	ratingSvc := service.NewRatingService(ratingRepo, courseRepo, logr, cfg.Ratings)
	exportSvc := service.NewExportService(courseRepo, logr, cfg.Export)
	authSvc := service.NewAuthService(
		userRepo,
		&service.LogMailer{Logger: logr},
		service.BuildOAuthProviders(cfg.Auth, logr),
		nil,
		logr,
		service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
			Issuer:             cfg.JWT.Issuer,
			OTPLength:          cfg.Auth.OTPLength,
			OTPTTL:             cfg.Auth.OTPTTL,
			ResetTokenTTL:      cfg.Auth.ResetTokenTTL,
			SingleSession:      cfg.Auth.SingleSession,
		},
	)

	courseHandler := handler.NewCourseHandler(catalogSvc, exportSvc, ratingSvc)
	programHandler := handler.NewProgramHandler(programSvc)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/metrics/system", metricsHandler.System)

		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/export", middleware.JWT(authSvc), courseHandler.Export)
			courses.GET("/:key", middleware.OptionalJWT(authSvc), courseHandler.Get)

			rated := courses.Group("/:key/rating", middleware.JWT(authSvc))
			{
				rated.GET("", ratingHandler.Get)
				rated.PUT("", ratingHandler.Submit)
			}
		}

		programs := api.Group("/programs")
		{
			programs.GET("/tree", programHandler.Tree)
			programs.GET("/levels", programHandler.Levels)
			programs.GET("/options", programHandler.Options)
			programs.POST("/cache/invalidate", middleware.JWT(authSvc), programHandler.Invalidate)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/login", authHandler.Login)
			auth.POST("/otp", authHandler.RequestOTP)
			auth.POST("/otp/verify", authHandler.VerifyOTP)
			auth.POST("/oauth/:provider/callback", authHandler.OAuthCallback)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/password/forgot", authHandler.ForgotPassword)
			auth.POST("/password/reset", authHandler.ResetPassword)

			secured := auth.Group("", middleware.JWT(authSvc))
			{
				secured.POST("/logout", authHandler.Logout)
				secured.GET("/me", authHandler.Me)
				secured.PUT("/password", authHandler.ChangePassword)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
