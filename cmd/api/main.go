package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/easyapps/poly-schedule-api/api/swagger"
	"github.com/easyapps/poly-schedule-api/internal/handler"
	internalmiddleware "github.com/easyapps/poly-schedule-api/internal/middleware"
	"github.com/easyapps/poly-schedule-api/internal/repository"
	"github.com/easyapps/poly-schedule-api/internal/service"
	"github.com/easyapps/poly-schedule-api/pkg/cache"
	"github.com/easyapps/poly-schedule-api/pkg/config"
	"github.com/easyapps/poly-schedule-api/pkg/database"
	"github.com/easyapps/poly-schedule-api/pkg/logger"
	corsmiddleware "github.com/easyapps/poly-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/easyapps/poly-schedule-api/pkg/middleware/requestid"
)

// @title Poly Schedule API
// @version 1.0.0
// @description Schedule generation service for Cal Poly course sections
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it every generation just recomputes.
	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, generation cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient)
	}

	validate := validator.New()

	sectionRepo := repository.NewSectionRepository(db, metricsSvc)
	termRepo := repository.NewTermRepository(db)
	userRepo := repository.NewUserRepository(db)
	savedRepo := repository.NewSavedScheduleRepository(db)

	generatorSvc := service.NewScheduleGeneratorService(sectionRepo, cacheRepo, metricsSvc, validate, logr, service.ScheduleGeneratorConfig{
		RawLimit:     cfg.Generator.RawLimit,
		DisplayLimit: cfg.Generator.DisplayLimit,
		NodeBudget:   cfg.Generator.NodeBudget,
		CacheTTL:     cfg.Generator.CacheTTL,
	})
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	termSvc := service.NewTermService(termRepo, logr)
	savedSvc := service.NewSavedScheduleService(savedRepo, validate, logr)
	exportSvc := service.NewExportService(validate, logr)

	generatorHandler := handler.NewScheduleGeneratorHandler(generatorSvc, exportSvc)
	sectionHandler := handler.NewSectionHandler(generatorSvc)
	termHandler := handler.NewTermHandler(termSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	savedHandler := handler.NewSavedScheduleHandler(savedSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
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
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", internalmiddleware.JWT(authSvc), authHandler.Me)

		api.GET("/terms/current", termHandler.Current)
		api.GET("/terms/:code", termHandler.ByCode)

		api.GET("/sections", sectionHandler.List)
		api.POST("/schedules/generate", generatorHandler.Generate)
		if cfg.Export.Enabled {
			api.POST("/schedules/export", generatorHandler.Export)
		}

		me := api.Group("/me", internalmiddleware.JWT(authSvc))
		{
			me.POST("/schedules", savedHandler.Save)
			me.GET("/schedules", savedHandler.List)
			me.DELETE("/schedules/:id", savedHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
