package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/course-catalog-api/api/swagger"
	"github.com/noah-isme/course-catalog-api/internal/handler"
	"github.com/noah-isme/course-catalog-api/internal/middleware"
	"github.com/noah-isme/course-catalog-api/internal/repository"
	"github.com/noah-isme/course-catalog-api/internal/service"
	"github.com/noah-isme/course-catalog-api/pkg/cache"
	"github.com/noah-isme/course-catalog-api/pkg/config"
	"github.com/noah-isme/course-catalog-api/pkg/database"
	"github.com/noah-isme/course-catalog-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-catalog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-catalog-api/pkg/middleware/requestid"
)

// @title Course Catalog API
// @version 1.0.0
// @description Administration backend for the course catalog
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	// Redis is optional; the feed falls back to composing on every request.
	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog feed cache disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.FeedCacheTTL, logr, cfg.Catalog.FeedCacheEnabled && cacheRepo != nil)

	categoryRepo := repository.NewCategoryRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewUserRepository(db)

	validate := service.NewValidator()

	categorySvc := service.NewCategoryService(categoryRepo, cacheSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, userRepo, courseRepo, validate, logr)
	reportSvc := service.NewReportService(registrationRepo, logr)
	catalogSvc := service.NewCatalogService(categoryRepo, courseRepo, cacheSvc, cfg.Catalog.FeedCacheTTL, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)

	categoryHandler := handler.NewCategoryHandler(categorySvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	userHandler := handler.NewUserHandler(userSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		categories := api.Group("/categories")
		categories.GET("", categoryHandler.List)
		categories.POST("", categoryHandler.Create)
		categories.GET("/ordered", categoryHandler.ListOrdered)
		categories.GET("/active", categoryHandler.ListWithActiveCourses)
		categories.GET("/:id", categoryHandler.Get)
		categories.PUT("/:id", categoryHandler.Update)

		courses := api.Group("/courses")
		courses.GET("", courseHandler.List)
		courses.POST("", courseHandler.Create)
		courses.GET("/active", courseHandler.ListActive)
		courses.GET("/code/:code", courseHandler.GetByCode)
		courses.POST("/code/:code/inactivate", courseHandler.Inactivate)
		courses.GET("/:id", courseHandler.Get)
		courses.PUT("/:id", courseHandler.Update)

		registrations := api.Group("/registrations")
		registrations.GET("", registrationHandler.List)
		registrations.POST("", registrationHandler.Register)

		api.GET("/reports/registrations", reportHandler.CourseRegistrations)
		api.GET("/catalog/feed", catalogHandler.Feed)

		users := api.Group("/users")
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
