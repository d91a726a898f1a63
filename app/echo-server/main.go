package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pawScout/app/echo-server/metrics"
	"pawScout/app/echo-server/router"
	"pawScout/business/content"
	"pawScout/business/interview"
	"pawScout/internal/middleware"
	psqlRepo "pawScout/internal/repository/postgres"
	"pawScout/internal/repository/redisrepo"
	"pawScout/internal/rest"
	"pawScout/pkg/config"
	"pawScout/pkg/database"
	redisdb "pawScout/pkg/database/redis"
	"pawScout/pkg/logger"
	"pawScout/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting pawScout", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	// Load domain content and build the engine
	loadDomain := func() (*content.Domain, error) {
		return content.LoadDomain(cfg.Engine.DomainDir)
	}
	dom, err := loadDomain()
	if err != nil {
		logger.Fatal("Failed to load domain content", "error", err)
	}
	logger.Info("Domain content loaded",
		"breeds", len(dom.Breeds), "needs", len(dom.Needs), "features", dom.Table.Len())

	// Init repositories (persistence is optional: without DB_HOST the
	// sessions live in memory only)
	var sessionRepo interview.SessionRepository
	var eventRepo interview.AnswerEventRepository
	if cfg.Database.Host != "" {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")
		sessionRepo = psqlRepo.NewSessionRepository(db)
		eventRepo = psqlRepo.NewAnswerEventRepository(db)
	} else {
		logger.Warn("DB_HOST not set, sessions are not persisted")
	}

	// Init service
	interviewService, err := interview.NewService(dom, sessionRepo, eventRepo, interview.Config{
		TopK:     cfg.Engine.TopK,
		Epsilon:  cfg.Engine.Epsilon,
		ShareKey: cfg.Engine.ShareKey,
	})
	if err != nil {
		logger.Fatal("Failed to build interview service", "error", err)
	}
	interviewService.WithLoader(loadDomain)

	// Auth middleware, with Redis-backed token revocation when enabled
	authRequired := middleware.SessionAuth()
	var tokenStore rest.TokenStore
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer func() {
			if err := redisdb.CloseRedisClient(redisClient); err != nil {
				logger.Error("Failed to close Redis client", err)
			}
		}()
		store := redisrepo.NewTokenStore(redisClient)
		tokenStore = store
		authRequired = middleware.SessionAuthWithRedis(store)
		logger.Info("Redis token store enabled")
	}

	// Init handlers
	interviewHandler := rest.NewInterviewHandler(interviewService, tokenStore)
	adminHandler := rest.NewAdminHandler(interviewService, cfg.Admin.PasswordHash)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(requestMetrics)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupSessionRoutes(api, interviewHandler, authRequired)
	router.SetupAdminRoutes(api, adminHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

// requestMetrics feeds the prometheus counters from every handled request.
func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		route := c.Path()
		elapsed := time.Since(start).Seconds()
		switch {
		case strings.HasSuffix(route, "/matches"), strings.HasSuffix(route, "/matches/detailed"):
			metrics.MatchDuration.Observe(elapsed)
		case strings.HasSuffix(route, "/question"):
			metrics.NextQuestionDuration.Observe(elapsed)
		}
		metrics.RequestsTotal.WithLabelValues(route, fmt.Sprintf("%d", c.Response().Status)).Inc()
		return err
	}
}
