package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"answerme/internal/auth"
	"answerme/internal/cache"
	"answerme/internal/config"
	"answerme/internal/db"
	"answerme/internal/handler"
	"answerme/internal/model"
	"answerme/internal/news"
	"answerme/internal/rag"
	"answerme/internal/repository"
	"answerme/internal/router"
	"answerme/internal/service"
)

// @title AnswerMe API
// @version 1.0
// @description News-summary chat API with keyword subscriptions, daily AI digests, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Keyword{},
		&model.Thread{},
		&model.Message{},
	); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	keywordRepo := repository.NewKeywordRepository(gormDB)
	threadRepo := repository.NewThreadRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize retrieval pipeline
	newsReader := news.NewReader(cfg.NewsDataPath)
	engine := rag.NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	indexes := service.NewIndexProvider(newsReader, engine, logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	keywordService := service.NewKeywordService(keywordRepo)
	summaryService := service.NewSummaryService(threadRepo, keywordRepo, indexes, engine, logger)
	threadService := service.NewThreadService(threadRepo, messageRepo)
	queryService := service.NewQueryService(threadRepo, messageRepo, indexes, engine, logger)
	subscriptionService := service.NewSubscriptionService(userRepo, userService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	keywordHandler := handler.NewKeywordHandler(keywordService, userService)
	threadHandler := handler.NewThreadHandler(threadService, summaryService, queryService, userService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, userService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		keywordHandler,
		threadHandler,
		subscriptionHandler,
	)

	logger.Info("starting server",
		zap.String("port", cfg.ServerPort),
		zap.String("news_data_path", cfg.NewsDataPath))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server start", zap.Error(err))
	}
}
