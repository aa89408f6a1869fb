package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"forms-api/internal/config"
	"forms-api/internal/db"
	"forms-api/internal/email"
	apihttp "forms-api/internal/http"
	"forms-api/internal/repository"
	"forms-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	ownerRepo := repository.NewPgOwnerRepository(pool)
	formRepo := repository.NewPgFormRepository(pool)
	questionRepo := repository.NewPgQuestionRepository(pool)
	submissionRepo := repository.NewPgSubmissionRepository(pool)
	answerRepo := repository.NewPgAnswerRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		submitLimiter service.SubmitRateLimiter
		tokenStore    service.RefreshTokenStore
		redisClient   *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			submitLimiter = service.NewRedisSubmitRateLimiter(redisClient, cfg.SubmitRateWindow, cfg.SubmitRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if submitLimiter == nil {
		submitLimiter = service.NewSubmitRateLimiter(cfg.SubmitRateWindow, cfg.SubmitRateMax)
	}

	jwtSvc := service.NewJWTServiceWithStore(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, tokenStore)

	mailSvc := service.NewConfirmationMailService(logger, emailSender)
	dispatcher := service.NewConfirmationDispatcher(logger, answerRepo, questionRepo, mailSvc)
	authSvc := service.NewAuthService(logger, ownerRepo)
	formSvc := service.NewFormService(logger, formRepo, questionRepo)
	submissionSvc := service.NewSubmissionService(logger, formRepo, questionRepo, submissionRepo, answerRepo, dispatcher, submitLimiter)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	formHandler := apihttp.NewFormHandler(logger, formSvc)
	submissionHandler := apihttp.NewSubmissionHandler(logger, formSvc, submissionSvc)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, formHandler, submissionHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
