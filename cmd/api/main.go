package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-clubmatch-backend/config"
	_ "go-clubmatch-backend/docs" // Important for Swagger
	v1 "go-clubmatch-backend/internal/delivery/http/v1"
	"go-clubmatch-backend/internal/repository/postgres"
	"go-clubmatch-backend/internal/usecase"
	"go-clubmatch-backend/pkg/audit"
	"go-clubmatch-backend/pkg/auth"
	"go-clubmatch-backend/pkg/database"
	"go-clubmatch-backend/pkg/email"
	"go-clubmatch-backend/pkg/logger"
	"go-clubmatch-backend/pkg/paygate"
	"go-clubmatch-backend/pkg/redis"
	"go-clubmatch-backend/pkg/storage"
	"go-clubmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// @title           ClubMatch API
// @version         1.0
// @description     Backend for the football club recruitment marketplace using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting clubmatch backend", "port", cfg.Port)
	auditLog := audit.New("clubmatch-api")
	defer auditLog.Sync()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; rate limiting falls back to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer redis.Close()

	// 5. Custom request validators
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	membershipRepo := postgres.NewMembershipRepository(dbPool)
	paymentRepo := postgres.NewPaymentRepository(dbPool)
	placementRepo := postgres.NewPlacementRepository(dbPool)
	vacancyRepo := postgres.NewVacancyRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	messageRepo := postgres.NewMessageRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 7. Setup External Services
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notifications disabled")
	}

	gateway := paygate.NewClient(cfg.PaygateBaseURL, cfg.PaygateSecretKey)

	var storageClient *storage.Client
	if cfg.S3Bucket != "" {
		storageClient, err = storage.NewClient(context.Background(), storage.Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Warn("Object storage unavailable - logo uploads disabled", "error", err)
		}
	}

	tokens := auth.NewManager(cfg.JWTSecret)

	// 8. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo, tokens)
	membershipUC := usecase.NewMembershipUsecase(membershipRepo, paymentRepo, userRepo, gateway, emailService, auditLog)
	placementUC := usecase.NewPlacementUsecase(placementRepo, vacancyRepo, userRepo, emailService, auditLog)
	webhookUC := usecase.NewWebhookUsecase(cfg.PaygateWebhookSecret, paymentRepo, membershipUC, placementUC, auditLog)
	vacancyUC := usecase.NewVacancyUsecase(vacancyRepo, userRepo, placementUC)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, vacancyRepo, membershipUC, placementUC)
	messageUC := usecase.NewMessageUsecase(messageRepo, userRepo)
	adminUC := usecase.NewAdminUsecase(adminRepo, auditLog)
	healthUC := usecase.NewHealthUsecase(dbPool)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		MembershipUC:  membershipUC,
		WebhookUC:     webhookUC,
		VacancyUC:     vacancyUC,
		ApplicationUC: applicationUC,
		PlacementUC:   placementUC,
		MessageUC:     messageUC,
		AdminUC:       adminUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		Storage:       storageClient,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
