package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-clubmatch-backend/config"
	"go-clubmatch-backend/internal/repository/postgres"
	"go-clubmatch-backend/internal/usecase"
	"go-clubmatch-backend/pkg/audit"
	"go-clubmatch-backend/pkg/database"
	"go-clubmatch-backend/pkg/email"
	"go-clubmatch-backend/pkg/logger"
	"go-clubmatch-backend/pkg/paygate"

	"github.com/robfig/cron/v3"
)

// The sweeper expires memberships whose renewal date has passed. Reads in the
// API treat such rows as inactive regardless, so the sweep only reconciles
// stored status with reality; running it hourly is plenty.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	logger.Log.Info("Starting membership sweeper")
	auditLog := audit.New("clubmatch-sweeper")
	defer auditLog.Sync()

	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	userRepo := postgres.NewUserRepository(dbPool)
	membershipRepo := postgres.NewMembershipRepository(dbPool)
	paymentRepo := postgres.NewPaymentRepository(dbPool)

	emailService := email.NewEmailService(cfg)
	gateway := paygate.NewClient(cfg.PaygateBaseURL, cfg.PaygateSecretKey)

	membershipUC := usecase.NewMembershipUsecase(membershipRepo, paymentRepo, userRepo, gateway, emailService, auditLog)

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		expired, err := membershipUC.ExpireDue(ctx)
		if err != nil {
			logger.Log.Error("Membership sweep failed", "error", err)
			return
		}
		logger.Log.Info("Membership sweep finished", "expired", expired)
	}

	// Run once at startup so a long-stopped sweeper catches up immediately.
	sweep()

	c := cron.New()
	if _, err := c.AddFunc("@hourly", sweep); err != nil {
		logger.Log.Error("Failed to schedule sweep", "error", err)
		os.Exit(1)
	}
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Stopping membership sweeper...")
	<-c.Stop().Done()
	logger.Log.Info("Sweeper exiting")
}
