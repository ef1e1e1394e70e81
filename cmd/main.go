package main

import (
	"context"
	"fmt"
	"log" // Using standard log for early errors before zap is set up
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/config"
	"github.com/fathima-sithara/clinic-backend/internal/database"
	"github.com/fathima-sithara/clinic-backend/internal/handlers"
	"github.com/fathima-sithara/clinic-backend/internal/mailer"
	"github.com/fathima-sithara/clinic-backend/internal/middleware"
	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/repository"
	"github.com/fathima-sithara/clinic-backend/internal/server"
	"github.com/fathima-sithara/clinic-backend/internal/services"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		l, _ := zap.NewDevelopment()
		logger = l
	} else {
		l, _ := zap.NewProduction()
		logger = l
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting clinic-backend in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	// Database connections
	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, cfg.MongoConnectTimeout, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.RedisConnectTimeout, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	ml := mailer.NewClient(cfg.Mailer.APIKey, cfg.Mailer.FromEmail, cfg.Mailer.FromName)
	if !ml.IsConfigured() {
		sugar.Warn("Mailer not fully configured. Password reset emails will fail.")
	} else {
		sugar.Info("Mailer configured.")
	}

	doctorRepo := repository.NewMongoDoctorRepo(db)
	patientRepo := repository.NewMongoPatientRepo(db)
	careTeamRepo := repository.NewMongoCareTeamRepo(db)

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.AccessTTL)
	denylist := services.NewTokenDenylist(rdb)

	doctorAuth := services.NewAuthService(doctorRepo, tokens, denylist, ml, cfg.ResetTTL, sugar)
	patientAuth := services.NewAuthService(patientRepo, tokens, denylist, ml, cfg.ResetTTL, sugar)

	doctorSvc := services.NewDoctorService(doctorRepo, doctorAuth)
	patientSvc := services.NewPatientService(patientRepo, patientAuth)
	careTeamSvc := services.NewCareTeamService(careTeamRepo, doctorRepo, patientRepo)

	h := handlers.NewHandler(doctorSvc, patientSvc, careTeamSvc, doctorAuth, patientAuth, cfg.AccessTTL, sugar)

	// Admin tokens resolve against the doctors collection.
	loaders := map[string]middleware.AccountLoader{
		models.RoleDoctor:  doctorRepo,
		models.RolePatient: patientRepo,
		models.RoleAdmin:   doctorRepo,
	}
	protect := middleware.Protect(tokens, denylist, loaders, sugar)

	forgotLimiter := middleware.NewRateLimiter(rdb, "forgot_password", cfg.Security.ForgotPasswordPerHour, time.Hour)
	forgotLimit := forgotLimiter.MiddlewareByKey(func(c *fiber.Ctx) string { return c.IP() })

	app := server.New(cfg, h, protect, forgotLimit, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		sugar.Errorf("MongoDB disconnect error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorf("Redis client close error: %v", err)
	}

	sugar.Info("Graceful shutdown complete.")
}
