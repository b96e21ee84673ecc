package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruitment-portal-backend/config"
	_ "recruitment-portal-backend/docs" // Important for Swagger
	v1 "recruitment-portal-backend/internal/delivery/http/v1"
	"recruitment-portal-backend/internal/repository/postgres"
	"recruitment-portal-backend/internal/usecase"
	"recruitment-portal-backend/pkg/auth"
	"recruitment-portal-backend/pkg/database"
	"recruitment-portal-backend/pkg/logger"
	"recruitment-portal-backend/pkg/redis"
	"recruitment-portal-backend/pkg/security"
	"recruitment-portal-backend/pkg/storage"
	"recruitment-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           Recruitment Portal API
// @version         1.0
// @description     Candidate application workflow backend using Clean Architecture.
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

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting recruitment portal backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (upload rate limiting; the limiter fails open without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, upload rate limiting disabled", "error", err)
	}
	defer redis.Close()

	// 5. Setup Document Storage
	ctx := context.Background()
	store, err := storage.NewS3Storage(ctx, storage.Config{
		Provider:        storage.Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		logger.Log.Error("Failed to configure document storage", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	jobRepo := postgres.NewJobRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	engine := usecase.NewPreferenceEngine()
	limiter := security.NewUploadLimiter(cfg.UploadsPerMinute, cfg.UploadsPerDay)

	jobUC := usecase.NewJobUsecase(jobRepo)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, validate)
	draftUC := usecase.NewDraftUsecase(applicationRepo, candidateRepo, jobRepo, engine, validate)
	submissionUC := usecase.NewSubmissionUsecase(applicationRepo)
	uploadUC := usecase.NewUploadUsecase(applicationRepo, draftUC, store, limiter)
	wizardUC := usecase.NewWizardUsecase(draftUC, jobRepo, engine)

	// 8. Setup Auth Provider (JWKS)
	jwksProvider := auth.NewProvider(cfg.JWKSURL)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		JobUC:        jobUC,
		CandidateUC:  candidateUC,
		DraftUC:      draftUC,
		SubmissionUC: submissionUC,
		UploadUC:     uploadUC,
		WizardUC:     wizardUC,
		Engine:       engine,
		JWKSProvider: jwksProvider,
		Config:       cfg,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
