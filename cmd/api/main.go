package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-profile-backend/config"
	"go-profile-backend/internal/delivery/event"
	"go-profile-backend/internal/delivery/http/middleware"
	v1 "go-profile-backend/internal/delivery/http/v1"
	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/repository/postgres"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/internal/worker"
	"go-profile-backend/pkg/database"
	"go-profile-backend/pkg/email"
	"go-profile-backend/pkg/events"
	"go-profile-backend/pkg/geography"
	"go-profile-backend/pkg/llm"
	"go-profile-backend/pkg/logger"
	pkgredis "go-profile-backend/pkg/redis"
	"go-profile-backend/pkg/storage"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// @title           Profile Backend API
// @version         1.0
// @description     Profile reconciliation service: manual edits, CV-driven updates and notifications.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		Production: config.IsProduction(),
	})
	defer logger.Sync()
	logger.Log.Infow("Starting profile backend", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	var rdb *goredis.Client
	if cfg.UpstashRedisURL != "" {
		rdb, err = pkgredis.NewClient(ctx, pkgredis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		if err != nil {
			logger.Log.Warnw("Redis unavailable, using in-process caches", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	skillRepo := postgres.NewSkillRepository(dbPool)
	mappingRepo := postgres.NewSkillMappingRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	tx := postgres.NewTransactor(dbPool)

	// 6. Setup external collaborators
	geo := geography.NewCachedLookup(
		geography.NewClient(cfg.GeographyAPIURL, cfg.GeographyTimeout),
		rdb,
		cfg.GeographyCacheTTL,
	)

	var (
		cvText domain.CVTextProducer
		cvDocs domain.CVDocumentStore
	)
	if cfg.CVBucket != "" {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Warnw("CV storage unavailable", "error", err)
		} else {
			cvStore := storage.NewCVStore(s3Client, cfg.CVBucket)
			cvText, cvDocs = cvStore, cvStore
		}
	}

	var extractor domain.ProfileExtractor
	if cfg.GeminiAPIKey != "" {
		gen, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Warnw("CV extraction unavailable", "error", err)
		} else {
			extractor = llm.NewExtractor(gen)
		}
	}

	var (
		publisher  domain.EventPublisher
		subscriber *events.Subscriber
	)
	nc, js, err := events.Connect(ctx, cfg.NATSUrl)
	if err != nil {
		logger.Log.Warnw("Event bus unavailable, job recommendations and feedback disabled", "error", err)
	} else {
		defer nc.Close()
		publisher = events.NewPublisher(js)
		subscriber = events.NewSubscriber(js)
	}

	mailer := email.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFromEmail)

	// 7. Setup UseCases
	profileUC := usecase.NewProfileUsecase(usecase.ProfileUsecaseDeps{
		Profiles:    profileRepo,
		Skills:      skillRepo,
		Mappings:    mappingRepo,
		Tx:          tx,
		CVText:      cvText,
		CVDocuments: cvDocs,
		Extractor:   extractor,
		Locations:   usecase.NewLocationReconciler(geo),
		Events:      publisher,
	})
	skillUC := usecase.NewSkillUsecase(skillRepo)
	notificationUC := usecase.NewNotificationUsecase(userRepo, mailer, usecase.NotificationConfig{
		BatchSize:  cfg.NotificationBatchSize,
		BatchDelay: cfg.NotificationBatchDelay,
	})

	healthChecks := map[string]usecase.HealthCheck{
		"database": func(ctx context.Context) error { return dbPool.Ping(ctx) },
	}
	if rdb != nil {
		healthChecks["redis"] = pkgredis.HealthCheck(rdb)
	}
	healthUC := usecase.NewHealthUsecase(healthChecks)

	// 8. Setup background jobs
	cleanup, err := worker.NewSkillCleanupScheduler(cfg.SkillCleanupCron, skillUC, rdb)
	if err != nil {
		logger.Log.Errorw("Invalid skill cleanup schedule", "error", err)
		os.Exit(1)
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ProfileUC:      profileUC,
		SkillUC:        skillUC,
		HealthUC:       healthUC,
		RateLimiter:    middleware.NewRateLimiter(rdb),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		IsProduction:   config.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 10. Run
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return cleanup.Run(gctx)
	})

	if subscriber != nil {
		feedback := event.NewJobFeedbackHandler(notificationUC)
		err := subscriber.Subscribe(gctx, domain.SubjectJobFeedback, event.JobFeedbackDurable, events.SubscribeOptions{
			AckWait:       30 * time.Minute,
			MaxAckPending: 1,
			MaxDeliver:    5,
			NakDelay:      time.Minute,
		}, feedback.Handle)
		if err != nil {
			logger.Log.Warnw("Job feedback consumer not started", "error", err)
		} else {
			g.Go(func() error {
				<-gctx.Done()
				subscriber.Stop()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		logger.Log.Errorw("Server stopped with error", "error", err)
		logger.Sync()
		os.Exit(1)
	}

	logger.Log.Info("Server exiting")
}
