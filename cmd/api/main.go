package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/config"
	"github.com/benchlab/gaia-eval-api/internal/database"
	"github.com/benchlab/gaia-eval-api/internal/handler"
	"github.com/benchlab/gaia-eval-api/internal/middleware"
	"github.com/benchlab/gaia-eval-api/internal/repository"
	"github.com/benchlab/gaia-eval-api/internal/router"
	"github.com/benchlab/gaia-eval-api/internal/service"
	"github.com/benchlab/gaia-eval-api/pkg/ai"
	"github.com/benchlab/gaia-eval-api/pkg/extract"
	"github.com/benchlab/gaia-eval-api/pkg/objectstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store, err := objectstore.New(objectstore.Config{
		Endpoint:    cfg.StorageEndpoint,
		AccessKey:   cfg.StorageAccessKey,
		SecretKey:   cfg.StorageSecretKey,
		Bucket:      cfg.StorageBucket,
		UseSSL:      cfg.StorageUseSSL,
		DownloadDir: cfg.StorageDownloadDir,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create object store client: %v", err)
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	completer, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		DefaultModel:   cfg.AnswerModel,
		RequestTimeout: cfg.AIRequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("failed to create openai client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	extractor := extract.New(logger)

	questionRepo := repository.NewQuestionRepository(db)
	resultRepo := repository.NewResultRepository(db)

	answerService := service.NewAnswerService(completer, service.AnswerConfig{
		AnswerModel:       cfg.AnswerModel,
		CompareModel:      cfg.CompareModel,
		AnswerTemperature: ai.Temperature(cfg.AnswerTemperature),
	}, logger)
	eventPublisher := service.NewNATSEventPublisher(natsConn, cfg.NATSResultSubject, logger)
	questionService := service.NewQuestionService(questionRepo, validate, logger)
	evaluationService := service.NewEvaluationService(questionRepo, resultRepo, answerService, store, extractor, eventPublisher, validate, logger)
	summaryService := service.NewSummaryService(questionRepo, resultRepo, redisClient, cfg.SummaryCacheTTL, logger)
	datasetService, err := service.NewDatasetService(questionRepo, store, logger)
	if err != nil {
		log.Fatalf("failed to create dataset service: %v", err)
	}

	questionHandler := handler.NewQuestionHandler(questionService, evaluationService, validate, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, validate, logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, logger)
	datasetHandler := handler.NewDatasetHandler(datasetService, cfg.DatasetManifestPath, cfg.DatasetAttachmentsDir, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		QuestionHandler:   questionHandler,
		EvaluationHandler: evaluationHandler,
		SummaryHandler:    summaryHandler,
		DatasetHandler:    datasetHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
