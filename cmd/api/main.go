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

	"github.com/lumilearn/lumilearn-api/internal/config"
	"github.com/lumilearn/lumilearn-api/internal/database"
	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/handler"
	"github.com/lumilearn/lumilearn-api/internal/middleware"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/repository"
	"github.com/lumilearn/lumilearn-api/internal/router"
	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/lumilearn/lumilearn-api/pkg/ai"
	cloud "github.com/lumilearn/lumilearn-api/pkg/cloudinary"
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

	if err := db.AutoMigrate(
		&models.Level{}, &models.Subject{}, &models.Course{}, &models.Video{},
		&models.Checkpoint{}, &models.VideoProgress{}, &models.QuizResponse{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caches disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, completion events disabled")
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	checkpointRepo := repository.NewCheckpointRepository(db)
	progressRepo := repository.NewVideoProgressRepository(db)
	responseRepo := repository.NewQuizResponseRepository(db)

	progressService := service.NewProgressService(progressRepo, responseRepo, natsConn, logger)
	catalogService := service.NewCatalogService(courseRepo, redisClient, cfg.CatalogCacheTTL, logger)
	statsService := service.NewStatsService(progressRepo, responseRepo, courseRepo, redisClient, cfg.StatsCacheTTL, buildAdviceEnhancer(cfg, logger), logger)
	importService := service.NewCheckpointImportService(videoRepo, checkpointRepo, logger)
	playbackService := service.NewPlaybackService(videoRepo, checkpointRepo, progressService, logger)
	thumbnailService := service.NewThumbnailService(uploader, videoRepo, cfg.ThumbnailMaxSizeMB, logger)

	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	progressHandler := handler.NewProgressHandler(progressService, playbackService, validate, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)
	playbackHandler := handler.NewPlaybackHandler(playbackService, logger)
	adminVideoHandler := handler.NewAdminVideoHandler(importService, thumbnailService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		CatalogHandler:    catalogHandler,
		ProgressHandler:   progressHandler,
		StatsHandler:      statsHandler,
		PlaybackHandler:   playbackHandler,
		AdminVideoHandler: adminVideoHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildAdviceEnhancer wires the configured AI provider into the statistics
// overview. With provider "none" the overview falls back to rule-based advice.
func buildAdviceEnhancer(cfg config.Config, logger zerolog.Logger) service.AdviceEnhancer {
	if cfg.AIProvider != "openai" {
		return nil
	}

	adviser, err := ai.NewOpenAIAdviser(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Logger: logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("openai adviser unavailable, using rule-based advice")
		return nil
	}

	return &aiAdviceEnhancer{adviser: adviser}
}

// aiAdviceEnhancer bridges the generic adviser into the stats service.
type aiAdviceEnhancer struct {
	adviser ai.Adviser
}

func (e *aiAdviceEnhancer) Advise(ctx context.Context, overview dto.StatsOverviewResponse) (string, error) {
	study := ai.StudyContext{
		VideosCompleted:  overview.Videos.Done,
		VideosInProgress: overview.Videos.InProgress,
		MinutesWatched:   overview.Videos.MinutesWatched,
		MinutesRemaining: overview.Videos.MinutesRemaining,
	}
	for _, quiz := range overview.Quizzes {
		study.Courses = append(study.Courses, ai.CourseProgress{
			Title:         quiz.CourseTitle,
			FirstAvgScore: quiz.First.AvgScore,
			LastAvgScore:  quiz.Last.AvgScore,
			Improvement:   quiz.Improvement,
			Suggestion:    quiz.Suggestion,
		})
	}

	return e.adviser.Advise(ctx, study)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
