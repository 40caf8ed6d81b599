package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfaqihw/dev-screener/internal/config"
	"github.com/mfaqihw/dev-screener/internal/domain/fiber/handler"
	"github.com/mfaqihw/dev-screener/internal/engine"
	"github.com/mfaqihw/dev-screener/internal/logger"
	"github.com/mfaqihw/dev-screener/internal/middleware"
	"github.com/mfaqihw/dev-screener/internal/model"
	"github.com/mfaqihw/dev-screener/internal/repository"
	"github.com/mfaqihw/dev-screener/internal/service"
	"github.com/mfaqihw/dev-screener/internal/usecase"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	zapLogger, err := logger.New(appConfig.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, time.Minute))

	db := connectDB()

	evaluationRepo := repository.NewEvaluationRepository(db)
	jobRepo := repository.NewJobRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	github := service.NewGitHubService(config.LoadGitHubConfig(), zapLogger)

	// Without a Gemini key the synthesizer goes straight to the
	// deterministic strategy and job recommendation is disabled.
	var gemini service.GeminiServiceInterface
	var generator engine.ContentGenerator
	geminiService, err := service.NewGeminiService(ctx, config.LoadGeminiConfig(), zapLogger)
	if err != nil {
		zapLogger.Warn("reasoning service unavailable, heuristic profiles only", zap.Error(err))
	} else {
		gemini = geminiService
		generator = geminiService
	}

	extractor := engine.NewExtractor(engine.DefaultCategories, zapLogger)
	synthesizer := engine.NewSynthesizer(generator, zapLogger)

	uc := usecase.NewEvaluationUsecase(
		evaluationRepo, jobRepo, candidateRepo, matchRepo,
		github, gemini, extractor, synthesizer, zapLogger,
	)
	handler.NewEvaluateHandler(uc).RegisterRoutes(app)

	zapLogger.Info("server starting", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func connectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(100)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatalf("Could not enable uuid-ossp extension: %v", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Could not enable pgvector extension: %v", err)
	}
	err = db.AutoMigrate(
		&model.CandidateEvaluation{},
		&model.Job{},
		&model.StoredCandidate{},
		&model.MatchRecord{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
