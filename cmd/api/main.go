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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/simplylearn/api/internal/config"
	"github.com/simplylearn/api/internal/database"
	"github.com/simplylearn/api/internal/handler"
	"github.com/simplylearn/api/internal/middleware"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/observability"
	"github.com/simplylearn/api/internal/repository"
	"github.com/simplylearn/api/internal/router"
	"github.com/simplylearn/api/internal/service"
	"github.com/simplylearn/api/pkg/mail"
	"github.com/simplylearn/api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns: cfg.DatabaseMaxConns,
		MaxIdleConns: cfg.DatabaseMaxIdle,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseMaterial{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizResult{},
		&models.ForumPost{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard caching disabled")
	}

	observability.RegisterMetrics()

	fileStorage, err := buildStorage(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create file storage: %v", err)
	}

	mailer, err := buildMailer(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	forumRepo := repository.NewForumRepository(db)

	authService := service.NewAuthService(userRepo, mailer, validate, service.AuthConfig{
		JWTSecret:        cfg.JWTSecret,
		TokenTTL:         cfg.TokenTTL,
		OTPTTL:           cfg.OTPTTL,
		LockoutThreshold: cfg.LockoutThreshold,
		LockoutWindow:    cfg.LockoutWindow,
		AppName:          cfg.AppName,
	}, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, enrollmentRepo, submissionRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, enrollmentRepo, fileStorage, validate, logger)
	quizService := service.NewQuizService(quizRepo, courseRepo, enrollmentRepo, validate, logger)
	forumService := service.NewForumService(forumRepo, courseRepo, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, courseRepo, enrollmentRepo, assignmentRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	cookieSecure := cfg.AppEnv == "production"
	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL, cookieSecure, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	quizHandler := handler.NewQuizHandler(quizService, logger)
	forumHandler := handler.NewForumHandler(forumService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.UploadMaxMB * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		CourseHandler:     courseHandler,
		EnrollmentHandler: enrollmentHandler,
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		QuizHandler:       quizHandler,
		ForumHandler:      forumHandler,
		DashboardHandler:  dashboardHandler,
		Protect:           middleware.Protect(cfg.JWTSecret, userRepo),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildStorage(cfg config.Config, logger zerolog.Logger) (storage.FileStorage, error) {
	switch cfg.StorageProvider {
	case "cloudinary":
		return storage.NewCloudinary(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloud,
			APIKey:    cfg.CloudinaryKey,
			APISecret: cfg.CloudinarySecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
	default:
		return storage.NewLocal(cfg.UploadDir, logger)
	}
}

func buildMailer(cfg config.Config, logger zerolog.Logger) (mail.Mailer, error) {
	switch cfg.MailProvider {
	case "sendgrid":
		return mail.NewSendGrid(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress)
	default:
		return mail.NewLog(logger), nil
	}
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
