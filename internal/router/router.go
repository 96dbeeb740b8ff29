package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/simplylearn/api/internal/config"
	"github.com/simplylearn/api/internal/handler"
	"github.com/simplylearn/api/internal/middleware"
	"github.com/simplylearn/api/internal/models"
	"github.com/simplylearn/api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	QuizHandler       *handler.QuizHandler
	ForumHandler      *handler.ForumHandler
	DashboardHandler  *handler.DashboardHandler
	Protect           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	protect := deps.Protect
	if protect == nil {
		protect = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", protect))
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses")
		deps.CourseHandler.RegisterPublic(courses)
		deps.CourseHandler.RegisterProtected(courses.Group("", protect,
			middleware.RequireRole(models.RoleTutor, models.RoleAdmin)))
	}

	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", protect)
		deps.EnrollmentHandler.Register(enrollments)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", protect)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", protect)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", protect)
		deps.QuizHandler.Register(quizzes)
	}

	if deps.ForumHandler != nil {
		forum := api.Group("/forum", protect)
		deps.ForumHandler.Register(forum)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", protect)
		deps.DashboardHandler.Register(dashboard)
	}
}
