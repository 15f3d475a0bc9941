package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quiz-service/internal/api/http/handlers"
	"github.com/spec-kit/quiz-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Questions      *handlers.QuestionsHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/token", cfg.Auth.Token)
	authGroup.Get("/users/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	questions := app.Group("/questions", cfg.AuthMiddleware.Handle)
	questions.Post("/v1/generate-question", cfg.Questions.GenerateQuestion)
	questions.Post("/v2/generate-question", cfg.Questions.GenerateQuestions)
	questions.Post("/v1/analyze-response", cfg.Questions.AnalyzeResponse)

	activity := app.Group("/activity", cfg.AuthMiddleware.Handle)
	activity.Get("/v1/recent", cfg.Activity.Recent)
}
