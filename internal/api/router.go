package api

import (
	"time"

	"fin-dashboard/docs"
	"fin-dashboard/internal/api/handlers"
	"fin-dashboard/pkg/auth"
	"fin-dashboard/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Chat    *handlers.ChatHandler
	Records *handlers.RecordHandler
	Finance *handlers.FinanceHandler
}

type RouterConfig struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, cfg RouterConfig, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth routes
	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	chat := protected.Group("/chat")
	chat.Post("/messages", h.Chat.SendMessage)
	chat.Put("/document", h.Chat.SetDocument)
	chat.Post("/upload", h.Chat.Upload)
	chat.Get("/session", h.Chat.Session)
	chat.Delete("/session", h.Chat.Clear)

	records := protected.Group("/records")
	records.Get("/:table", h.Records.List)
	records.Post("/:table/operations", h.Records.RunOperation)
	records.Get("/:table/export", h.Records.Export)

	fin := protected.Group("/finance")
	fin.Get("/budget", h.Finance.Budget)
	fin.Get("/portfolio", h.Finance.Portfolio)
	fin.Get("/forecast", h.Finance.Forecast)
	fin.Post("/loan", h.Finance.Loan)

	return app
}
