package routes

import (
	"GreenChoice-Backend/internal/api/handlers"
	"GreenChoice-Backend/internal/middleware"
	"GreenChoice-Backend/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App         *fiber.App
	UserHandler handlers.UserHandler
	ScanHandler handlers.ScanHandler
	Middleware  middleware.Middleware
	JWTService  jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Scans()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/guest", c.UserHandler.GuestLogin)
		user.Post("/convert", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.ConvertGuest)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
		user.Put("/note", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.SaveNote)
		user.Get("/note", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetNote)
	}
}

func (c *Config) Scans() {
	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))
	scans.Get("/home", c.ScanHandler.GetHomeStats)

	scans.Post("/predict", c.ScanHandler.Predict)
	scans.Post("", c.ScanHandler.SaveScan)
	scans.Get("", c.ScanHandler.GetHistory)

	// Live snapshot feed
	scans.Use("/live", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	scans.Get("/live", c.ScanHandler.Live())
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works"})
	})
}
