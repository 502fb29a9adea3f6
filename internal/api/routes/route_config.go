package routes

import (
	"github.com/rohald89/Hungie/internal/api/handlers"
	"github.com/rohald89/Hungie/internal/middleware"
	"github.com/rohald89/Hungie/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	ScanHandler   handlers.ScanHandler
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Scans()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Scans() {
	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))
	{
		scans.Post("", c.ScanHandler.CreateScan)
		scans.Get("", c.ScanHandler.GetScans)
		scans.Post("/fridge-scan", c.ScanHandler.FridgeScan)
		scans.Get("/:id", c.ScanHandler.GetScanDetail)
		scans.Get("/:id/recipes", c.RecipeHandler.GetScanRecipes)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	{
		recipes.Post("/generate", c.ScanHandler.GenerateRecipes)
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/favorites", c.RecipeHandler.GetFavoriteRecipes)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
		recipes.Post("/favorite", c.RecipeHandler.ToggleFavorite)
		recipes.Post("/:id/image", c.RecipeHandler.GenerateRecipeImage)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
