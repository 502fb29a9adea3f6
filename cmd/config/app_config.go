package config

import (
	"os"
	"time"

	"github.com/rohald89/Hungie/internal/api/handlers"
	"github.com/rohald89/Hungie/internal/api/routes"
	"github.com/rohald89/Hungie/internal/middleware"
	"github.com/rohald89/Hungie/internal/utils"
	"github.com/rohald89/Hungie/internal/utils/storage"
	"github.com/rohald89/Hungie/pkg/ai"
	"github.com/rohald89/Hungie/pkg/jwt"
	"github.com/rohald89/Hungie/pkg/recipe"
	"github.com/rohald89/Hungie/pkg/scan"
	"github.com/rohald89/Hungie/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         20 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	aiClient := ai.NewOpenAIClient(ai.ClientConfig{
		APIKey:      utils.GetConfig("OPENAI_API_KEY"),
		BaseURL:     utils.GetConfig("OPENAI_BASE_URL"),
		VisionModel: utils.GetConfig("OPENAI_VISION_MODEL"),
		RecipeModel: utils.GetConfig("OPENAI_RECIPE_MODEL"),
		ImageModel:  utils.GetConfig("OPENAI_IMAGE_MODEL"),
	})

	// Repository
	userRepository := user.NewUserRepository(db)
	scanRepository := scan.NewScanRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	recipeService := recipe.NewRecipeService(recipeRepository, aiClient, s3)
	scanService := scan.NewScanService(scanRepository, recipeRepository, aiClient, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		ScanHandler:   scanHandler,
		RecipeHandler: recipeHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
