package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"recipe-catalog/domain"
	"recipe-catalog/internal/api/handlers"
	"recipe-catalog/internal/api/presenters"
	"recipe-catalog/internal/api/routes"
	"recipe-catalog/internal/middleware"
	"recipe-catalog/internal/utils"
	"recipe-catalog/internal/utils/storage"
	"recipe-catalog/pkg/recipe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// NewApp wires the HTTP surface over db and images. Neither is owned by the
// app; the caller closes them.
func NewApp(db *gorm.DB, images storage.ImageSink, accessLog io.Writer) *fiber.App {
	validator := utils.InitValidator()
	app := fiber.New(fiber.Config{
		BodyLimit:    utils.GetConfigInt("MAX_UPLOAD_MB", 10) * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     accessLog,
	}))

	// Repository
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	recipeService := recipe.NewRecipeService(recipeRepository, images, validator)

	// Handler
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// routes
	routesConfig := routes.Config{
		App:           app,
		RecipeHandler: recipeHandler,
		Middleware:    middleware.NewMiddleware(utils.GetConfig("CORS_ALLOW_ORIGINS")),
	}
	if local, ok := images.(*storage.LocalStorage); ok {
		routesConfig.UploadDir = local.Dir
		routesConfig.UploadPrefix = local.URLPrefix
	}
	routesConfig.Setup()
	return app
}

// OpenAccessLog appends to LOG_FILE and mirrors to stdout.
func OpenAccessLog() (io.Writer, io.Closer, error) {
	path := utils.GetConfig("LOG_FILE")
	if path == "" {
		return os.Stdout, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(os.Stdout, file), file, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := domain.MessageFailedProcessRequest

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code == fiber.StatusNotFound {
			message = domain.MessageRouteNotFound
		}
	}
	return presenters.ErrorResponse(c, code, message, err)
}
