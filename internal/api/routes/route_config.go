package routes

import (
	"recipe-catalog/internal/api/handlers"
	"recipe-catalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware

	// UploadDir is served under UploadPrefix when images are kept on the
	// local filesystem. Leave empty for remote storage.
	UploadDir    string
	UploadPrefix string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.RecoverMiddleware())
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Recipes()
	c.Uploads()
}

func (c *Config) GuestRoute() {
	c.App.Get("/", handlers.HealthCheck)
}

func (c *Config) Recipes() {
	c.App.Get("/recipes", c.RecipeHandler.GetRecipes)
	c.App.Get("/recipes/category/:category", c.RecipeHandler.GetRecipesByCategory)
	c.App.Get("/recipes/:id", c.RecipeHandler.GetRecipeDetail)
	c.App.Get("/tried-recipes", c.RecipeHandler.GetTriedRecipes)

	c.App.Post("/add-recipe", c.RecipeHandler.AddRecipe)
	c.App.Patch("/recipes/:id", c.RecipeHandler.UpdateRecipe)
	c.App.Post("/recipes/:id/mark-tried", c.RecipeHandler.MarkAsTried)
	c.App.Delete("/recipes/:id", c.RecipeHandler.DeleteRecipe)
}

func (c *Config) Uploads() {
	if c.UploadDir == "" {
		return
	}
	c.App.Static(c.UploadPrefix, c.UploadDir)
}
