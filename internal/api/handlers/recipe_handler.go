package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"recipe-catalog/domain"
	"recipe-catalog/internal/api/presenters"
	"recipe-catalog/pkg/recipe"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		GetRecipesByCategory(c *fiber.Ctx) error
		GetTriedRecipes(c *fiber.Ctx) error
		AddRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		MarkAsTried(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		TriedOnly: c.QueryBool("tried", false),
	}
	return h.listRecipes(c, filter)
}

func (h *recipeHandler) GetRecipesByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if decoded, err := url.PathUnescape(category); err == nil {
		category = decoded
	}
	return h.listRecipes(c, domain.RecipeFilter{Category: category})
}

func (h *recipeHandler) GetTriedRecipes(c *fiber.Ctx) error {
	return h.listRecipes(c, domain.RecipeFilter{TriedOnly: true})
}

func (h *recipeHandler) listRecipes(c *fiber.Ctx, filter domain.RecipeFilter) error {
	res, err := h.recipeService.GetRecipes(c.UserContext(), filter)
	if err != nil {
		return failure(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	id, err := recipeID(c)
	if err != nil {
		return failure(c, domain.MessageFailedGetRecipeDetail, err)
	}

	res, err := h.recipeService.GetRecipeByID(c.UserContext(), id)
	if err != nil {
		return failure(c, domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) AddRecipe(c *fiber.Ctx) error {
	req := new(domain.CreateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	image, err := imageUpload(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.CreateRecipe(c.UserContext(), *req, image)
	if err != nil {
		return failure(c, domain.MessageFailedAddRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := recipeID(c)
	if err != nil {
		return failure(c, domain.MessageFailedUpdateRecipe, err)
	}

	req, err := updateRequest(c)
	if err != nil {
		return failure(c, domain.MessageFailedBodyRequest, err)
	}

	image, err := imageUpload(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.UserContext(), id, req, image)
	if err != nil {
		return failure(c, domain.MessageFailedUpdateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) MarkAsTried(c *fiber.Ctx) error {
	id, err := recipeID(c)
	if err != nil {
		return failure(c, domain.MessageFailedMarkAsTried, err)
	}

	if err := h.recipeService.MarkTried(c.UserContext(), id); err != nil {
		return failure(c, domain.MessageFailedMarkAsTried, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkAsTried)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := recipeID(c)
	if err != nil {
		return failure(c, domain.MessageFailedDeleteRecipe, err)
	}

	if err := h.recipeService.DeleteRecipe(c.UserContext(), id); err != nil {
		return failure(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func failure(c *fiber.Ctx, message string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s: %v", c.Method(), c.OriginalURL(), message, err)
	}
	return presenters.ErrorResponse(c, status, message, err)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func recipeID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRecipeID, c.Params("id"))
	}
	return uint(id), nil
}

// updateRequest reads a partial update from a JSON, multipart or urlencoded
// body. Keys that are absent stay nil.
func updateRequest(c *fiber.Ctx) (domain.UpdateRecipeRequest, error) {
	var req domain.UpdateRecipeRequest
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	values := map[string][]string{}
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		if err := c.BodyParser(&req); err != nil {
			return req, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return req, nil
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return req, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		values = form.Value
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			values[string(key)] = append(values[string(key)], string(value))
		})
	}

	req.Title = formValue(values, "title")
	req.Ingredients = formValue(values, "ingredients")
	req.Steps = formValue(values, "steps")
	req.Category = formValue(values, "category")
	if raw := formValue(values, "is_tried"); raw != nil {
		tried, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return req, fmt.Errorf("%w: is_tried must be 0 or 1", domain.ErrValidation)
		}
		req.IsTried = &tried
	}
	return req, nil
}

func formValue(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

// imageUpload returns nil when the request carries no image part. An empty
// part, as browsers send for an untouched file input, counts as absent.
func imageUpload(c *fiber.Ctx) (*domain.ImageUpload, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File["image"]
	if len(files) == 0 || (files[0].Filename == "" && files[0].Size == 0) {
		return nil, nil
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &domain.ImageUpload{Filename: files[0].Filename, Data: data}, nil
}
