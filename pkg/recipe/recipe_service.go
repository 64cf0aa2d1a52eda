package recipe

import (
	"context"
	"errors"
	"fmt"
	"recipe-catalog/domain"
	"recipe-catalog/internal/utils/storage"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, image *domain.ImageUpload) (domain.Recipe, error)
		GetRecipeByID(ctx context.Context, id uint) (domain.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error)
		UpdateRecipe(ctx context.Context, id uint, req domain.UpdateRecipeRequest, image *domain.ImageUpload) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, id uint) error
		MarkTried(ctx context.Context, id uint) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		images           storage.ImageSink
		validator        *validator.Validate
	}
)

func NewRecipeService(recipeRepository RecipeRepository, images storage.ImageSink, validator *validator.Validate) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		images:           images,
		validator:        validator,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, image *domain.ImageUpload) (domain.Recipe, error) {
	fields := domain.RecipeFields{
		Title:       strings.TrimSpace(req.Title),
		Ingredients: domain.ParseList(req.Ingredients),
		Steps:       strings.TrimSpace(req.Steps),
		Category:    domain.ParseList(req.Category),
		IsTried:     req.IsTried,
	}
	if err := s.validate(fields); err != nil {
		return domain.Recipe{}, err
	}

	if image != nil {
		url, err := s.images.Store(ctx, image.Filename, image.Data)
		if err != nil {
			return domain.Recipe{}, err
		}
		fields.ImageURL = &url
	}

	return s.recipeRepository.CreateRecipe(ctx, fields)
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id uint) (domain.Recipe, error) {
	return s.recipeRepository.GetRecipeByID(ctx, id)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.recipeRepository.GetRecipes(ctx, filter)
}

// UpdateRecipe rejects fields that are present but blank. The image, when
// given, is stored before the row is touched so a failed upload leaves the
// recipe unchanged.
func (s *recipeService) UpdateRecipe(ctx context.Context, id uint, req domain.UpdateRecipeRequest, image *domain.ImageUpload) (domain.Recipe, error) {
	var patch domain.RecipePatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	if req.Ingredients != nil {
		ingredients := domain.ParseList(*req.Ingredients)
		patch.Ingredients = &ingredients
	}
	if req.Steps != nil {
		steps := strings.TrimSpace(*req.Steps)
		patch.Steps = &steps
	}
	if req.Category != nil {
		category := domain.ParseList(*req.Category)
		patch.Category = &category
	}
	patch.IsTried = req.IsTried

	if patch.IsEmpty() && image == nil {
		return domain.Recipe{}, domain.ErrEmptyUpdate
	}
	if err := s.validate(patch); err != nil {
		return domain.Recipe{}, err
	}

	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return domain.Recipe{}, err
	}

	if image != nil {
		url, err := s.images.Store(ctx, image.Filename, image.Data)
		if err != nil {
			return domain.Recipe{}, err
		}
		patch.ImageURL = &url
	}

	return s.recipeRepository.UpdateRecipe(ctx, id, patch)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id uint) error {
	deleted, err := s.recipeRepository.DeleteRecipe(ctx, id)
	if err != nil {
		return err
	}

	if deleted.ImageURL != nil && *deleted.ImageURL != "" {
		if err := s.images.Remove(context.WithoutCancel(ctx), *deleted.ImageURL); err != nil {
			log.Warnf("recipe %d deleted but image %s was not removed: %v", id, *deleted.ImageURL, err)
		}
	}
	return nil
}

func (s *recipeService) MarkTried(ctx context.Context, id uint) error {
	return s.recipeRepository.MarkTried(ctx, id)
}

func (s *recipeService) validate(v interface{}) error {
	err := s.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		names := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			names = append(names, fieldName(fe.StructField()))
		}
		return fmt.Errorf("%w: missing or invalid %s", domain.ErrValidation, strings.Join(names, ", "))
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func fieldName(structField string) string {
	if i := strings.IndexByte(structField, '['); i >= 0 {
		structField = structField[:i]
	}
	switch structField {
	case "IsTried":
		return "is_tried"
	case "ImageURL":
		return "image_url"
	}
	return strings.ToLower(structField)
}
