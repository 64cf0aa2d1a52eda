package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessAddRecipe       = "recipe added"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessMarkAsTried     = "recipe marked as tried"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedAddRecipe       = "failed to add recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedMarkAsTried     = "failed to mark recipe as tried"

	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrInvalidRecipeID = fmt.Errorf("%w: invalid recipe id", ErrValidation)
	ErrEmptyUpdate     = fmt.Errorf("%w: no update data provided", ErrValidation)
)

type (
	// CreateRecipeRequest carries list fields in their comma-joined wire form.
	// Validation runs on the normalized RecipeFields.
	CreateRecipeRequest struct {
		Title       string `json:"title" form:"title"`
		Ingredients string `json:"ingredients" form:"ingredients"`
		Steps       string `json:"steps" form:"steps"`
		Category    string `json:"category" form:"category"`
		IsTried     int    `json:"is_tried" form:"is_tried"`
	}

	// UpdateRecipeRequest distinguishes an absent field (nil) from a field
	// sent with an empty value.
	UpdateRecipeRequest struct {
		Title       *string `json:"title"`
		Ingredients *string `json:"ingredients"`
		Steps       *string `json:"steps"`
		Category    *string `json:"category"`
		IsTried     *int    `json:"is_tried"`
	}

	ImageUpload struct {
		Filename string
		Data     []byte
	}

	RecipeFields struct {
		Title       string   `validate:"required"`
		Ingredients []string `validate:"required,min=1,dive,required"`
		Steps       string   `validate:"required"`
		Category    []string `validate:"required,min=1,dive,required"`
		ImageURL    *string
		IsTried     int `validate:"oneof=0 1"`
	}

	RecipePatch struct {
		Title       *string   `validate:"omitnil,min=1"`
		Ingredients *[]string `validate:"omitnil,min=1,dive,required"`
		Steps       *string   `validate:"omitnil,min=1"`
		Category    *[]string `validate:"omitnil,min=1,dive,required"`
		ImageURL    *string
		IsTried     *int `validate:"omitnil,oneof=0 1"`
	}

	// RecipeFilter selects at most one list mode. Query wins over Category,
	// Category wins over TriedOnly.
	RecipeFilter struct {
		Query     string
		Category  string
		TriedOnly bool
	}

	Recipe struct {
		ID          uint     `json:"id"`
		Title       string   `json:"title"`
		Ingredients []string `json:"ingredients"`
		Steps       string   `json:"steps"`
		Category    []string `json:"category"`
		ImageURL    *string  `json:"image_url"`
		IsTried     int      `json:"is_tried"`
	}
)

func (p RecipePatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Ingredients == nil &&
		p.Steps == nil &&
		p.Category == nil &&
		p.ImageURL == nil &&
		p.IsTried == nil
}

// ParseList splits a comma-joined value into trimmed, non-empty tokens.
func ParseList(raw string) []string {
	tokens := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if token := strings.TrimSpace(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
