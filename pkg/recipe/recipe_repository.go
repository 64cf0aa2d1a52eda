package recipe

import (
	"context"
	"errors"
	"recipe-catalog/domain"
	"recipe-catalog/entities"
	"strings"

	"gorm.io/gorm"
)

const listSeparator = ", "

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, fields domain.RecipeFields) (domain.Recipe, error)
		GetRecipeByID(ctx context.Context, id uint) (domain.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error)
		UpdateRecipe(ctx context.Context, id uint, patch domain.RecipePatch) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, id uint) (domain.Recipe, error)
		MarkTried(ctx context.Context, id uint) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, fields domain.RecipeFields) (domain.Recipe, error) {
	recipe := &entities.Recipe{
		Title:       fields.Title,
		Ingredients: joinList(fields.Ingredients),
		Steps:       fields.Steps,
		Category:    joinList(fields.Category),
		ImageURL:    fields.ImageURL,
		IsTried:     fields.IsTried,
	}
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return domain.Recipe{}, err
	}
	return toDomain(recipe), nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (domain.Recipe, error) {
	recipe, err := findRecipe(r.db.WithContext(ctx), id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return toDomain(recipe), nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	var recipes []*entities.Recipe

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})
	switch {
	case filter.Query != "":
		term := likeTerm(filter.Query)
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(ingredients) LIKE ? ESCAPE '\'`, term, term)
	case filter.Category != "":
		query = query.Where(`LOWER(category) LIKE ? ESCAPE '\'`, likeTerm(filter.Category))
	case filter.TriedOnly:
		query = query.Where("is_tried = ?", 1)
	}

	if err := query.Order("id desc").Find(&recipes).Error; err != nil {
		return nil, err
	}

	res := make([]domain.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toDomain(recipe))
	}
	return res, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, id uint, patch domain.RecipePatch) (domain.Recipe, error) {
	if patch.IsEmpty() {
		return domain.Recipe{}, domain.ErrEmptyUpdate
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Ingredients != nil {
		updates["ingredients"] = joinList(*patch.Ingredients)
	}
	if patch.Steps != nil {
		updates["steps"] = *patch.Steps
	}
	if patch.Category != nil {
		updates["category"] = joinList(*patch.Category)
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	if patch.IsTried != nil {
		updates["is_tried"] = *patch.IsTried
	}

	var updated *entities.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Updates(updates).Error; err != nil {
			return err
		}
		updated, err = findRecipe(tx, id)
		return err
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	return toDomain(updated), nil
}

// DeleteRecipe returns the removed row so callers can release resources it
// referenced once the delete has committed. ImageURL comes back nil when
// another recipe still points at the same image.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) (domain.Recipe, error) {
	var deleted *entities.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&entities.Recipe{}, id).Error; err != nil {
			return err
		}
		if recipe.ImageURL != nil && *recipe.ImageURL != "" {
			var shared int64
			if err := tx.Model(&entities.Recipe{}).Where("image_url = ?", *recipe.ImageURL).Count(&shared).Error; err != nil {
				return err
			}
			if shared > 0 {
				recipe.ImageURL = nil
			}
		}
		deleted = recipe
		return nil
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	return toDomain(deleted), nil
}

func (r *recipeRepository) MarkTried(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, id)
		if err != nil {
			return err
		}
		return tx.Model(recipe).Update("is_tried", 1).Error
	})
}

func findRecipe(db *gorm.DB, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := db.Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func toDomain(recipe *entities.Recipe) domain.Recipe {
	return domain.Recipe{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Ingredients: domain.ParseList(recipe.Ingredients),
		Steps:       recipe.Steps,
		Category:    domain.ParseList(recipe.Category),
		ImageURL:    recipe.ImageURL,
		IsTried:     recipe.IsTried,
	}
}

func joinList(tokens []string) string {
	return strings.Join(tokens, listSeparator)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeTerm(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
