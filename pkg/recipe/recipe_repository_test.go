package recipe_test

import (
	"context"
	"path/filepath"
	"recipe-catalog/cmd/database"
	migration "recipe-catalog/cmd/database/migrate"
	"recipe-catalog/domain"
	"recipe-catalog/pkg/recipe"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "recipes.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, migration.Migrate(db))
	return db
}

func createRecipe(t *testing.T, repo recipe.RecipeRepository, title, ingredients, category string) domain.Recipe {
	t.Helper()
	created, err := repo.CreateRecipe(context.Background(), domain.RecipeFields{
		Title:       title,
		Ingredients: domain.ParseList(ingredients),
		Steps:       "cook it",
		Category:    domain.ParseList(category),
	})
	require.NoError(t, err)
	return created
}

func TestRecipeRepositoryCreateAndGet(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	image := "/uploads/omelette.png"
	created, err := repo.CreateRecipe(ctx, domain.RecipeFields{
		Title:       "Omelette",
		Ingredients: []string{"Eggs", "onions"},
		Steps:       "Whisk, then fry.",
		Category:    []string{"veg", "breakfast"},
		ImageURL:    &image,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, 0, created.IsTried)

	got, err := repo.GetRecipeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, []string{"Eggs", "onions"}, got.Ingredients)
	assert.Equal(t, []string{"veg", "breakfast"}, got.Category)
	assert.Equal(t, "Whisk, then fry.", got.Steps)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, image, *got.ImageURL)
}

func TestRecipeRepositoryCreateWithoutImageStoresNull(t *testing.T) {
	db := newTestDB(t)
	repo := recipe.NewRecipeRepository(db)

	created := createRecipe(t, repo, "Soup", "carrots", "dinner")

	var nulls int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM recipes WHERE id = ? AND image_url IS NULL", created.ID).Scan(&nulls).Error)
	assert.Equal(t, int64(1), nulls)
	assert.Nil(t, created.ImageURL)
}

func TestRecipeRepositoryMissingID(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()
	title := "Nothing"

	_, err := repo.GetRecipeByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = repo.UpdateRecipe(ctx, 42, domain.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = repo.DeleteRecipe(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	assert.ErrorIs(t, repo.MarkTried(ctx, 42), domain.ErrRecipeNotFound)
}

func TestRecipeRepositoryGetRecipes(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	omelette := createRecipe(t, repo, "Omelette", "Eggs, onions", "veg, breakfast")
	soup := createRecipe(t, repo, "Soup", "carrots", "dinner")
	nog := createRecipe(t, repo, "EGGNOG", "milk, sugar", "drinks")
	percent := createRecipe(t, repo, "100% rye", "rye flour", "bread")
	require.NoError(t, repo.MarkTried(ctx, soup.ID))

	tests := []struct {
		name   string
		filter domain.RecipeFilter
		want   []uint
	}{
		{
			name:   "no filter lists newest first",
			filter: domain.RecipeFilter{},
			want:   []uint{percent.ID, nog.ID, soup.ID, omelette.ID},
		},
		{
			name:   "search matches title or ingredients case-insensitively",
			filter: domain.RecipeFilter{Query: "egg"},
			want:   []uint{nog.ID, omelette.ID},
		},
		{
			name:   "search treats wildcards literally",
			filter: domain.RecipeFilter{Query: "%"},
			want:   []uint{percent.ID},
		},
		{
			name:   "category substring",
			filter: domain.RecipeFilter{Category: "BREAK"},
			want:   []uint{omelette.ID},
		},
		{
			name:   "query wins over category",
			filter: domain.RecipeFilter{Query: "soup", Category: "veg"},
			want:   []uint{soup.ID},
		},
		{
			name:   "tried only",
			filter: domain.RecipeFilter{TriedOnly: true},
			want:   []uint{soup.ID},
		},
		{
			name:   "no matches",
			filter: domain.RecipeFilter{Query: "tofu"},
			want:   []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetRecipes(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]uint, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRecipeRepositoryUpdateAppliesOnlyPresentFields(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()
	created := createRecipe(t, repo, "Omelette", "Eggs, onions", "veg")

	title := "Spanish omelette"
	category := []string{"veg", "lunch"}
	updated, err := repo.UpdateRecipe(ctx, created.ID, domain.RecipePatch{
		Title:    &title,
		Category: &category,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Spanish omelette", updated.Title)
	assert.Equal(t, []string{"veg", "lunch"}, updated.Category)
	assert.Equal(t, created.Ingredients, updated.Ingredients)
	assert.Equal(t, created.Steps, updated.Steps)
	assert.Nil(t, updated.ImageURL)

	got, err := repo.GetRecipeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestRecipeRepositoryUpdateCanClearTried(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()
	created := createRecipe(t, repo, "Soup", "carrots", "dinner")
	require.NoError(t, repo.MarkTried(ctx, created.ID))

	notTried := 0
	updated, err := repo.UpdateRecipe(ctx, created.ID, domain.RecipePatch{IsTried: &notTried})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.IsTried)
}

func TestRecipeRepositoryEmptyUpdate(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	created := createRecipe(t, repo, "Soup", "carrots", "dinner")

	_, err := repo.UpdateRecipe(context.Background(), created.ID, domain.RecipePatch{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecipeRepositoryDelete(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()
	created := createRecipe(t, repo, "Soup", "carrots", "dinner")

	deleted, err := repo.DeleteRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = repo.GetRecipeByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestRecipeRepositoryDeleteKeepsSharedImage(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	url := "/uploads/dish.png"
	fields := domain.RecipeFields{
		Title:       "Soup",
		Ingredients: []string{"carrots"},
		Steps:       "cook it",
		Category:    []string{"dinner"},
		ImageURL:    &url,
	}
	first, err := repo.CreateRecipe(ctx, fields)
	require.NoError(t, err)
	fields.Title = "Stew"
	second, err := repo.CreateRecipe(ctx, fields)
	require.NoError(t, err)

	deleted, err := repo.DeleteRecipe(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)
	assert.Nil(t, deleted.ImageURL)

	deleted, err = repo.DeleteRecipe(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.ImageURL)
	assert.Equal(t, url, *deleted.ImageURL)
}

func TestRecipeRepositoryMarkTriedIsIdempotent(t *testing.T) {
	repo := recipe.NewRecipeRepository(newTestDB(t))
	ctx := context.Background()
	created := createRecipe(t, repo, "Soup", "carrots", "dinner")

	require.NoError(t, repo.MarkTried(ctx, created.ID))
	first, err := repo.GetRecipeByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, repo.MarkTried(ctx, created.ID))
	second, err := repo.GetRecipeByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, first.IsTried)
	assert.Equal(t, first, second)
}
