package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

type RecipeImageRepository struct {
	db *sql.DB
}

func NewRecipeImageRepository(db *sql.DB) *RecipeImageRepository {
	return &RecipeImageRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RecipeImageRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS recipe_images (
	recipe_id TEXT PRIMARY KEY,
	recipe_name TEXT NOT NULL,
	cuisine TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL,
	image_source TEXT NOT NULL,
	provider TEXT NOT NULL DEFAULT '',
	search_term TEXT NOT NULL DEFAULT '',
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS recipe_image_history (
	id BIGSERIAL PRIMARY KEY,
	recipe_id TEXT NOT NULL,
	image_url TEXT NOT NULL,
	image_source TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recipe_images_source ON recipe_images(image_source);
CREATE INDEX IF NOT EXISTS idx_recipe_image_history_recipe ON recipe_image_history(recipe_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RecipeImageRepository) GetByRecipeID(ctx context.Context, recipeID string) (*domain.RecipeImage, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT recipe_id, recipe_name, cuisine, image_url, image_source, provider, search_term, score, updated_at
FROM recipe_images
WHERE recipe_id = $1
`, recipeID)

	var image domain.RecipeImage
	var source string
	err := row.Scan(
		&image.RecipeID, &image.RecipeName, &image.Cuisine, &image.ImageURL, &source,
		&image.Provider, &image.SearchTerm, &image.Score, &image.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRecipeNotFound, "get recipe image", fmt.Errorf("recipe_id=%s", recipeID))
		}
		return nil, fmt.Errorf("scan recipe image: %w", err)
	}
	image.Source = domain.ImageSource(source)
	return &image, nil
}

// Upsert stores the current image and appends it to the history.
func (r *RecipeImageRepository) Upsert(ctx context.Context, image *domain.RecipeImage) error {
	if image == nil {
		return domain.WrapError(domain.ErrInvalidInput, "upsert recipe image", errors.New("image is nil"))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO recipe_images (
	recipe_id, recipe_name, cuisine, image_url, image_source, provider, search_term, score, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (recipe_id) DO UPDATE SET
	recipe_name = EXCLUDED.recipe_name,
	cuisine = EXCLUDED.cuisine,
	image_url = EXCLUDED.image_url,
	image_source = EXCLUDED.image_source,
	provider = EXCLUDED.provider,
	search_term = EXCLUDED.search_term,
	score = EXCLUDED.score,
	updated_at = EXCLUDED.updated_at
`,
		image.RecipeID, image.RecipeName, image.Cuisine, image.ImageURL, string(image.Source),
		image.Provider, image.SearchTerm, image.Score, image.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert recipe image: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO recipe_image_history (recipe_id, image_url, image_source, created_at)
VALUES ($1,$2,$3,$4)
`, image.RecipeID, image.ImageURL, string(image.Source), image.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert recipe image history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	return nil
}
