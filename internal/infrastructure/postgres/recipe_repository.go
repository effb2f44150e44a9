package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de solo lectura de RecipeRepository sobre PostgreSQL.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

func (r *RecipeRepo) GetByProduct(ctx context.Context, productID string) (*entity.Recipe, error) {
	query := `
		SELECT id, product_id, name, created_at
		FROM recipes WHERE product_id = $1`
	var recipe entity.Recipe
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&recipe.ID, &recipe.ProductID, &recipe.Name, &recipe.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	linesQuery := `
		SELECT recipe_id, material_id, quantity, position
		FROM recipe_materials
		WHERE recipe_id = $1
		ORDER BY position ASC`
	rows, err := r.q.Query(ctx, linesQuery, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("get recipe lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line entity.RecipeMaterial
		if err := rows.Scan(&line.RecipeID, &line.MaterialID, &line.Quantity, &line.Position); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		recipe.Lines = append(recipe.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &recipe, nil
}
