package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// RecipeRepository define el puerto de lectura de recetas (resolver de BOM).
// El motor de fulfillment nunca escribe recetas.
type RecipeRepository interface {
	// GetByProduct devuelve la receta del producto con sus líneas en orden,
	// o nil si el producto no tiene receta.
	GetByProduct(ctx context.Context, productID string) (*entity.Recipe, error)
}
