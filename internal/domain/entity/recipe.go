package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe representa la lista de materiales de un producto (receta / BOM).
// De solo lectura para el motor de fulfillment.
type Recipe struct {
	ID        string
	ProductID string
	Name      string
	Lines     []RecipeMaterial
	CreatedAt time.Time
}

// RecipeMaterial es una línea de receta: material y cantidad requerida
// por unidad de producto. Position preserva el orden de la receta.
type RecipeMaterial struct {
	RecipeID   string
	MaterialID string
	Quantity   decimal.Decimal // requerido por unidad producida
	Position   int
}

// TotalRequired devuelve la cantidad de material de esta línea para
// producir units unidades del producto.
func (rm RecipeMaterial) TotalRequired(units decimal.Decimal) decimal.Decimal {
	return rm.Quantity.Mul(units)
}
