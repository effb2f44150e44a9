package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una definición de materia prima (catálogo).
// Inmutable una vez referenciada por un lote o una receta.
type Material struct {
	ID        string
	Name      string
	Unit      string // unidad de medida: kg, m, unidad, etc.
	CreatedAt time.Time
}

// MaterialLot representa un lote recibido de una materia prima.
// Quantity es la cantidad restante: solo decrece por consumo de reservas.
// Un lote en cero queda agotado pero no se borra (trazabilidad).
type MaterialLot struct {
	ID          string
	MaterialID  string
	WarehouseID string
	SupplierID  string // opcional
	Quantity    decimal.Decimal
	CostPerUnit decimal.Decimal // fijado al momento de la recepción
	ReceivedAt  time.Time
	CreatedAt   time.Time
}

// Exhausted indica si el lote ya no tiene cantidad disponible.
func (l *MaterialLot) Exhausted() bool {
	return l.Quantity.LessThanOrEqual(decimal.Zero)
}
