package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa el stock de producto terminado en una bodega.
// Invariantes: Quantity nunca negativo; Reserved nunca mayor que Quantity.
type InventoryRecord struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Reserved    decimal.Decimal
	UpdatedAt   time.Time
}

// Available devuelve el stock disponible (no reservado).
func (r *InventoryRecord) Available() decimal.Decimal {
	return r.Quantity.Sub(r.Reserved)
}
