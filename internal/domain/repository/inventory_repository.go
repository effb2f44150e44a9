package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// InventoryRepository define el puerto para stock de producto terminado
// por producto y bodega. Usado dentro de transacciones.
type InventoryRepository interface {
	// Get devuelve el registro, o un registro en cero si no existe.
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	Upsert(ctx context.Context, record *entity.InventoryRecord) error
}
