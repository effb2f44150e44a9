package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el stock de un producto en una bodega; registro en cero si no existe.
func (r *InventoryRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, updated_at
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, query, productID, warehouseID)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, reserved, updated_at
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.getOne(ctx, query, productID, warehouseID)
}

func (r *InventoryRepo) getOne(ctx context.Context, query, productID, warehouseID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.Reserved, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{
				ProductID:   productID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				Reserved:    decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza el registro. Rechaza antes de escribir los
// estados que violan los invariantes: stock negativo o reservado mayor que
// el stock.
func (r *InventoryRepo) Upsert(ctx context.Context, rec *entity.InventoryRecord) error {
	if rec.Quantity.IsNegative() {
		return domain.ErrNegativeStock
	}
	if rec.Reserved.IsNegative() || rec.Reserved.GreaterThan(rec.Quantity) {
		return domain.ErrNegativeStock
	}
	query := `
		INSERT INTO inventory (product_id, warehouse_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(ctx, query, rec.ProductID, rec.WarehouseID, rec.Quantity, rec.Reserved)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}
