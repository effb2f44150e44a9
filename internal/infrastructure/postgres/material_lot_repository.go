package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.MaterialLotRepository = (*MaterialLotRepo)(nil)

// MaterialLotRepo implementación de MaterialLotRepository sobre PostgreSQL.
type MaterialLotRepo struct {
	q Querier
}

// NewMaterialLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialLotRepository(q Querier) *MaterialLotRepo {
	return &MaterialLotRepo{q: q}
}

const lotColumns = `id, material_id, warehouse_id, supplier_id, quantity, cost_per_unit, received_at, created_at`

func (r *MaterialLotRepo) Create(ctx context.Context, lot *entity.MaterialLot) error {
	query := `
		INSERT INTO material_lots (id, material_id, warehouse_id, supplier_id, quantity, cost_per_unit, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.MaterialID, lot.WarehouseID, nullIfEmpty(lot.SupplierID),
		lot.Quantity, lot.CostPerUnit, lot.ReceivedAt, lot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create material lot: %w", err)
	}
	return nil
}

func (r *MaterialLotRepo) GetByID(ctx context.Context, id string) (*entity.MaterialLot, error) {
	query := `SELECT ` + lotColumns + ` FROM material_lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material lot: %w", err)
	}
	return lot, nil
}

// ListByMaterial devuelve los lotes del material en orden FIFO
// (received_at ASC, id ASC).
func (r *MaterialLotRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.MaterialLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM material_lots
		WHERE material_id = $1
		ORDER BY received_at ASC, id ASC`
	return r.list(ctx, query, materialID)
}

// ListByMaterialForUpdate bloquea los lotes del material (SELECT FOR UPDATE)
// en orden FIFO, para que reservas concurrentes del mismo material no asignen
// dos veces la misma cantidad.
func (r *MaterialLotRepo) ListByMaterialForUpdate(ctx context.Context, materialID string) ([]*entity.MaterialLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM material_lots
		WHERE material_id = $1
		ORDER BY received_at ASC, id ASC
		FOR UPDATE`
	return r.list(ctx, query, materialID)
}

func (r *MaterialLotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MaterialLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list material lots: %w", err)
	}
	defer rows.Close()

	var result []*entity.MaterialLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material lot: %w", err)
		}
		result = append(result, lot)
	}
	return result, rows.Err()
}

func (r *MaterialLotRepo) UpdateQuantity(ctx context.Context, lotID string, quantity decimal.Decimal) error {
	query := `UPDATE material_lots SET quantity = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, lotID, quantity)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lot quantity: lote %s no existe", lotID)
	}
	return nil
}

func (r *MaterialLotRepo) TotalAvailableByMaterial(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT material_id, COALESCE(SUM(quantity), 0)
		FROM material_lots
		GROUP BY material_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("total available by material: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var materialID string
		var total decimal.Decimal
		if err := rows.Scan(&materialID, &total); err != nil {
			return nil, fmt.Errorf("scan material total: %w", err)
		}
		result[materialID] = total
	}
	return result, rows.Err()
}

func scanLot(row pgx.Row) (*entity.MaterialLot, error) {
	var lot entity.MaterialLot
	var supplier *string
	err := row.Scan(
		&lot.ID, &lot.MaterialID, &lot.WarehouseID, &supplier,
		&lot.Quantity, &lot.CostPerUnit, &lot.ReceivedAt, &lot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplier != nil {
		lot.SupplierID = *supplier
	}
	return &lot, nil
}
