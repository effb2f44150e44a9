package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo implementación de ReplenishmentRepository sobre PostgreSQL.
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

// UpsertPending mantiene una sola solicitud pendiente por material: si ya
// existe actualiza cantidad y prioridad, si no inserta.
// Requiere el índice único parcial sobre (material_id) WHERE status = 'pending'.
func (r *ReplenishmentRepo) UpsertPending(ctx context.Context, req *entity.ReplenishmentRequest) error {
	query := `
		INSERT INTO replenishment_requests (id, material_id, quantity, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', $4, $5, $6)
		ON CONFLICT (material_id) WHERE status = 'pending'
		DO UPDATE SET quantity = EXCLUDED.quantity, priority = EXCLUDED.priority, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.MaterialID, req.Quantity, req.Priority, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert replenishment: %w", err)
	}
	return nil
}

func (r *ReplenishmentRepo) GetByID(ctx context.Context, id string) (*entity.ReplenishmentRequest, error) {
	query := `
		SELECT id, material_id, quantity, status, priority, created_at, updated_at
		FROM replenishment_requests
		WHERE id = $1`
	var req entity.ReplenishmentRequest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.MaterialID, &req.Quantity, &req.Status,
		&req.Priority, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get replenishment: %w", err)
	}
	return &req, nil
}

func (r *ReplenishmentRepo) ListByStatus(ctx context.Context, status string) ([]*entity.ReplenishmentRequest, error) {
	query := `
		SELECT id, material_id, quantity, status, priority, created_at, updated_at
		FROM replenishment_requests
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC`
	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list replenishments: %w", err)
	}
	defer rows.Close()

	var result []*entity.ReplenishmentRequest
	for rows.Next() {
		var req entity.ReplenishmentRequest
		if err := rows.Scan(
			&req.ID, &req.MaterialID, &req.Quantity, &req.Status,
			&req.Priority, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan replenishment: %w", err)
		}
		result = append(result, &req)
	}
	return result, rows.Err()
}

func (r *ReplenishmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE replenishment_requests SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update replenishment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update replenishment status: solicitud %s no existe", id)
	}
	return nil
}
