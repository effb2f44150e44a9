package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductionTaskRepository = (*ProductionTaskRepo)(nil)

// ProductionTaskRepo implementación de ProductionTaskRepository sobre PostgreSQL.
type ProductionTaskRepo struct {
	q Querier
}

// NewProductionTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionTaskRepository(q Querier) *ProductionTaskRepo {
	return &ProductionTaskRepo{q: q}
}

const taskColumns = `id, order_item_id, product_id, quantity, status, priority,
	materials_reserved, started_at, completed_at, created_at, updated_at`

func (r *ProductionTaskRepo) Create(ctx context.Context, t *entity.ProductionTask) error {
	query := `
		INSERT INTO production_queue (id, order_item_id, product_id, quantity, status, priority,
			materials_reserved, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OrderItemID, t.ProductID, t.Quantity, t.Status, t.Priority,
		t.MaterialsReserved, t.StartedAt, t.CompletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create production task: %w", err)
	}
	return nil
}

func (r *ProductionTaskRepo) GetByID(ctx context.Context, id string) (*entity.ProductionTask, error) {
	query := `SELECT ` + taskColumns + ` FROM production_queue WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *ProductionTaskRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionTask, error) {
	query := `SELECT ` + taskColumns + ` FROM production_queue WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *ProductionTaskRepo) GetActiveByOrderItem(ctx context.Context, orderItemID string) (*entity.ProductionTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM production_queue
		WHERE order_item_id = $1 AND status IN ('pending', 'in_progress')
		LIMIT 1`
	return r.getOne(ctx, query, orderItemID)
}

func (r *ProductionTaskRepo) getOne(ctx context.Context, query string, args ...any) (*entity.ProductionTask, error) {
	task, err := scanTask(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production task: %w", err)
	}
	return task, nil
}

// ListActive devuelve las tareas con demanda pendiente, las más prioritarias
// y antiguas primero.
func (r *ProductionTaskRepo) ListActive(ctx context.Context) ([]*entity.ProductionTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM production_queue
		WHERE status IN ('pending', 'in_progress')
		ORDER BY priority DESC, created_at ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	defer rows.Close()

	var result []*entity.ProductionTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production task: %w", err)
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

func (r *ProductionTaskRepo) Update(ctx context.Context, t *entity.ProductionTask) error {
	query := `
		UPDATE production_queue
		SET status = $2, priority = $3, materials_reserved = $4,
			started_at = $5, completed_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.Status, t.Priority, t.MaterialsReserved,
		t.StartedAt, t.CompletedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update production task: tarea %s no existe", t.ID)
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.ProductionTask, error) {
	var t entity.ProductionTask
	err := row.Scan(
		&t.ID, &t.OrderItemID, &t.ProductID, &t.Quantity, &t.Status, &t.Priority,
		&t.MaterialsReserved, &t.StartedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
