package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, number, operational_status, flow_status, shipped_at, created_at, updated_at`

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&o.ID, &o.Number, &o.OperationalStatus, &o.FlowStatus,
		&o.ShippedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, operational, flow string) error {
	query := `
		UPDATE orders
		SET operational_status = $2, flow_status = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, orderID, operational, flow)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order status: pedido %s no existe", orderID)
	}
	return nil
}

func (r *OrderRepo) SetShippedAt(ctx context.Context, orderID string, shippedAt time.Time) error {
	query := `UPDATE orders SET shipped_at = $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, orderID, shippedAt); err != nil {
		return fmt.Errorf("set shipped_at: %w", err)
	}
	return nil
}

func (r *OrderRepo) ListNonTerminalIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT id FROM orders
		WHERE operational_status NOT IN ('DONE', 'CANCELLED')
		ORDER BY created_at ASC`
	return r.listIDs(ctx, query)
}

func (r *OrderRepo) ListShippedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		SELECT id FROM orders
		WHERE operational_status = 'SHIPPED' AND shipped_at IS NOT NULL AND shipped_at < $1
		ORDER BY shipped_at ASC`
	return r.listIDs(ctx, query, cutoff)
}

func (r *OrderRepo) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.OrderItemRepository = (*OrderItemRepo)(nil)

// OrderItemRepo implementación de OrderItemRepository sobre PostgreSQL.
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

const itemColumns = `id, order_id, product_id, quantity, fulfillment_status,
	fulfillment_type, production_task_id, created_at, updated_at`

func (r *OrderItemRepo) GetByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE id = $1`
	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}
	return item, nil
}

func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var result []*entity.OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *OrderItemRepo) UpdateFulfillmentStatus(ctx context.Context, itemID, status string) error {
	query := `UPDATE order_items SET fulfillment_status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, itemID, status)
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item status: ítem %s no existe", itemID)
	}
	return nil
}

func (r *OrderItemRepo) SetProductionTask(ctx context.Context, itemID, taskID string) error {
	query := `UPDATE order_items SET production_task_id = $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, itemID, taskID); err != nil {
		return fmt.Errorf("set production task: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.OrderItem, error) {
	var it entity.OrderItem
	var taskID *string
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.FulfillmentStatus,
		&it.FulfillmentType, &taskID, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if taskID != nil {
		it.ProductionTaskID = *taskID
	}
	return &it, nil
}
