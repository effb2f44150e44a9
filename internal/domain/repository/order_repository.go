package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatus escribe los estados derivados (operativo y de flujo).
	UpdateStatus(ctx context.Context, orderID, operational, flow string) error
	SetShippedAt(ctx context.Context, orderID string, shippedAt time.Time) error
	// ListNonTerminalIDs devuelve los IDs de pedidos cuyo estado operativo
	// no es terminal (ni DONE ni CANCELLED), para el barrido de recálculo.
	ListNonTerminalIDs(ctx context.Context) ([]string, error)
	// ListShippedBefore devuelve los IDs de pedidos SHIPPED con fecha de
	// despacho anterior al corte (para el barrido de cierre).
	ListShippedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// OrderItemRepository define el puerto de persistencia para ítems de pedido.
type OrderItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.OrderItem, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	UpdateFulfillmentStatus(ctx context.Context, itemID, status string) error
	// SetProductionTask enlaza el ítem con su tarea de producción.
	SetProductionTask(ctx context.Context, itemID, taskID string) error
}
