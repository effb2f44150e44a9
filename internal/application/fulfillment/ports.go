package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// Repos agrupa los repositorios que participan en una transacción del motor
// de fulfillment. El TxRunner entrega una instancia atada a la transacción.
type Repos struct {
	Materials      repository.MaterialRepository
	Lots           repository.MaterialLotRepository
	Recipes        repository.RecipeRepository
	Tasks          repository.ProductionTaskRepository
	Inventory      repository.InventoryRepository
	Orders         repository.OrderRepository
	Items          repository.OrderItemRepository
	Replenishments repository.ReplenishmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor:
// Commit si fn devuelve nil, Rollback si devuelve error.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// OrderEvent es el evento publicado cuando cambia el estado de un pedido.
type OrderEvent struct {
	Type              string    `json:"type"`
	OrderID           string    `json:"order_id"`
	OperationalStatus string    `json:"operational_status"`
	FlowStatus        string    `json:"flow_status"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// OrderEventPublisher publica eventos de cambio de estado (tras el commit).
// La publicación es best-effort: un fallo se registra pero no revierte la tx.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// DeficitSource expone qué materiales están en déficit global según el
// planificador. El agregador lo consulta para las reglas de materiales.
type DeficitSource interface {
	MaterialsInDeficit(ctx context.Context) (map[string]bool, error)
}
