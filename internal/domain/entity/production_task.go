package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una tarea de producción.
// pending → in_progress → completed; cancelled desde pending o in_progress.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// ProductionTask representa una tarea en la cola de producción.
// Como máximo una tarea activa (no terminal) por ítem de pedido.
type ProductionTask struct {
	ID                string
	OrderItemID       string
	ProductID         string
	Quantity          decimal.Decimal
	Status            string
	Priority          int
	MaterialsReserved bool
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active indica si la tarea ocupa un estado no terminal.
func (t *ProductionTask) Active() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusInProgress
}

// Terminal indica si la tarea llegó a un estado final.
func (t *ProductionTask) Terminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}
