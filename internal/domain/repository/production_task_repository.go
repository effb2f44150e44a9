package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionTaskRepository define el puerto de persistencia para la cola de producción.
type ProductionTaskRepository interface {
	Create(ctx context.Context, task *entity.ProductionTask) error
	GetByID(ctx context.Context, id string) (*entity.ProductionTask, error)
	// GetForUpdate bloquea la fila de la tarea (SELECT FOR UPDATE) para
	// serializar transiciones concurrentes sobre la misma tarea.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionTask, error)
	// GetActiveByOrderItem devuelve la tarea activa (pending o in_progress)
	// del ítem, o nil si no hay. Sostiene el invariante de exclusividad.
	GetActiveByOrderItem(ctx context.Context, orderItemID string) (*entity.ProductionTask, error)
	// ListActive devuelve todas las tareas pending o in_progress
	// (demanda de producción pendiente, para el planificador).
	ListActive(ctx context.Context) ([]*entity.ProductionTask, error)
	Update(ctx context.Context, task *entity.ProductionTask) error
}
