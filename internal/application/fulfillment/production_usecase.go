package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ProductionUseCase opera la cola de producción: una máquina de estados
// pending → in_progress → completed, con cancelled desde pending o
// in_progress. Toda transición corre en su propia transacción con la fila de
// la tarea bloqueada.
type ProductionUseCase struct {
	txRunner           TxRunner
	deficits           DeficitSource
	publisher          OrderEventPublisher
	defaultWarehouseID string
	log                *logger.Logger
}

// NewProductionUseCase construye el caso de uso de producción.
// defaultWarehouseID es la bodega que acredita la producción terminada.
func NewProductionUseCase(
	txRunner TxRunner,
	deficits DeficitSource,
	publisher OrderEventPublisher,
	defaultWarehouseID string,
	log *logger.Logger,
) *ProductionUseCase {
	return &ProductionUseCase{
		txRunner:           txRunner,
		deficits:           deficits,
		publisher:          publisher,
		defaultWarehouseID: defaultWarehouseID,
		log:                log,
	}
}

// Create inserta una tarea pending para el ítem y marca el ítem in_production.
// Falla con ErrDuplicateActiveTask si el ítem ya tiene una tarea activa
// (exactamente una tarea no terminal por ítem, el motor lo garantiza).
func (uc *ProductionUseCase) Create(
	ctx context.Context,
	orderItemID, productID string,
	quantity decimal.Decimal,
	priority int,
) (*entity.ProductionTask, error) {
	if orderItemID == "" || productID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	inDeficit, err := uc.deficits.MaterialsInDeficit(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &entity.ProductionTask{
		ID:          uuid.New().String(),
		OrderItemID: orderItemID,
		ProductID:   productID,
		Quantity:    quantity,
		Status:      entity.TaskStatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var orderID, op, flow string
	var changed bool
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		item, err := r.Items.GetByID(ctx, orderItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		existing, err := r.Tasks.GetActiveByOrderItem(ctx, orderItemID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateActiveTask
		}
		if err := r.Tasks.Create(ctx, task); err != nil {
			return err
		}
		if err := r.Items.SetProductionTask(ctx, orderItemID, task.ID); err != nil {
			return err
		}
		if err := r.Items.UpdateFulfillmentStatus(ctx, orderItemID, entity.ItemStatusInProduction); err != nil {
			return err
		}
		orderID = item.OrderID
		op, flow, changed, err = recomputeOrderInTx(ctx, r, orderID, inDeficit)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, orderID, op, flow, changed)
	return task, nil
}

// Start transiciona pending → in_progress y estampa el inicio.
// Idempotente: sobre una tarea ya in_progress no hace nada. No reserva
// materiales: la reserva es una precondición que verifica el caller con el
// motor de reservas, así una tarea puede arrancar de forma especulativa.
func (uc *ProductionUseCase) Start(ctx context.Context, taskID string) error {
	if taskID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		task, err := r.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		switch task.Status {
		case entity.TaskStatusInProgress:
			return nil
		case entity.TaskStatusPending:
			now := time.Now()
			task.Status = entity.TaskStatusInProgress
			task.StartedAt = &now
			task.UpdatedAt = now
			return r.Tasks.Update(ctx, task)
		default:
			return domain.ErrInvalidTransition
		}
	})
}

// MarkMaterialsReserved registra que la reserva de materiales de la tarea ya
// se aplicó (la aplica el motor de reservas, aquí solo se deja constancia).
func (uc *ProductionUseCase) MarkMaterialsReserved(ctx context.Context, taskID string) error {
	if taskID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		task, err := r.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if !task.Active() {
			return domain.ErrInvalidTransition
		}
		task.MaterialsReserved = true
		task.UpdatedAt = time.Now()
		return r.Tasks.Update(ctx, task)
	})
}

// Complete cierra la tarea (solo desde in_progress): estampa el fin, acredita
// lo producido al stock de la bodega por defecto (creando el registro si no
// existe), marca el ítem ready y recalcula el estado del pedido.
func (uc *ProductionUseCase) Complete(
	ctx context.Context,
	taskID string,
	producedQuantity decimal.Decimal,
) error {
	if taskID == "" || !producedQuantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	inDeficit, err := uc.deficits.MaterialsInDeficit(ctx)
	if err != nil {
		return err
	}

	var orderID, op, flow string
	var changed bool
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		task, err := r.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if task.Status != entity.TaskStatusInProgress {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		task.Status = entity.TaskStatusCompleted
		task.CompletedAt = &now
		task.UpdatedAt = now
		if err := r.Tasks.Update(ctx, task); err != nil {
			return err
		}

		record, err := r.Inventory.GetForUpdate(ctx, task.ProductID, uc.defaultWarehouseID)
		if err != nil {
			return err
		}
		record.Quantity = record.Quantity.Add(producedQuantity)
		record.UpdatedAt = now
		if err := r.Inventory.Upsert(ctx, record); err != nil {
			return err
		}

		item, err := r.Items.GetByID(ctx, task.OrderItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := r.Items.UpdateFulfillmentStatus(ctx, item.ID, entity.ItemStatusReady); err != nil {
			return err
		}
		orderID = item.OrderID
		op, flow, changed, err = recomputeOrderInTx(ctx, r, orderID, inDeficit)
		return err
	})
	if err != nil {
		return err
	}
	uc.notify(ctx, orderID, op, flow, changed)
	return nil
}

// Cancel transiciona pending/in_progress → cancelled y revierte el ítem a
// planned. Los materiales ya consumidos no se devuelven: el consumo quedó
// hundido, igual que en el motor de reservas.
func (uc *ProductionUseCase) Cancel(ctx context.Context, taskID string) error {
	if taskID == "" {
		return domain.ErrInvalidInput
	}
	inDeficit, err := uc.deficits.MaterialsInDeficit(ctx)
	if err != nil {
		return err
	}

	var orderID, op, flow string
	var changed bool
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		task, err := r.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if !task.Active() {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		task.Status = entity.TaskStatusCancelled
		task.UpdatedAt = now
		if err := r.Tasks.Update(ctx, task); err != nil {
			return err
		}
		item, err := r.Items.GetByID(ctx, task.OrderItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := r.Items.UpdateFulfillmentStatus(ctx, item.ID, entity.ItemStatusPlanned); err != nil {
			return err
		}
		orderID = item.OrderID
		op, flow, changed, err = recomputeOrderInTx(ctx, r, orderID, inDeficit)
		return err
	})
	if err != nil {
		return err
	}
	uc.notify(ctx, orderID, op, flow, changed)
	return nil
}

func (uc *ProductionUseCase) notify(ctx context.Context, orderID, op, flow string, changed bool) {
	if !changed || uc.publisher == nil {
		return
	}
	event := OrderEvent{
		Type:              "order.status_changed",
		OrderID:           orderID,
		OperationalStatus: op,
		FlowStatus:        flow,
		OccurredAt:        time.Now(),
	}
	if err := uc.publisher.PublishOrderEvent(ctx, event); err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("publicar evento de estado falló")
	}
}
