package fulfillment_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/fulfillment"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

func newProductionUC(store *memStore) *appfulfillment.ProductionUseCase {
	return appfulfillment.NewProductionUseCase(store.txRunner(), stubDeficits{}, nil, "main", logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de la cola de producción.
// ──────────────────────────────────────────────────────────────────────────────

func TestProduction_CreateMarcaItemYPedido(t *testing.T) {
	store := newMemStore()
	order := seedOrder(store, "ped-1")
	item := seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 5)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, entity.TaskStatusPending, task.Status)
	assert.Equal(t, 5, task.Priority)

	assert.Equal(t, entity.ItemStatusInProduction, item.FulfillmentStatus)
	assert.Equal(t, task.ID, item.ProductionTaskID)
	assert.Equal(t, fulfillment.OpInProduction, order.OperationalStatus)
	assert.Equal(t, fulfillment.FlowInProduction, order.FlowStatus)
}

func TestProduction_CreateRechazaTareaActivaDuplicada(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	_, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveTask)
}

func TestProduction_CreatePermiteNuevaTareaTrasCancelar(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), task.ID))

	// La tarea cancelada es terminal: el ítem queda libre para una nueva.
	_, err = uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	assert.NoError(t, err)
}

func TestProduction_StartIdempotente(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)

	require.NoError(t, uc.Start(context.Background(), task.ID))
	stored := store.tasks[task.ID]
	assert.Equal(t, entity.TaskStatusInProgress, stored.Status)
	require.NotNil(t, stored.StartedAt)
	started := *stored.StartedAt

	// Segundo Start: no-op, sin re-estampar el inicio.
	require.NoError(t, uc.Start(context.Background(), task.ID))
	assert.Equal(t, entity.TaskStatusInProgress, stored.Status)
	assert.True(t, stored.StartedAt.Equal(started))
}

func TestProduction_StartDesdeTerminalFalla(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)
	require.NoError(t, uc.Cancel(context.Background(), task.ID))

	assert.ErrorIs(t, uc.Start(context.Background(), task.ID), domain.ErrInvalidTransition)
}

func TestProduction_CompleteSoloDesdeInProgress(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)

	// pending → completed está prohibido.
	err = uc.Complete(context.Background(), task.ID, decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProduction_CompleteAcreditaStockYCierraElCiclo(t *testing.T) {
	store := newMemStore()
	order := seedOrder(store, "ped-1")
	item := seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)
	require.NoError(t, uc.Start(context.Background(), task.ID))
	require.NoError(t, uc.MarkMaterialsReserved(context.Background(), task.ID))
	require.NoError(t, uc.Complete(context.Background(), task.ID, decimal.NewFromInt(10)))

	stored := store.tasks[task.ID]
	assert.Equal(t, entity.TaskStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.MaterialsReserved)

	// El stock del producto se creó y acreditó en la bodega por defecto.
	record, err := store.repos().Inventory.Get(context.Background(), "prod-1", "main")
	require.NoError(t, err)
	assert.True(t, record.Quantity.Equal(decimal.NewFromInt(10)))

	// Ítem listo y pedido re-derivado en la misma operación.
	assert.Equal(t, entity.ItemStatusReady, item.FulfillmentStatus)
	assert.Equal(t, fulfillment.OpReadyToShip, order.OperationalStatus)
	assert.Equal(t, fulfillment.FlowReadyToShip, order.FlowStatus)
}

func TestProduction_CancelRevierteItemAPlanned(t *testing.T) {
	store := newMemStore()
	order := seedOrder(store, "ped-1")
	item := seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	uc := newProductionUC(store)
	task, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)
	require.NoError(t, uc.Start(context.Background(), task.ID))
	require.NoError(t, uc.Cancel(context.Background(), task.ID))

	assert.Equal(t, entity.TaskStatusCancelled, store.tasks[task.ID].Status)
	assert.Equal(t, entity.ItemStatusPlanned, item.FulfillmentStatus)
	// Sin déficit global, el ítem planned vuelve a esperar producción.
	assert.Equal(t, fulfillment.OpWaitingForProduction, order.OperationalStatus)

	// Cancelar dos veces no es válido: la tarea ya es terminal.
	assert.ErrorIs(t, uc.Cancel(context.Background(), task.ID), domain.ErrInvalidTransition)
}

func TestProduction_PublicadorCaidoNoRevierte(t *testing.T) {
	store := newMemStore()
	order := seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 2)

	publisher := &failingPublisher{}
	uc := appfulfillment.NewProductionUseCase(store.txRunner(), stubDeficits{}, publisher, "main", logger.Nop())

	// La publicación es best-effort: el broker caído no revierte la operación.
	_, err := uc.Create(context.Background(), "item-1", "prod-1", decimal.NewFromInt(2), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, publisher.attempts)
	assert.Equal(t, fulfillment.OpInProduction, order.OperationalStatus)
}

func TestShipOrderItem_DescuentaStockYDespacha(t *testing.T) {
	store := newMemStore()
	order := seedOrder(store, "ped-1")
	item := seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusReady, entity.FulfillmentTypeProduce, 4)
	store.inventory[invKey("prod-1", "main")] = &entity.InventoryRecord{
		ProductID:   "prod-1",
		WarehouseID: "main",
		Quantity:    decimal.NewFromInt(10),
	}

	uc := appfulfillment.NewShipmentUseCase(store.txRunner(), stubDeficits{}, nil, "main", logger.Nop())
	require.NoError(t, uc.ShipOrderItem(context.Background(), "ped-1", "item-1"))

	assert.Equal(t, entity.ItemStatusShipped, item.FulfillmentStatus)
	record, _ := store.repos().Inventory.Get(context.Background(), "prod-1", "main")
	assert.True(t, record.Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, fulfillment.OpShipped, order.OperationalStatus)
	assert.NotNil(t, order.ShippedAt)
}

func TestShipOrderItem_StockInsuficiente(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	item := seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusReady, entity.FulfillmentTypeProduce, 4)
	store.inventory[invKey("prod-1", "main")] = &entity.InventoryRecord{
		ProductID:   "prod-1",
		WarehouseID: "main",
		Quantity:    decimal.NewFromInt(3),
	}

	uc := appfulfillment.NewShipmentUseCase(store.txRunner(), stubDeficits{}, nil, "main", logger.Nop())
	err := uc.ShipOrderItem(context.Background(), "ped-1", "item-1")
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.Equal(t, entity.ItemStatusReady, item.FulfillmentStatus)
}

func TestShipOrderItem_SoloItemsListos(t *testing.T) {
	store := newMemStore()
	seedOrder(store, "ped-1")
	seedItem(store, "item-1", "ped-1", "prod-1", entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, 1)

	uc := appfulfillment.NewShipmentUseCase(store.txRunner(), stubDeficits{}, nil, "main", logger.Nop())
	err := uc.ShipOrderItem(context.Background(), "ped-1", "item-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
