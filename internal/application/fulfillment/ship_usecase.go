package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ShipmentUseCase despacha ítems listos: descuenta stock de producto
// terminado y marca el ítem shipped. Como el despacho escribe estado de ítem
// por fuera del agregador, dispara el recálculo del pedido en la misma
// transacción para que el estado derivado no quede desfasado.
type ShipmentUseCase struct {
	txRunner           TxRunner
	deficits           DeficitSource
	publisher          OrderEventPublisher
	defaultWarehouseID string
	log                *logger.Logger
}

// NewShipmentUseCase construye el caso de uso de despacho.
func NewShipmentUseCase(
	txRunner TxRunner,
	deficits DeficitSource,
	publisher OrderEventPublisher,
	defaultWarehouseID string,
	log *logger.Logger,
) *ShipmentUseCase {
	return &ShipmentUseCase{
		txRunner:           txRunner,
		deficits:           deficits,
		publisher:          publisher,
		defaultWarehouseID: defaultWarehouseID,
		log:                log,
	}
}

// ShipOrderItem descuenta la cantidad del ítem del stock de la bodega por
// defecto y lo marca shipped. Rechaza con ErrNegativeStock si el stock no
// alcanza (el guardián corre antes del commit, nada queda a medias).
func (uc *ShipmentUseCase) ShipOrderItem(ctx context.Context, orderID, itemID string) error {
	if orderID == "" || itemID == "" {
		return domain.ErrInvalidInput
	}
	inDeficit, err := uc.deficits.MaterialsInDeficit(ctx)
	if err != nil {
		return err
	}

	var op, flow string
	var changed bool
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		item, err := r.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.OrderID != orderID {
			return domain.ErrNotFound
		}
		if item.FulfillmentStatus != entity.ItemStatusReady {
			return domain.ErrInvalidTransition
		}

		record, err := r.Inventory.GetForUpdate(ctx, item.ProductID, uc.defaultWarehouseID)
		if err != nil {
			return err
		}
		remaining := record.Quantity.Sub(item.Quantity)
		if remaining.IsNegative() {
			return domain.ErrNegativeStock
		}
		record.Quantity = remaining
		record.UpdatedAt = time.Now()
		if err := r.Inventory.Upsert(ctx, record); err != nil {
			return err
		}

		if err := r.Items.UpdateFulfillmentStatus(ctx, itemID, entity.ItemStatusShipped); err != nil {
			return err
		}
		op, flow, changed, err = recomputeOrderInTx(ctx, r, orderID, inDeficit)
		return err
	})
	if err != nil {
		return err
	}
	if changed && uc.publisher != nil {
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
	return nil
}
