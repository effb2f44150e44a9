package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/fulfillment"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// StatusUseCase recalcula el estado operativo de los pedidos a partir del
// estado de fulfillment de sus ítems y lo proyecta al estado de flujo externo.
type StatusUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	deficits  DeficitSource
	publisher OrderEventPublisher
	log       *logger.Logger
}

// NewStatusUseCase construye el agregador de estados.
// publisher puede ser nil si no hay broker configurado.
func NewStatusUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	deficits DeficitSource,
	publisher OrderEventPublisher,
	log *logger.Logger,
) *StatusUseCase {
	return &StatusUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		deficits:  deficits,
		publisher: publisher,
		log:       log,
	}
}

// RecalculateOrder recalcula un pedido y devuelve (operativo, flujo).
// Idempotente: sobre un pedido sin cambios produce el mismo resultado.
func (uc *StatusUseCase) RecalculateOrder(ctx context.Context, orderID string) (string, string, error) {
	if orderID == "" {
		return "", "", domain.ErrInvalidInput
	}
	inDeficit, err := uc.deficits.MaterialsInDeficit(ctx)
	if err != nil {
		return "", "", err
	}

	var op, flow string
	var changed bool
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		op, flow, changed, err = recomputeOrderInTx(ctx, r, orderID, inDeficit)
		return err
	})
	if err != nil {
		return "", "", err
	}
	if changed {
		uc.publishStatusChange(ctx, orderID, op, flow)
	}
	return op, flow, nil
}

// RecalculateAll barre todos los pedidos no terminales y re-deriva su estado.
// Procesa de a un pedido por transacción (commit incremental): un fallo a
// mitad de barrido deja solo el resto pendiente, y es seguro re-ejecutarlo
// en concurrencia con recálculos individuales (última escritura gana, la
// derivación es pura sobre el estado actual de los ítems).
func (uc *StatusUseCase) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := uc.orderRepo.ListNonTerminalIDs(ctx)
	if err != nil {
		return 0, err
	}
	inDeficit, err := uc.deficits.MaterialsInDeficit(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, orderID := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		var op, flow string
		var changed bool
		err := uc.txRunner.Run(ctx, func(r Repos) error {
			var txErr error
			op, flow, changed, txErr = recomputeOrderInTx(ctx, r, orderID, inDeficit)
			return txErr
		})
		if err != nil {
			// Seguir con el resto: el pedido fallido queda para el próximo barrido.
			uc.log.Warn().Err(err).Str("order_id", orderID).Msg("recálculo de pedido falló")
			continue
		}
		if changed {
			updated++
			uc.publishStatusChange(ctx, orderID, op, flow)
		}
	}
	uc.log.Info().Int("orders", len(ids)).Int("updated", updated).Msg("barrido de recálculo completado")
	return updated, nil
}

func (uc *StatusUseCase) publishStatusChange(ctx context.Context, orderID, op, flow string) {
	if uc.publisher == nil {
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

// recomputeOrderInTx re-deriva el estado del pedido dentro de la transacción
// del caller y lo persiste solo si cambió. Los estados terminales (DONE,
// CANCELLED) no se re-derivan.
func recomputeOrderInTx(
	ctx context.Context,
	r Repos,
	orderID string,
	inDeficit map[string]bool,
) (op, flow string, changed bool, err error) {
	order, err := r.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return "", "", false, err
	}
	if order == nil {
		return "", "", false, domain.ErrNotFound
	}
	if order.OperationalStatus == fulfillment.OpDone || order.OperationalStatus == fulfillment.OpCancelled {
		return order.OperationalStatus, order.FlowStatus, false, nil
	}

	items, err := r.Items.ListByOrder(ctx, orderID)
	if err != nil {
		return "", "", false, err
	}
	views, err := buildItemViews(ctx, r, items, inDeficit)
	if err != nil {
		return "", "", false, err
	}

	op = fulfillment.DeriveOperationalStatus(views)
	flow = fulfillment.MapToFlow(op)
	if op == order.OperationalStatus && flow == order.FlowStatus {
		return op, flow, false, nil
	}

	if op == fulfillment.OpShipped && order.ShippedAt == nil {
		if err := r.Orders.SetShippedAt(ctx, orderID, time.Now()); err != nil {
			return "", "", false, err
		}
	}
	if err := r.Orders.UpdateStatus(ctx, orderID, op, flow); err != nil {
		return "", "", false, err
	}
	return op, flow, true, nil
}

// buildItemViews arma la vista de ítems para la derivación. Un ítem planned
// PRODUCE_ON_DEMAND tiene materiales suficientes si ningún material de su
// receta está en déficit global; un producto sin receta no requiere nada.
func buildItemViews(
	ctx context.Context,
	r Repos,
	items []*entity.OrderItem,
	inDeficit map[string]bool,
) ([]fulfillment.ItemView, error) {
	views := make([]fulfillment.ItemView, 0, len(items))
	for _, item := range items {
		view := fulfillment.ItemView{
			Status:              item.FulfillmentStatus,
			Type:                item.FulfillmentType,
			MaterialsSufficient: true,
		}
		if item.FulfillmentStatus == entity.ItemStatusPlanned && item.FulfillmentType == entity.FulfillmentTypeProduce {
			recipe, err := r.Recipes.GetByProduct(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			if recipe != nil {
				for _, line := range recipe.Lines {
					if inDeficit[line.MaterialID] {
						view.MaterialsSufficient = false
						break
					}
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}
