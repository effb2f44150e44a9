package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/fulfillment"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ReaperUseCase cierra pedidos despachados hace tiempo: SHIPPED con fecha de
// despacho más vieja que el umbral pasan a DONE (terminal).
type ReaperUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	log       *logger.Logger
}

// NewReaperUseCase construye el barrido de cierre.
func NewReaperUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, log *logger.Logger) *ReaperUseCase {
	return &ReaperUseCase{txRunner: txRunner, orderRepo: orderRepo, log: log}
}

// MarkStaleOrdersDone marca DONE los pedidos SHIPPED más viejos que age.
// Barrido idempotente con commit por pedido: re-ejecutarlo es un no-op para
// los pedidos ya DONE, y es cancelable entre pedidos vía ctx.
func (uc *ReaperUseCase) MarkStaleOrdersDone(ctx context.Context, age time.Duration) (int, error) {
	if age <= 0 {
		return 0, domain.ErrInvalidInput
	}
	cutoff := time.Now().Add(-age)
	ids, err := uc.orderRepo.ListShippedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, orderID := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		var closed bool
		err := uc.txRunner.Run(ctx, func(r Repos) error {
			order, err := r.Orders.GetForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if order == nil || order.OperationalStatus != fulfillment.OpShipped {
				// Ya cerrado por otro barrido, o cambió de estado: nada que hacer.
				return nil
			}
			if err := r.Orders.UpdateStatus(ctx, orderID, fulfillment.OpDone, fulfillment.FlowDone); err != nil {
				return err
			}
			closed = true
			return nil
		})
		if err != nil {
			// El conteo solo refleja commits: un cierre que no llegó a commit
			// no cuenta.
			uc.log.Warn().Err(err).Str("order_id", orderID).Msg("cerrar pedido falló")
			continue
		}
		if closed {
			done++
		}
	}
	uc.log.Info().Int("candidates", len(ids)).Int("done", done).Msg("barrido de cierre completado")
	return done, nil
}
