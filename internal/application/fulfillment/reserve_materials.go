package fulfillment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/fulfillment"
)

// ReserveMaterialsUseCase asigna lotes de materia prima a necesidades de
// producción (FIFO: lote más antiguo primero, a costo de cada lote).
type ReserveMaterialsUseCase struct {
	txRunner TxRunner
}

// NewReserveMaterialsUseCase construye el caso de uso.
func NewReserveMaterialsUseCase(txRunner TxRunner) *ReserveMaterialsUseCase {
	return &ReserveMaterialsUseCase{txRunner: txRunner}
}

// MaterialReservation es la reserva aplicada para un material de la receta.
type MaterialReservation struct {
	MaterialID string
	Required   decimal.Decimal
	TotalCost  decimal.Decimal
	Consumed   []fulfillment.LotConsumption
}

// MaterialShortage reporta un material cuya disponibilidad no alcanza.
type MaterialShortage struct {
	MaterialID string
	Required   decimal.Decimal
	Available  decimal.Decimal
	Shortage   decimal.Decimal
}

// ReserveResult resultado de una reserva multi-material.
// Success en false significa que al menos un material no alcanzaba y NO se
// consumió nada (el chequeo de disponibilidad va antes que cualquier consumo:
// un consumo parcial entre ingredientes de una receta sería inconsistente).
type ReserveResult struct {
	Success      bool
	Reservations []MaterialReservation
	Missing      []MaterialShortage
}

// ReserveForProduct reserva, en una sola transacción, todos los materiales de
// la receta del producto para producir quantity unidades. Los lotes de cada
// material se bloquean (FOR UPDATE) para que reservas concurrentes no asignen
// dos veces la misma cantidad.
func (uc *ReserveMaterialsUseCase) ReserveForProduct(
	ctx context.Context,
	productID string,
	quantity decimal.Decimal,
) (*ReserveResult, error) {
	if productID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	result := &ReserveResult{}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		recipe, err := r.Recipes.GetByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if recipe == nil || len(recipe.Lines) == 0 {
			return domain.ErrNotFound
		}

		// Agregar la necesidad por material: una receta puede repetir un
		// material en varias líneas y la disponibilidad se valida contra la
		// suma, nunca línea por línea.
		needs := aggregateNeeds(recipe.Lines, quantity)

		// Primera pasada: bloquear lotes y verificar disponibilidad de TODOS
		// los materiales antes de consumir nada.
		lotsByMaterial := make(map[string][]*entity.MaterialLot, len(needs))
		for _, n := range needs {
			lots, err := r.Lots.ListByMaterialForUpdate(ctx, n.materialID)
			if err != nil {
				return err
			}
			lotsByMaterial[n.materialID] = lots

			available := fulfillment.AvailableInLots(lots)
			if available.LessThan(n.required) {
				result.Missing = append(result.Missing, MaterialShortage{
					MaterialID: n.materialID,
					Required:   n.required,
					Available:  available,
					Shortage:   n.required.Sub(available),
				})
			}
		}
		if len(result.Missing) > 0 {
			// Faltante: resultado de negocio, no un error. Nada se consumió.
			result.Success = false
			return nil
		}

		// Segunda pasada: consumir FIFO y persistir los lotes tocados.
		for _, n := range needs {
			fifo := fulfillment.ConsumeFIFO(lotsByMaterial[n.materialID], n.required)
			for _, c := range fifo.Consumed {
				lot := findLot(lotsByMaterial[n.materialID], c.LotID)
				if err := r.Lots.UpdateQuantity(ctx, c.LotID, lot.Quantity); err != nil {
					return err
				}
			}
			result.Reservations = append(result.Reservations, MaterialReservation{
				MaterialID: n.materialID,
				Required:   n.required,
				TotalCost:  fifo.TotalCost,
				Consumed:   fifo.Consumed,
			})
		}
		result.Success = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reserve asigna FIFO una cantidad de un solo material: consume lo que hay y
// reporta el faltante. Lo ya consumido no se revierte (asignar-lo-que-hay,
// nunca bloquea). El caller decide qué hacer con el faltante.
func (uc *ReserveMaterialsUseCase) Reserve(
	ctx context.Context,
	materialID string,
	quantity decimal.Decimal,
) (*fulfillment.FIFOResult, error) {
	if materialID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var result fulfillment.FIFOResult
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		lots, err := r.Lots.ListByMaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		result = fulfillment.ConsumeFIFO(lots, quantity)
		for _, c := range result.Consumed {
			lot := findLot(lots, c.LotID)
			if err := r.Lots.UpdateQuantity(ctx, c.LotID, lot.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// materialNeed es la necesidad total de un material, sumada sobre todas las
// líneas de la receta que lo referencian.
type materialNeed struct {
	materialID string
	required   decimal.Decimal
}

// aggregateNeeds suma requerido-por-unidad × units por material, preservando
// el orden de primera aparición en la receta.
func aggregateNeeds(lines []entity.RecipeMaterial, units decimal.Decimal) []materialNeed {
	needs := make([]materialNeed, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		required := line.TotalRequired(units)
		if i, ok := index[line.MaterialID]; ok {
			needs[i].required = needs[i].required.Add(required)
			continue
		}
		index[line.MaterialID] = len(needs)
		needs = append(needs, materialNeed{materialID: line.MaterialID, required: required})
	}
	return needs
}

func findLot(lots []*entity.MaterialLot, id string) *entity.MaterialLot {
	for _, lot := range lots {
		if lot.ID == id {
			return lot
		}
	}
	return nil
}
