package fulfillment

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// LotConsumption registra el consumo aplicado a un lote durante una reserva.
type LotConsumption struct {
	LotID       string
	MaterialID  string
	Quantity    decimal.Decimal
	CostPerUnit decimal.Decimal
	Cost        decimal.Decimal
}

// FIFOResult es el resultado de una asignación FIFO sobre los lotes de un material.
// Shortage mayor que cero significa que los lotes se agotaron antes de cubrir
// la necesidad; lo ya consumido NO se revierte (asignar-lo-que-hay).
type FIFOResult struct {
	Fulfilled decimal.Decimal
	TotalCost decimal.Decimal
	Consumed  []LotConsumption
	Shortage  decimal.Decimal
}

// Satisfied indica si la necesidad quedó cubierta por completo.
func (r FIFOResult) Satisfied() bool {
	return r.Shortage.IsZero()
}

// SortLotsFIFO ordena lotes del más antiguo al más nuevo por fecha de
// recepción; a igual fecha desempata por ID menor (determinista, estable).
func SortLotsFIFO(lots []*entity.MaterialLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].ReceivedAt.Equal(lots[j].ReceivedAt) {
			return lots[i].ReceivedAt.Before(lots[j].ReceivedAt)
		}
		return lots[i].ID < lots[j].ID
	})
}

// AvailableInLots suma la cantidad restante de un conjunto de lotes.
func AvailableInLots(lots []*entity.MaterialLot) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// ConsumeFIFO recorre los lotes del más antiguo al más nuevo consumiendo
// min(restante del lote, necesidad pendiente) de cada uno, acumula el costo
// a costo de cada lote y decrementa la cantidad restante en memoria.
// El caller persiste los lotes modificados dentro de su transacción.
func ConsumeFIFO(lots []*entity.MaterialLot, required decimal.Decimal) FIFOResult {
	SortLotsFIFO(lots)

	result := FIFOResult{
		Fulfilled: decimal.Zero,
		TotalCost: decimal.Zero,
	}
	outstanding := required

	for _, lot := range lots {
		if outstanding.LessThanOrEqual(decimal.Zero) {
			break
		}
		if lot.Exhausted() {
			continue
		}
		take := decimal.Min(lot.Quantity, outstanding)
		cost := take.Mul(lot.CostPerUnit)

		lot.Quantity = lot.Quantity.Sub(take)
		outstanding = outstanding.Sub(take)

		result.Fulfilled = result.Fulfilled.Add(take)
		result.TotalCost = result.TotalCost.Add(cost)
		result.Consumed = append(result.Consumed, LotConsumption{
			LotID:       lot.ID,
			MaterialID:  lot.MaterialID,
			Quantity:    take,
			CostPerUnit: lot.CostPerUnit,
			Cost:        cost,
		})
	}

	result.Shortage = outstanding
	if result.Shortage.LessThan(decimal.Zero) {
		result.Shortage = decimal.Zero
	}
	return result
}
