package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// MaterialLedgerUseCase administra el libro de materia prima: recepción de
// lotes (única fuente de suministro) y consulta de definiciones.
type MaterialLedgerUseCase struct {
	materialRepo repository.MaterialRepository
	lotRepo      repository.MaterialLotRepository
}

// NewMaterialLedgerUseCase construye el caso de uso.
func NewMaterialLedgerUseCase(
	materialRepo repository.MaterialRepository,
	lotRepo repository.MaterialLotRepository,
) *MaterialLedgerUseCase {
	return &MaterialLedgerUseCase{materialRepo: materialRepo, lotRepo: lotRepo}
}

// ReceiveLot registra la recepción de un lote: cantidad y costo por unidad
// quedan fijados al momento del alta. El costo puede ser cero (muestras),
// nunca negativo.
func (uc *MaterialLedgerUseCase) ReceiveLot(ctx context.Context, in dto.ReceiveLotRequest) (*entity.MaterialLot, error) {
	if in.MaterialID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || in.CostPerUnit.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	material, err := uc.materialRepo.GetByID(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	lot := &entity.MaterialLot{
		ID:          uuid.New().String(),
		MaterialID:  in.MaterialID,
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		Quantity:    in.Quantity,
		CostPerUnit: in.CostPerUnit,
		ReceivedAt:  now,
		CreatedAt:   now,
	}
	if err := uc.lotRepo.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}
