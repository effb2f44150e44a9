package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para definiciones de materia prima.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
}

// MaterialLotRepository define el puerto para lotes de materia prima.
// ListByMaterialForUpdate bloquea las filas (SELECT FOR UPDATE) y devuelve los
// lotes en orden FIFO (received_at ASC, id ASC) para evitar doble asignación
// bajo reservas concurrentes del mismo material.
type MaterialLotRepository interface {
	Create(ctx context.Context, lot *entity.MaterialLot) error
	GetByID(ctx context.Context, id string) (*entity.MaterialLot, error)
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.MaterialLot, error)
	ListByMaterialForUpdate(ctx context.Context, materialID string) ([]*entity.MaterialLot, error)
	UpdateQuantity(ctx context.Context, lotID string, quantity decimal.Decimal) error
	// TotalAvailableByMaterial suma la cantidad restante de todos los lotes,
	// agrupada por material (para el planificador de déficit).
	TotalAvailableByMaterial(ctx context.Context) (map[string]decimal.Decimal, error)
}
