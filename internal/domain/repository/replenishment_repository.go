package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ReplenishmentRepository define el puerto de persistencia para solicitudes
// de reposición de materia prima.
type ReplenishmentRepository interface {
	// UpsertPending crea la solicitud pendiente del material o actualiza su
	// cantidad y prioridad si ya existe una pendiente (una por material).
	UpsertPending(ctx context.Context, request *entity.ReplenishmentRequest) error
	GetByID(ctx context.Context, id string) (*entity.ReplenishmentRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.ReplenishmentRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
