package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de reposición de materia prima.
const (
	ReplenishmentPending  = "pending"
	ReplenishmentOrdered  = "ordered"
	ReplenishmentReceived = "received"
)

// Prioridades de reposición (derivadas de la cantidad solicitada).
const (
	ReplenishmentPriorityNormal = "normal"
	ReplenishmentPriorityHigh   = "high"
)

// ReplenishmentRequest representa una solicitud de compra de materia prima
// generada por el planificador de déficit.
type ReplenishmentRequest struct {
	ID         string
	MaterialID string
	Quantity   decimal.Decimal
	Status     string
	Priority   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
