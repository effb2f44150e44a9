package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de fulfillment de un ítem de pedido.
const (
	ItemStatusPlanned      = "planned"
	ItemStatusInProduction = "in_production"
	ItemStatusReady        = "ready"
	ItemStatusShipped      = "shipped"
	ItemStatusCancelled    = "cancelled"
)

// Tipos de fulfillment: cómo se piensa satisfacer el ítem.
const (
	FulfillmentTypePending = "PENDING"
	FulfillmentTypeStock   = "READY_STOCK"       // sale de stock existente
	FulfillmentTypeProduce = "PRODUCE_ON_DEMAND" // requiere producción
	FulfillmentTypeFBO     = "FBO"               // fulfillment del marketplace
)

// OrderItem representa una línea de pedido.
type OrderItem struct {
	ID                string
	OrderID           string
	ProductID         string
	Quantity          decimal.Decimal
	FulfillmentStatus string
	FulfillmentType   string
	ProductionTaskID  string // vacío si no hay tarea asociada
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Order representa un pedido con sus ítems.
// OperationalStatus y FlowStatus son derivados: los recalcula el agregador,
// nunca se editan a mano (una escritura externa debe disparar el recálculo).
type Order struct {
	ID                string
	Number            string
	OperationalStatus string // fulfillment.OperationalStatus
	FlowStatus        string // fulfillment.FlowStatus (proyección externa)
	ShippedAt         *time.Time
	Items             []OrderItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
