package dto

import "github.com/shopspring/decimal"

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

// ResultResponse respuesta genérica con bandera de éxito y payload.
type ResultResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ReceiveLotRequest alta de un lote de materia prima.
type ReceiveLotRequest struct {
	MaterialID  string          `json:"material_id"`
	WarehouseID string          `json:"warehouse_id"`
	SupplierID  string          `json:"supplier_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// ReserveMaterialsRequest reserva de materiales para producir un producto.
type ReserveMaterialsRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTaskRequest alta de una tarea de producción.
type CreateTaskRequest struct {
	OrderItemID string          `json:"order_item_id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Priority    int             `json:"priority"`
}

// CompleteTaskRequest cierre de una tarea de producción.
type CompleteTaskRequest struct {
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
}

// ReapRequest barrido de pedidos despachados antiguos.
type ReapRequest struct {
	AgeDays int `json:"age_days"`
}

// UpdateReplenishmentRequest avance del ciclo de vida de una solicitud
// de reposición (ordered o received).
type UpdateReplenishmentRequest struct {
	Status string `json:"status"`
}
