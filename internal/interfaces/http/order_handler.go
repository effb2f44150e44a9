package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
)

// OrderHandler maneja las peticiones HTTP de estado de pedidos y despacho.
type OrderHandler struct {
	status   *appfulfillment.StatusUseCase
	shipment *appfulfillment.ShipmentUseCase
	reaper   *appfulfillment.ReaperUseCase
	staleAge time.Duration
}

// NewOrderHandler construye el handler. staleAge es el umbral por defecto
// para el barrido de cierre (configurable por request).
func NewOrderHandler(
	status *appfulfillment.StatusUseCase,
	shipment *appfulfillment.ShipmentUseCase,
	reaper *appfulfillment.ReaperUseCase,
	staleAge time.Duration,
) *OrderHandler {
	return &OrderHandler{status: status, shipment: shipment, reaper: reaper, staleAge: staleAge}
}

// Recalculate re-deriva el estado de un pedido.
func (h *OrderHandler) Recalculate(c *fiber.Ctx) error {
	op, flow, err := h.status.RecalculateOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true, Data: fiber.Map{
		"operational_status": op,
		"flow_status":        flow,
	}})
}

// RecalculateAll barre todos los pedidos no terminales.
func (h *OrderHandler) RecalculateAll(c *fiber.Ctx) error {
	updated, err := h.status.RecalculateAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true, Data: fiber.Map{"updated": updated}})
}

// ShipItem despacha un ítem listo.
func (h *OrderHandler) ShipItem(c *fiber.Ctx) error {
	if err := h.shipment.ShipOrderItem(c.Context(), c.Params("id"), c.Params("itemId")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true})
}

// Reap cierra pedidos despachados más viejos que el umbral.
func (h *OrderHandler) Reap(c *fiber.Ctx) error {
	var in dto.ReapRequest
	_ = c.BodyParser(&in) // cuerpo opcional: sin cuerpo usa el umbral configurado

	age := h.staleAge
	if in.AgeDays > 0 {
		age = time.Duration(in.AgeDays) * 24 * time.Hour
	}
	done, err := h.reaper.MarkStaleOrdersDone(c.Context(), age)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true, Data: fiber.Map{"done": done}})
}
