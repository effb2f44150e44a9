package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
)

// ProductionHandler maneja las peticiones HTTP de la cola de producción.
type ProductionHandler struct {
	production *appfulfillment.ProductionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(production *appfulfillment.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{production: production}
}

// Create inserta una tarea de producción para un ítem de pedido.
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	task, err := h.production.Create(c.Context(), in.OrderItemID, in.ProductID, in.Quantity, in.Priority)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ResultResponse{Success: true, Data: task})
}

// Start arranca una tarea (idempotente si ya está en progreso).
func (h *ProductionHandler) Start(c *fiber.Ctx) error {
	if err := h.production.Start(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true})
}

// Complete cierra una tarea acreditando lo producido al stock.
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.production.Complete(c.Context(), c.Params("id"), in.ProducedQuantity); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true})
}

// Cancel cancela una tarea activa.
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	if err := h.production.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true})
}
