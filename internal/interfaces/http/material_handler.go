package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
)

// MaterialHandler maneja las peticiones HTTP del libro de materia prima.
type MaterialHandler struct {
	materials *appfulfillment.MaterialLedgerUseCase
	reserve   *appfulfillment.ReserveMaterialsUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(
	materials *appfulfillment.MaterialLedgerUseCase,
	reserve *appfulfillment.ReserveMaterialsUseCase,
) *MaterialHandler {
	return &MaterialHandler{materials: materials, reserve: reserve}
}

// ReceiveLot registra la recepción de un lote de materia prima.
func (h *MaterialHandler) ReceiveLot(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	lot, err := h.materials.ReceiveLot(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ResultResponse{Success: true, Data: lot})
}

// Reserve reserva los materiales de la receta de un producto.
// Un faltante no es un error HTTP: responde 200 con success=false y la lista
// de materiales faltantes (resultado de negocio esperado).
func (h *MaterialHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveMaterialsRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	result, err := h.reserve.ReserveForProduct(c.Context(), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	if !result.Success {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":           false,
			"missing_materials": result.Missing,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":      true,
		"reservations": result.Reservations,
	})
}
