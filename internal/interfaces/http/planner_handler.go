package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
)

// PlannerHandler maneja las peticiones HTTP del planificador de déficit.
type PlannerHandler struct {
	planner *appfulfillment.PlannerUseCase
}

// NewPlannerHandler construye el handler.
func NewPlannerHandler(planner *appfulfillment.PlannerUseCase) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// Deficits devuelve los materiales con déficit frente a la demanda activa.
func (h *PlannerHandler) Deficits(c *fiber.Ctx) error {
	deficits, err := h.planner.GetMaterialDeficits(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true, Data: deficits})
}

// ReplenishmentNeeds devuelve las sugerencias de compra.
func (h *PlannerHandler) ReplenishmentNeeds(c *fiber.Ctx) error {
	items, err := h.planner.GetReplenishmentNeeds(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true, Data: items})
}

// CreateRequests persiste las sugerencias como solicitudes pendientes.
func (h *PlannerHandler) CreateRequests(c *fiber.Ctx) error {
	created, err := h.planner.CreateReplenishmentRequests(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ResultResponse{Success: true, Data: fiber.Map{"created": created}})
}

// UpdateRequest avanza una solicitud de reposición en su ciclo de vida
// (pending → ordered → received).
func (h *PlannerHandler) UpdateRequest(c *fiber.Ctx) error {
	var in dto.UpdateReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.planner.AdvanceReplenishment(c.Context(), c.Params("id"), in.Status); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResultResponse{Success: true})
}
