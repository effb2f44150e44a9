package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

// respondError traduce errores de dominio al resultado de la API: ningún
// error interno cruza el borde sin convertirse en {success:false, code, error}.
// Los fallos de persistencia (errores no reconocidos) salen como 500 con su
// mensaje, distinguibles de los errores de negocio.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "datos inválidos")
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrDuplicateActiveTask):
		return respond(c, fiber.StatusConflict, "DUPLICATE_ACTIVE_TASK", "el ítem ya tiene una tarea activa")
	case errors.Is(err, domain.ErrInvalidTransition):
		return respond(c, fiber.StatusConflict, "INVALID_TRANSITION", "transición de estado inválida")
	case errors.Is(err, domain.ErrNegativeStock):
		return respond(c, fiber.StatusConflict, "NEGATIVE_STOCK", "el stock no puede quedar negativo")
	case errors.Is(err, domain.ErrInsufficientMaterial):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_MATERIAL", "materia prima insuficiente")
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual")
	default:
		return respond(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Code: code, Message: message})
}
