package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
	ErrDuplicateActiveTask  = errors.New("ya existe una tarea de producción activa para el ítem")
	ErrNegativeStock        = errors.New("el stock no puede quedar negativo")
	ErrInsufficientMaterial = errors.New("materia prima insuficiente")
)
