package fulfillment

// Estado operativo interno de un pedido (triage de operaciones).
const (
	OpPending              = "PENDING"
	OpReadyToShip          = "READY_TO_SHIP"
	OpWaitingForProduction = "WAITING_FOR_PRODUCTION"
	OpInProduction         = "IN_PRODUCTION"
	OpWaitingForMaterials  = "WAITING_FOR_MATERIALS"
	OpBlocked              = "BLOCKED"
	OpShipped              = "SHIPPED"
	OpDone                 = "DONE"
	OpCancelled            = "CANCELLED"
)

// Estado de flujo externo (proyección visible hacia afuera).
const (
	FlowNew            = "NEW"
	FlowReadyToShip    = "READY_TO_SHIP"
	FlowNeedProduction = "NEED_PRODUCTION"
	FlowNeedMaterials  = "NEED_MATERIALS"
	FlowInProduction   = "IN_PRODUCTION"
	FlowShipped        = "SHIPPED"
	FlowDone           = "DONE"
	FlowCancelled      = "CANCELLED"
)

// MapToFlow proyecta el estado operativo al estado de flujo externo.
// Función total: todo valor desconocido (incluido PENDING) cae en NEW.
// La proyección pierde información a propósito: BLOCKED y CANCELLED
// colapsan ambos en CANCELLED (compatibilidad con el consumidor externo).
func MapToFlow(operational string) string {
	switch operational {
	case OpReadyToShip:
		return FlowReadyToShip
	case OpWaitingForProduction:
		return FlowNeedProduction
	case OpWaitingForMaterials:
		return FlowNeedMaterials
	case OpInProduction:
		return FlowInProduction
	case OpShipped:
		return FlowShipped
	case OpDone:
		return FlowDone
	case OpCancelled:
		return FlowCancelled
	case OpBlocked:
		return FlowCancelled
	default:
		return FlowNew
	}
}
