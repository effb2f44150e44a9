package fulfillment

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// ItemView es la vista mínima de un ítem que necesita la derivación de estado:
// su estado de fulfillment, su tipo, y si los materiales de su receta alcanzan
// según el planificador de déficit.
type ItemView struct {
	Status              string
	Type                string
	MaterialsSufficient bool
}

// itemAggregate condensa los ítems de un pedido en los hechos que consultan
// las reglas de precedencia.
type itemAggregate struct {
	total               int
	cancelled           int
	inProduction        int
	readyOrShipped      int
	shipped             int
	plannedProduceShort bool // algún planned PRODUCE_ON_DEMAND sin materiales
	plannedProduceOK    bool // algún planned PRODUCE_ON_DEMAND con materiales
	anyActive           bool // algún ítem planned o in_production
}

func aggregate(items []ItemView) itemAggregate {
	var agg itemAggregate
	agg.total = len(items)
	for _, it := range items {
		switch it.Status {
		case entity.ItemStatusCancelled:
			agg.cancelled++
		case entity.ItemStatusInProduction:
			agg.inProduction++
			agg.anyActive = true
		case entity.ItemStatusReady:
			agg.readyOrShipped++
		case entity.ItemStatusShipped:
			agg.readyOrShipped++
			agg.shipped++
		case entity.ItemStatusPlanned:
			agg.anyActive = true
			if it.Type == entity.FulfillmentTypeProduce {
				if it.MaterialsSufficient {
					agg.plannedProduceOK = true
				} else {
					agg.plannedProduceShort = true
				}
			}
		}
	}
	return agg
}

// statusRule es una regla de derivación con nombre. Las reglas se evalúan en
// orden y gana la primera que aplica (la más bloqueante primero).
type statusRule struct {
	name    string
	applies func(itemAggregate) bool
	status  func(itemAggregate) string
}

var derivationRules = []statusRule{
	{
		name:    "blocked",
		applies: func(a itemAggregate) bool { return a.cancelled > 0 && !a.anyActive },
		status:  func(itemAggregate) string { return OpBlocked },
	},
	{
		name:    "waiting_for_materials",
		applies: func(a itemAggregate) bool { return a.plannedProduceShort },
		status:  func(itemAggregate) string { return OpWaitingForMaterials },
	},
	{
		name:    "waiting_for_production",
		applies: func(a itemAggregate) bool { return a.plannedProduceOK },
		status:  func(itemAggregate) string { return OpWaitingForProduction },
	},
	{
		name:    "in_production",
		applies: func(a itemAggregate) bool { return a.inProduction > 0 },
		status:  func(itemAggregate) string { return OpInProduction },
	},
	{
		name:    "ready_or_shipped",
		applies: func(a itemAggregate) bool { return a.total > 0 && a.readyOrShipped == a.total },
		status: func(a itemAggregate) string {
			if a.shipped == a.total {
				return OpShipped
			}
			return OpReadyToShip
		},
	},
}

// DeriveOperationalStatus reduce los ítems de un pedido a su estado operativo.
// Reducción pura: mismo input, mismo output (el recálculo es idempotente).
func DeriveOperationalStatus(items []ItemView) string {
	agg := aggregate(items)
	for _, rule := range derivationRules {
		if rule.applies(agg) {
			return rule.status(agg)
		}
	}
	return OpPending
}
