package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/fulfillment"
)

// TestMapToFlow_Totalidad verifica la proyección exacta de cada estado
// operativo al estado de flujo externo, incluido el colapso deliberado
// BLOCKED→CANCELLED y el default NEW para valores no mapeados.
func TestMapToFlow_Totalidad(t *testing.T) {
	cases := map[string]string{
		fulfillment.OpReadyToShip:          fulfillment.FlowReadyToShip,
		fulfillment.OpWaitingForProduction: fulfillment.FlowNeedProduction,
		fulfillment.OpWaitingForMaterials:  fulfillment.FlowNeedMaterials,
		fulfillment.OpInProduction:         fulfillment.FlowInProduction,
		fulfillment.OpShipped:              fulfillment.FlowShipped,
		fulfillment.OpDone:                 fulfillment.FlowDone,
		fulfillment.OpCancelled:            fulfillment.FlowCancelled,
		fulfillment.OpBlocked:              fulfillment.FlowCancelled, // colapso intencional
		fulfillment.OpPending:              fulfillment.FlowNew,
		"":                                 fulfillment.FlowNew,
		"ALGO_DESCONOCIDO":                 fulfillment.FlowNew,
	}
	for operational, want := range cases {
		assert.Equal(t, want, fulfillment.MapToFlow(operational), "proyección de %q", operational)
	}
}

func item(status, typ string, sufficient bool) fulfillment.ItemView {
	return fulfillment.ItemView{Status: status, Type: typ, MaterialsSufficient: sufficient}
}

// TestDeriveOperationalStatus_Precedencia ejercita las reglas en orden:
// la primera que aplica gana, la más bloqueante primero.
func TestDeriveOperationalStatus_Precedencia(t *testing.T) {
	tests := []struct {
		name  string
		items []fulfillment.ItemView
		want  string
	}{
		{
			name: "cancelado sin ítems activos bloquea",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusCancelled, entity.FulfillmentTypeStock, true),
				item(entity.ItemStatusReady, entity.FulfillmentTypeStock, true),
			},
			want: fulfillment.OpBlocked,
		},
		{
			name: "cancelado con ítem activo no bloquea",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusCancelled, entity.FulfillmentTypeStock, true),
				item(entity.ItemStatusInProduction, entity.FulfillmentTypeProduce, true),
			},
			want: fulfillment.OpInProduction,
		},
		{
			name: "planificado a producir sin materiales espera materiales",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, false),
				item(entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, true),
			},
			want: fulfillment.OpWaitingForMaterials,
		},
		{
			name: "planificado a producir con materiales espera producción",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, true),
				item(entity.ItemStatusReady, entity.FulfillmentTypeStock, true),
			},
			want: fulfillment.OpWaitingForProduction,
		},
		{
			name: "la espera de materiales precede a la producción en curso",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusInProduction, entity.FulfillmentTypeProduce, true),
				item(entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, false),
			},
			want: fulfillment.OpWaitingForMaterials,
		},
		{
			name: "algún ítem en producción",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusInProduction, entity.FulfillmentTypeProduce, true),
				item(entity.ItemStatusReady, entity.FulfillmentTypeStock, true),
			},
			want: fulfillment.OpInProduction,
		},
		{
			name: "todos listos es listo para despachar",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusReady, entity.FulfillmentTypeStock, true),
				item(entity.ItemStatusReady, entity.FulfillmentTypeProduce, true),
			},
			want: fulfillment.OpReadyToShip,
		},
		{
			name: "mezcla de listos y despachados sigue listo para despachar",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusReady, entity.FulfillmentTypeStock, true),
				item(entity.ItemStatusShipped, entity.FulfillmentTypeStock, true),
			},
			want: fulfillment.OpReadyToShip,
		},
		{
			name: "todos despachados",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusShipped, entity.FulfillmentTypeStock, true),
				item(entity.ItemStatusShipped, entity.FulfillmentTypeProduce, true),
			},
			want: fulfillment.OpShipped,
		},
		{
			name: "planificado de stock no dispara producción",
			items: []fulfillment.ItemView{
				item(entity.ItemStatusPlanned, entity.FulfillmentTypeStock, true),
			},
			want: fulfillment.OpPending,
		},
		{
			name:  "sin ítems queda pendiente",
			items: nil,
			want:  fulfillment.OpPending,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fulfillment.DeriveOperationalStatus(tc.items))
		})
	}
}

// TestDeriveOperationalStatus_Pura verifica que la derivación es pura:
// mismo input dos veces, mismo resultado (el recálculo es idempotente).
func TestDeriveOperationalStatus_Pura(t *testing.T) {
	items := []fulfillment.ItemView{
		item(entity.ItemStatusPlanned, entity.FulfillmentTypeProduce, false),
		item(entity.ItemStatusInProduction, entity.FulfillmentTypeProduce, true),
	}
	first := fulfillment.DeriveOperationalStatus(items)
	second := fulfillment.DeriveOperationalStatus(items)
	assert.Equal(t, first, second)
	assert.Equal(t, fulfillment.OpWaitingForMaterials, first)
}
