package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Materials  *appfulfillment.MaterialLedgerUseCase
	Reserve    *appfulfillment.ReserveMaterialsUseCase
	Production *appfulfillment.ProductionUseCase
	Status     *appfulfillment.StatusUseCase
	Shipment   *appfulfillment.ShipmentUseCase
	Reaper     *appfulfillment.ReaperUseCase
	Planner    *appfulfillment.PlannerUseCase
	StaleAge   time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Materia prima
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.Materials, deps.Reserve)
	materials.Post("/lots", materialHandler.ReceiveLot)

	// Reservas
	api.Post("/fulfillment/reserve", materialHandler.Reserve)

	// Cola de producción
	production := api.Group("/production")
	productionHandler := NewProductionHandler(deps.Production)
	production.Post("/", productionHandler.Create)
	production.Post("/:id/start", productionHandler.Start)
	production.Post("/:id/complete", productionHandler.Complete)
	production.Post("/:id/cancel", productionHandler.Cancel)

	// Pedidos: recálculo de estado, despacho, cierre
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Status, deps.Shipment, deps.Reaper, deps.StaleAge)
	orders.Post("/recalculate", orderHandler.RecalculateAll)
	orders.Post("/reap", orderHandler.Reap)
	orders.Post("/:id/recalculate", orderHandler.Recalculate)
	orders.Post("/:id/items/:itemId/ship", orderHandler.ShipItem)

	// Planificador de déficit
	planner := api.Group("/planner")
	plannerHandler := NewPlannerHandler(deps.Planner)
	planner.Get("/deficits", plannerHandler.Deficits)
	planner.Get("/replenishment", plannerHandler.ReplenishmentNeeds)
	planner.Post("/replenishment", plannerHandler.CreateRequests)
	planner.Patch("/replenishment/:id", plannerHandler.UpdateRequest)
}
