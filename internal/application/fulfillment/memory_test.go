package fulfillment_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria para los tests de casos de uso: implementa los puertos de
// repositorio y el TxRunner sin base de datos, con la misma semántica de
// lectura/escritura que los adaptadores PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	materials      map[string]*entity.Material
	lots           []*entity.MaterialLot
	recipes        map[string]*entity.Recipe // por productID
	tasks          map[string]*entity.ProductionTask
	inventory      map[string]*entity.InventoryRecord // productID|warehouseID
	orders         map[string]*entity.Order
	items          map[string]*entity.OrderItem
	replenishments []*entity.ReplenishmentRequest
}

func newMemStore() *memStore {
	return &memStore{
		materials: make(map[string]*entity.Material),
		recipes:   make(map[string]*entity.Recipe),
		tasks:     make(map[string]*entity.ProductionTask),
		inventory: make(map[string]*entity.InventoryRecord),
		orders:    make(map[string]*entity.Order),
		items:     make(map[string]*entity.OrderItem),
	}
}

func invKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

// memTxRunner ejecuta el callback directamente sobre el almacén (los tests de
// casos de uso no ejercitan rollback: los caminos de error validan antes de
// escribir).
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(repos appfulfillment.Repos) error) error {
	return fn(r.s.repos())
}

func (s *memStore) repos() appfulfillment.Repos {
	return appfulfillment.Repos{
		Materials:      &memMaterialRepo{s},
		Lots:           &memLotRepo{s},
		Recipes:        &memRecipeRepo{s},
		Tasks:          &memTaskRepo{s},
		Inventory:      &memInventoryRepo{s},
		Orders:         &memOrderRepo{s},
		Items:          &memItemRepo{s},
		Replenishments: &memReplenishmentRepo{s},
	}
}

func (s *memStore) txRunner() *memTxRunner { return &memTxRunner{s} }

// stubDeficits implementa DeficitSource con un conjunto fijo.
type stubDeficits map[string]bool

func (d stubDeficits) MaterialsInDeficit(context.Context) (map[string]bool, error) {
	return d, nil
}

// failingPublisher simula un broker caído: siempre falla y cuenta intentos.
type failingPublisher struct{ attempts int }

func (p *failingPublisher) PublishOrderEvent(context.Context, appfulfillment.OrderEvent) error {
	p.attempts++
	return errors.New("broker no disponible")
}

// commitFailRunner ejecuta el callback pero reporta el commit como fallido:
// las escrituras sobre el almacén en memoria quedan, igual que una tx que
// trabajó y no llegó a commit desde la óptica del caller.
type commitFailRunner struct{ s *memStore }

func (r *commitFailRunner) Run(_ context.Context, fn func(repos appfulfillment.Repos) error) error {
	if err := fn(r.s.repos()); err != nil {
		return err
	}
	return errors.New("commit falló")
}

// ── Materiales ────────────────────────────────────────────────────────────────

type memMaterialRepo struct{ s *memStore }

func (r *memMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.materials[m.ID] = m
	return nil
}

func (r *memMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return r.s.materials[id], nil
}

func (r *memMaterialRepo) List(_ context.Context, _, _ int) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

type memLotRepo struct{ s *memStore }

func (r *memLotRepo) Create(_ context.Context, lot *entity.MaterialLot) error {
	r.s.lots = append(r.s.lots, lot)
	return nil
}

func (r *memLotRepo) GetByID(_ context.Context, id string) (*entity.MaterialLot, error) {
	for _, lot := range r.s.lots {
		if lot.ID == id {
			return lot, nil
		}
	}
	return nil, nil
}

func (r *memLotRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.MaterialLot, error) {
	var out []*entity.MaterialLot
	for _, lot := range r.s.lots {
		if lot.MaterialID == materialID {
			out = append(out, lot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.Before(out[j].ReceivedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memLotRepo) ListByMaterialForUpdate(ctx context.Context, materialID string) ([]*entity.MaterialLot, error) {
	return r.ListByMaterial(ctx, materialID)
}

func (r *memLotRepo) UpdateQuantity(_ context.Context, lotID string, quantity decimal.Decimal) error {
	for _, lot := range r.s.lots {
		if lot.ID == lotID {
			lot.Quantity = quantity
			return nil
		}
	}
	return nil
}

func (r *memLotRepo) TotalAvailableByMaterial(_ context.Context) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, lot := range r.s.lots {
		out[lot.MaterialID] = out[lot.MaterialID].Add(lot.Quantity)
	}
	return out, nil
}

// ── Recetas ───────────────────────────────────────────────────────────────────

type memRecipeRepo struct{ s *memStore }

func (r *memRecipeRepo) GetByProduct(_ context.Context, productID string) (*entity.Recipe, error) {
	return r.s.recipes[productID], nil
}

// ── Tareas ────────────────────────────────────────────────────────────────────

type memTaskRepo struct{ s *memStore }

func (r *memTaskRepo) Create(_ context.Context, t *entity.ProductionTask) error {
	r.s.tasks[t.ID] = t
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*entity.ProductionTask, error) {
	return r.s.tasks[id], nil
}

func (r *memTaskRepo) GetForUpdate(_ context.Context, id string) (*entity.ProductionTask, error) {
	return r.s.tasks[id], nil
}

func (r *memTaskRepo) GetActiveByOrderItem(_ context.Context, orderItemID string) (*entity.ProductionTask, error) {
	for _, t := range r.s.tasks {
		if t.OrderItemID == orderItemID && t.Active() {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTaskRepo) ListActive(_ context.Context) ([]*entity.ProductionTask, error) {
	var out []*entity.ProductionTask
	for _, t := range r.s.tasks {
		if t.Active() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *entity.ProductionTask) error {
	r.s.tasks[t.ID] = t
	return nil
}

// ── Inventario ────────────────────────────────────────────────────────────────

type memInventoryRepo struct{ s *memStore }

func (r *memInventoryRepo) Get(_ context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.s.inventory[invKey(productID, warehouseID)]; ok {
		return rec, nil
	}
	return &entity.InventoryRecord{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		Reserved:    decimal.Zero,
	}, nil
}

func (r *memInventoryRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *memInventoryRepo) Upsert(_ context.Context, rec *entity.InventoryRecord) error {
	r.s.inventory[invKey(rec.ProductID, rec.WarehouseID)] = rec
	return nil
}

// ── Pedidos e ítems ───────────────────────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return r.s.orders[id], nil
}

func (r *memOrderRepo) GetForUpdate(_ context.Context, id string) (*entity.Order, error) {
	return r.s.orders[id], nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, orderID, operational, flow string) error {
	o := r.s.orders[orderID]
	o.OperationalStatus = operational
	o.FlowStatus = flow
	o.UpdatedAt = time.Now()
	return nil
}

func (r *memOrderRepo) SetShippedAt(_ context.Context, orderID string, shippedAt time.Time) error {
	r.s.orders[orderID].ShippedAt = &shippedAt
	return nil
}

func (r *memOrderRepo) ListNonTerminalIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id, o := range r.s.orders {
		if o.OperationalStatus != "DONE" && o.OperationalStatus != "CANCELLED" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memOrderRepo) ListShippedBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	for id, o := range r.s.orders {
		if o.OperationalStatus == "SHIPPED" && o.ShippedAt != nil && o.ShippedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.OrderItem, error) {
	return r.s.items[id], nil
}

func (r *memItemRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range r.s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memItemRepo) UpdateFulfillmentStatus(_ context.Context, itemID, status string) error {
	r.s.items[itemID].FulfillmentStatus = status
	return nil
}

func (r *memItemRepo) SetProductionTask(_ context.Context, itemID, taskID string) error {
	r.s.items[itemID].ProductionTaskID = taskID
	return nil
}

// ── Reposición ────────────────────────────────────────────────────────────────

type memReplenishmentRepo struct{ s *memStore }

func (r *memReplenishmentRepo) UpsertPending(_ context.Context, req *entity.ReplenishmentRequest) error {
	for _, existing := range r.s.replenishments {
		if existing.MaterialID == req.MaterialID && existing.Status == entity.ReplenishmentPending {
			existing.Quantity = req.Quantity
			existing.Priority = req.Priority
			return nil
		}
	}
	r.s.replenishments = append(r.s.replenishments, req)
	return nil
}

func (r *memReplenishmentRepo) GetByID(_ context.Context, id string) (*entity.ReplenishmentRequest, error) {
	for _, req := range r.s.replenishments {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, nil
}

func (r *memReplenishmentRepo) ListByStatus(_ context.Context, status string) ([]*entity.ReplenishmentRequest, error) {
	var out []*entity.ReplenishmentRequest
	for _, req := range r.s.replenishments {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memReplenishmentRepo) UpdateStatus(_ context.Context, id, status string) error {
	for _, req := range r.s.replenishments {
		if req.ID == id {
			req.Status = status
			return nil
		}
	}
	return nil
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedLot(s *memStore, id, materialID string, day int, qty, cost int64) *entity.MaterialLot {
	lot := &entity.MaterialLot{
		ID:          id,
		MaterialID:  materialID,
		WarehouseID: "main",
		Quantity:    decimal.NewFromInt(qty),
		CostPerUnit: decimal.NewFromInt(cost),
		ReceivedAt:  time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
	}
	s.lots = append(s.lots, lot)
	return lot
}

func seedRecipe(s *memStore, productID string, lines ...entity.RecipeMaterial) {
	recipe := &entity.Recipe{ID: "rec-" + productID, ProductID: productID}
	for i := range lines {
		lines[i].RecipeID = recipe.ID
		lines[i].Position = i
	}
	recipe.Lines = lines
	s.recipes[productID] = recipe
}

func recipeLine(materialID string, perUnit int64) entity.RecipeMaterial {
	return entity.RecipeMaterial{MaterialID: materialID, Quantity: decimal.NewFromInt(perUnit)}
}

func seedOrder(s *memStore, id string) *entity.Order {
	o := &entity.Order{ID: id, Number: "PED-" + id, OperationalStatus: "PENDING", FlowStatus: "NEW"}
	s.orders[id] = o
	return o
}

func seedItem(s *memStore, id, orderID, productID, status, typ string, qty int64) *entity.OrderItem {
	it := &entity.OrderItem{
		ID:                id,
		OrderID:           orderID,
		ProductID:         productID,
		Quantity:          decimal.NewFromInt(qty),
		FulfillmentStatus: status,
		FulfillmentType:   typ,
	}
	s.items[id] = it
	return it
}
