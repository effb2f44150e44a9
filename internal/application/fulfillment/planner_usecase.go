package fulfillment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// PlannerUseCase calcula el déficit de materia prima: la necesidad pendiente
// de toda la producción activa contra la disponibilidad de los lotes.
// Análisis de solo lectura — nunca muta el libro de materiales.
type PlannerUseCase struct {
	taskRepo      repository.ProductionTaskRepository
	recipeRepo    repository.RecipeRepository
	lotRepo       repository.MaterialLotRepository
	txRunner      TxRunner
	highThreshold decimal.Decimal
	log           *logger.Logger
}

// NewPlannerUseCase construye el planificador.
// highThreshold: cantidad a partir de la cual la reposición es prioridad alta.
func NewPlannerUseCase(
	taskRepo repository.ProductionTaskRepository,
	recipeRepo repository.RecipeRepository,
	lotRepo repository.MaterialLotRepository,
	txRunner TxRunner,
	highThreshold decimal.Decimal,
	log *logger.Logger,
) *PlannerUseCase {
	return &PlannerUseCase{
		taskRepo:      taskRepo,
		recipeRepo:    recipeRepo,
		lotRepo:       lotRepo,
		txRunner:      txRunner,
		highThreshold: highThreshold,
		log:           log,
	}
}

// MaterialDeficit es el faltante de un material frente a la demanda activa.
type MaterialDeficit struct {
	MaterialID string
	Required   decimal.Decimal
	Available  decimal.Decimal
	Deficit    decimal.Decimal
}

// ReplenishmentItem es una sugerencia de compra para cubrir un déficit.
type ReplenishmentItem struct {
	MaterialID string
	Quantity   decimal.Decimal
	Priority   string
}

// GetMaterialDeficits suma, por material, requerido-por-unidad × cantidad
// pendiente de cada tarea activa (pending o in_progress), lo compara contra
// la cantidad restante en lotes y devuelve los materiales con déficit > 0,
// ordenados por material para un resultado determinista.
func (uc *PlannerUseCase) GetMaterialDeficits(ctx context.Context) ([]MaterialDeficit, error) {
	tasks, err := uc.taskRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	required := make(map[string]decimal.Decimal)
	recipeCache := make(map[string]*entity.Recipe)
	for _, task := range tasks {
		recipe, ok := recipeCache[task.ProductID]
		if !ok {
			recipe, err = uc.recipeRepo.GetByProduct(ctx, task.ProductID)
			if err != nil {
				return nil, err
			}
			recipeCache[task.ProductID] = recipe
		}
		if recipe == nil {
			continue
		}
		for _, line := range recipe.Lines {
			need := line.TotalRequired(task.Quantity)
			required[line.MaterialID] = required[line.MaterialID].Add(need)
		}
	}

	available, err := uc.lotRepo.TotalAvailableByMaterial(ctx)
	if err != nil {
		return nil, err
	}

	deficits := make([]MaterialDeficit, 0)
	for materialID, need := range required {
		have := available[materialID]
		if need.LessThanOrEqual(have) {
			continue
		}
		deficits = append(deficits, MaterialDeficit{
			MaterialID: materialID,
			Required:   need,
			Available:  have,
			Deficit:    need.Sub(have),
		})
	}
	sort.Slice(deficits, func(i, j int) bool {
		return deficits[i].MaterialID < deficits[j].MaterialID
	})
	return deficits, nil
}

// MaterialsInDeficit devuelve el conjunto de materiales en déficit global
// (implementa DeficitSource para el agregador de estados).
func (uc *PlannerUseCase) MaterialsInDeficit(ctx context.Context) (map[string]bool, error) {
	deficits, err := uc.GetMaterialDeficits(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(deficits))
	for _, d := range deficits {
		set[d.MaterialID] = true
	}
	return set, nil
}

// GetReplenishmentNeeds convierte los déficits en sugerencias de compra:
// un candidato por material con déficit, prioridad alta si la cantidad supera
// el umbral configurado.
func (uc *PlannerUseCase) GetReplenishmentNeeds(ctx context.Context) ([]ReplenishmentItem, error) {
	deficits, err := uc.GetMaterialDeficits(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ReplenishmentItem, 0, len(deficits))
	for _, d := range deficits {
		priority := entity.ReplenishmentPriorityNormal
		if d.Deficit.GreaterThan(uc.highThreshold) {
			priority = entity.ReplenishmentPriorityHigh
		}
		items = append(items, ReplenishmentItem{
			MaterialID: d.MaterialID,
			Quantity:   d.Deficit,
			Priority:   priority,
		})
	}
	return items, nil
}

// Transiciones válidas del ciclo de vida de una solicitud de reposición:
// pending → ordered → received.
var replenishmentNext = map[string]string{
	entity.ReplenishmentPending: entity.ReplenishmentOrdered,
	entity.ReplenishmentOrdered: entity.ReplenishmentReceived,
}

// AdvanceReplenishment avanza el ciclo de vida de una solicitud: la compra se
// marca ordered al emitirse y received al llegar la mercancía. Cualquier otro
// salto (incluido retroceder) es ErrInvalidTransition.
func (uc *PlannerUseCase) AdvanceReplenishment(ctx context.Context, id, status string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if status != entity.ReplenishmentOrdered && status != entity.ReplenishmentReceived {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		request, err := r.Replenishments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if replenishmentNext[request.Status] != status {
			return domain.ErrInvalidTransition
		}
		return r.Replenishments.UpdateStatus(ctx, id, status)
	})
}

// CreateReplenishmentRequests persiste las sugerencias como solicitudes
// pendientes (una por material, upsert: re-ejecutar actualiza cantidades en
// vez de duplicar). Devuelve cuántas solicitudes quedaron registradas.
func (uc *PlannerUseCase) CreateReplenishmentRequests(ctx context.Context) (int, error) {
	items, err := uc.GetReplenishmentNeeds(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		request := &entity.ReplenishmentRequest{
			ID:         uuid.New().String(),
			MaterialID: item.MaterialID,
			Quantity:   item.Quantity,
			Status:     entity.ReplenishmentPending,
			Priority:   item.Priority,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		err := uc.txRunner.Run(ctx, func(r Repos) error {
			return r.Replenishments.UpsertPending(ctx, request)
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("material_id", item.MaterialID).Msg("registrar reposición falló")
			continue
		}
		created++
	}
	return created, nil
}
