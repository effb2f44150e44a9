package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/messaging"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// Intervalos de los barridos periódicos.
const (
	recalcInterval  = 5 * time.Minute
	plannerInterval = 15 * time.Minute
	reaperInterval  = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().Str("app", cfg.App.Name).Msg("iniciando worker de barridos")

	// ctx se cancela con SIGINT/SIGTERM; los barridos cortan entre entidades.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewMaterialLotRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	taskRepo := postgres.NewProductionTaskRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var publisher appfulfillment.OrderEventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	plannerUC := appfulfillment.NewPlannerUseCase(
		taskRepo, recipeRepo, lotRepo, txRunner,
		decimal.NewFromInt(int64(cfg.Fulfillment.HighThreshold)), log,
	)
	statusUC := appfulfillment.NewStatusUseCase(txRunner, orderRepo, plannerUC, publisher, log)
	reaperUC := appfulfillment.NewReaperUseCase(txRunner, orderRepo, log)
	staleAge := time.Duration(cfg.Fulfillment.StaleOrderDays) * 24 * time.Hour

	recalcTicker := time.NewTicker(recalcInterval)
	plannerTicker := time.NewTicker(plannerInterval)
	reaperTicker := time.NewTicker(reaperInterval)
	defer recalcTicker.Stop()
	defer plannerTicker.Stop()
	defer reaperTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker detenido")
			return
		case <-recalcTicker.C:
			if _, err := statusUC.RecalculateAll(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("barrido de recálculo")
			}
		case <-plannerTicker.C:
			if _, err := plannerUC.CreateReplenishmentRequests(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("barrido de reposición")
			}
		case <-reaperTicker.C:
			if _, err := reaperUC.MarkStaleOrdersDone(ctx, staleAge); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("barrido de cierre")
			}
		}
	}
}
