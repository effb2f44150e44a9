package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appfulfillment "github.com/jhoicas/Produccion-api/internal/application/fulfillment"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/messaging"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	materialRepo := postgres.NewMaterialRepository(pool)
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
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos Kafka habilitados")
	}

	plannerUC := appfulfillment.NewPlannerUseCase(
		taskRepo, recipeRepo, lotRepo, txRunner,
		decimal.NewFromInt(int64(cfg.Fulfillment.HighThreshold)), log,
	)
	materialUC := appfulfillment.NewMaterialLedgerUseCase(materialRepo, lotRepo)
	reserveUC := appfulfillment.NewReserveMaterialsUseCase(txRunner)
	productionUC := appfulfillment.NewProductionUseCase(txRunner, plannerUC, publisher, cfg.Fulfillment.DefaultWarehouseID, log)
	statusUC := appfulfillment.NewStatusUseCase(txRunner, orderRepo, plannerUC, publisher, log)
	shipmentUC := appfulfillment.NewShipmentUseCase(txRunner, plannerUC, publisher, cfg.Fulfillment.DefaultWarehouseID, log)
	reaperUC := appfulfillment.NewReaperUseCase(txRunner, orderRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Materials:  materialUC,
		Reserve:    reserveUC,
		Production: productionUC,
		Status:     statusUC,
		Shipment:   shipmentUC,
		Reaper:     reaperUC,
		Planner:    plannerUC,
		StaleAge:   time.Duration(cfg.Fulfillment.StaleOrderDays) * 24 * time.Hour,
	})

	// Apagado ordenado: SIGINT/SIGTERM cierran el servidor y el pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("apagando servidor")
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
	if err := app.Listen(cfg.HTTP.Addr()); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
}
