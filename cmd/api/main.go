package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/application/usecase"
	scoring "github.com/jhoicas/Ganaderia-api/internal/domain/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Ganaderia-api/internal/infrastructure/pdf"
	infraxlsx "github.com/jhoicas/Ganaderia-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Ganaderia-api/internal/interfaces/http"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
	"github.com/jhoicas/Ganaderia-api/pkg/config"
	"github.com/jhoicas/Ganaderia-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	// Pesos del puntaje: se validan antes de abrir la base
	policy := scoring.Policy{
		ActiveRestrictionPenalty: cfg.Compliance.ActiveRestrictionPenalty,
		ExpiredBatchPenalty:      cfg.Compliance.ExpiredBatchPenalty,
		ExpiringSoonPenalty:      cfg.Compliance.ExpiringSoonPenalty,
		LowStockPenalty:          cfg.Compliance.LowStockPenalty,
		OutOfStockPenalty:        cfg.Compliance.OutOfStockPenalty,
		ViolationPenalty:         cfg.Compliance.ViolationPenalty,
		SoonThresholdDays:        cfg.Compliance.SoonThresholdDays,
		ExpiringWindowDays:       cfg.Stock.ExpiringWindowDays,
	}
	aggregator, err := scoring.NewAggregator(&policy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de cumplimiento inválida")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("abrir almacenamiento")
	}
	defer store.close()

	sysClock := clock.System{}
	collector := metrics.New(true)

	registerMovementUC := inventory.NewRegisterMovementUseCase(store.txRunner, store.batches, sysClock)
	batchUC := inventory.NewBatchUseCase(
		store.txRunner, store.batches, store.movements, store.drugs, store.farms, sysClock,
		inventory.BatchOptions{
			LowStockThreshold: decimal.NewFromInt(int64(cfg.Stock.LowThresholdDefault)),
			ExpiringWindow:    policy.ExpiringWindow(),
		},
	)

	tolerance := time.Duration(cfg.Ledger.ClockToleranceSeconds) * time.Second
	adminLedger := ledger.New(sysClock, tolerance)
	administrationUC := administration.NewUseCase(administration.Deps{
		Ledger:     adminLedger,
		Repo:       store.administrations,
		AnimalRepo: store.animals,
		DrugRepo:   store.drugs,
		BatchRepo:  store.batches,
		TxRunner:   store.txRunner,
		Movements:  registerMovementUC,
		Clock:      sysClock,
		Logger:     log.Component("administration"),
		Metrics:    collector,
	})
	n, err := administrationUC.Hydrate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("rehidratar ledger")
	}
	log.Info().Int("events", n).Dur("clock_tolerance", tolerance).Msg("ledger listo")

	complianceUC, err := compliance.NewUseCase(compliance.Deps{
		Aggregator: aggregator,
		Ledger:     adminLedger,
		FarmRepo:   store.farms,
		AnimalRepo: store.animals,
		BatchRepo:  store.batches,
		Clock:      sysClock,
		Logger:     log.Component("compliance"),
		Metrics:    collector,
		Generators: map[string]compliance.ReportGenerator{
			"pdf":  infrapdf.NewComplianceReportGenerator(),
			"xlsx": infraxlsx.NewComplianceReportGenerator(),
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("caso de uso de cumplimiento")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), collector))

	// Swagger UI en local: http://localhost:<port>/docs (generar con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ganadería API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db_driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		FarmUC:           usecase.NewFarmUseCase(store.farms, sysClock),
		AnimalUC:         usecase.NewAnimalUseCase(store.animals, store.farms, sysClock),
		DrugUC:           usecase.NewDrugUseCase(store.drugs, sysClock),
		BatchUC:          batchUC,
		RegisterMovement: registerMovementUC,
		AdministrationUC: administrationUC,
		ComplianceUC:     complianceUC,
		JWTSecret:        cfg.JWT.Secret,
		Metrics:          collector.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
