package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockledger-api/docs"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/application/usecase"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/erpcsv"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stockledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/stockledger-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/stockledger-api/internal/interfaces/http"
	"github.com/jhoicas/stockledger-api/pkg/config"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

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
		Str("cutover", cfg.Ledger.CutoverDate.Format("2006-01-02")).
		Str("opening_policy", string(cfg.Ledger.OpeningPolicy)).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	movementRepo := postgres.NewStockMovementRepository(pool)
	correctionRepo := postgres.NewStockCorrectionRepository(pool)
	snapshotRepo := postgres.NewInventorySnapshotRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool, cfg.Ledger.WarehouseTables)
	productRepo := postgres.NewProductRepository(pool)

	var recorder inventory.Recorder = inventory.NopRecorder{}
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		recorder = m
	}

	qb := inventory.NewQueryBuilder(movementRepo, correctionRepo, snapshotRepo, inventory.QueryConfig{
		PageSize: cfg.Ledger.PageSize,
		MaxPages: cfg.Ledger.MaxPages,
	})
	reportUC := inventory.NewReportUseCase(qb, warehouseRepo, warehouseRepo, productRepo, inventory.ReportConfig{
		Cutover: cfg.Ledger.CutoverDate,
		Policy:  cfg.Ledger.OpeningPolicy,
	}, log, recorder)

	// Exportación: PDF (maroto) y hoja de cálculo (excelize)
	pdfRenderer := infrapdf.NewBalanceReportPDF()
	xlsxRenderer := infraxlsx.NewBalanceReportXLSX()
	exportUC := inventory.NewExportUseCase(reportUC, map[string]inventory.BalanceRenderer{
		pdfRenderer.Extension():  pdfRenderer,
		xlsxRenderer.Extension(): xlsxRenderer,
	}, log)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	importUC := inventory.NewImportSnapshotUseCase(postgres.NewTxRunner(pool), erpcsv.Reader{Comma: ';'}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // los reportes paginan hasta MaxPages por tipo
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	if m != nil {
		app.Use(m.Middleware())
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(m.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FilePath:    "./docs/swagger.json",
		FileContent: docs.SwaggerJSON,
		Path:        "docs",
		Title:       docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API de reportes queda sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		ReportUC:    reportUC,
		ExportUC:    exportUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		ImportUC:    importUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
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
