package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReportUC    *inventory.ReportUseCase
	ExportUC    *inventory.ExportUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	ImportUC    *inventory.ImportSnapshotUseCase // nil: sin endpoint de importación
	JWTSecret   string // vacío: API sin autenticación
	JWTIssuer   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con secreto configurado todas las rutas /api exigen Bearer Token.
	exportGuard := func(c *fiber.Ctx) error { return c.Next() }
	importGuard := exportGuard
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
		exportGuard = RequireRole(RoleAdmin, RoleManager)
		importGuard = RequireRole(RoleAdmin)
	}

	reportHandler := NewReportHandler(deps.ReportUC, deps.ExportUC)
	report := api.Group("/report")
	report.Post("/", reportHandler.Movements)
	report.Post("/as-of", reportHandler.AsOf)
	report.Post("/balances", reportHandler.Balances)
	report.Post("/balances/export", exportGuard, reportHandler.ExportBalances)

	corrections := api.Group("/stock-corrections")
	corrections.Get("/variance-with-totals/:productId", reportHandler.Variance)

	// Selectores del formulario de reportes
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	api.Get("/warehouses", warehouseHandler.List)

	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	if deps.ImportUC != nil {
		importHandler := NewImportHandler(deps.ImportUC)
		api.Post("/import/snapshot", importGuard, importHandler.Snapshot)
	}
}
