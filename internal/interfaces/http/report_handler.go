package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

// ReportHandler maneja los reportes de conciliación del libro de stock (protegido).
type ReportHandler struct {
	reports *inventory.ReportUseCase
	export  *inventory.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *inventory.ReportUseCase, export *inventory.ExportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, export: export}
}

// Movements godoc
// @Summary      Totales de movimientos por producto y bodega
// @Description  Suma cantidades por tipo de movimiento en la ventana [from_date, to_date]. Sin fechas no se filtra por tiempo.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementReportRequest  true  "product_ids, warehouse_ids, movements, from_date, to_date"
// @Success      200   {object}  dto.MovementReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/report [post]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	var in dto.MovementReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateRequest(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.MovementReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AsOf godoc
// @Summary      Saldo a la fecha
// @Description  Inventario base del corte más movimientos y ajustes hasta to_date (hoy por defecto).
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AsOfReportRequest  true  "product_ids, warehouse_ids, movements (opcional), to_date"
// @Success      200   {object}  dto.AsOfReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/report/as-of [post]
func (h *ReportHandler) AsOf(c *fiber.Ctx) error {
	var in dto.AsOfReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateRequest(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.AsOfReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos por bodega de un producto
// @Description  Apertura, movimientos por tipo, varianza y cierre por bodega, con fila de totales.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BalanceReportRequest  true  "product_id, warehouse_ids, from_date, to_date"
// @Success      200   {object}  dto.BalanceReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/report/balances [post]
func (h *ReportHandler) Balances(c *fiber.Ctx) error {
	var in dto.BalanceReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateRequest(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.WarehouseBalances(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportBalances godoc
// @Summary      Exportar saldos por bodega
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query     string                    true  "pdf | xlsx"
// @Param        body    body      dto.BalanceReportRequest  true  "product_id, warehouse_ids, from_date, to_date"
// @Success      200     {file}    file
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/report/balances/export [post]
func (h *ReportHandler) ExportBalances(c *fiber.Ctx) error {
	var in dto.BalanceReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateRequest(in); err != nil {
		return writeError(c, err)
	}
	file, err := h.export.ExportBalances(c.UserContext(), in, c.Query("format", "pdf"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Content)
}

// Variance godoc
// @Summary      Varianza por bodega con totales
// @Description  Suma de correcciones manuales por bodega entre start_date y end_date (inclusivo).
// @Tags         stock-corrections
// @Security     Bearer
// @Produce      json
// @Param        productId   path      string  true  "ID del producto"
// @Param        start_date  query     string  true  "YYYY-MM-DD"
// @Param        end_date    query     string  true  "YYYY-MM-DD"
// @Success      200         {object}  dto.VarianceReportResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      500         {object}  dto.ErrorResponse
// @Router       /api/stock-corrections/variance-with-totals/{productId} [get]
func (h *ReportHandler) Variance(c *fiber.Ctx) error {
	out, err := h.reports.VarianceWithTotals(c.UserContext(), c.Params("productId"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
