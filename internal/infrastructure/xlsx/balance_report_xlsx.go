// Package xlsx exporta el reporte de saldos por bodega a una hoja de cálculo.
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

// SheetName nombre de la hoja con los saldos.
const SheetName = "Saldos"

// Header encabezados de la tabla, en el orden de las columnas.
var Header = []string{
	"Bodega", "ID bodega", "Inicial", "Compras", "Dev. compra", "Ventas", "Dev. venta",
	"Mermas", "Tras. entrada", "Tras. salida", "Producción", "Consumo", "Ajuste", "Con ajuste", "Final",
}

var _ inventory.BalanceRenderer = (*BalanceReportXLSX)(nil)

// BalanceReportXLSX implementa inventory.BalanceRenderer con excelize.
type BalanceReportXLSX struct{}

// NewBalanceReportXLSX construye el generador.
func NewBalanceReportXLSX() *BalanceReportXLSX { return &BalanceReportXLSX{} }

// ContentType implementa inventory.BalanceRenderer.
func (g *BalanceReportXLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implementa inventory.BalanceRenderer.
func (g *BalanceReportXLSX) Extension() string { return "xlsx" }

// Render arma el libro: título y periodo, encabezados, una fila por bodega y la fila TOTAL.
func (g *BalanceReportXLSX) Render(ctx context.Context, report *inventory.BalanceReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	number, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	title := report.Product.Name
	if title == "" {
		title = report.Product.ID
	}
	meta := [][]any{
		{"Producto", title},
		{"Código", report.Product.Barcode},
		{"Periodo", report.From.Format(ledger.DayLayout) + " a " + report.To.Format(ledger.DayLayout)},
		{"Saldo inicial", string(report.Policy)},
		{"Reporte", report.ReportID},
		{"Truncado", report.Truncated},
	}
	rowNo := 1
	for _, m := range meta {
		if err := setRow(f, rowNo, m); err != nil {
			return nil, err
		}
		rowNo++
	}
	_ = f.SetCellStyle(SheetName, "A1", fmt.Sprintf("A%d", rowNo-1), bold)

	rowNo++
	headerRow := rowNo
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := setRow(f, headerRow, header); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), headerRow)
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("A%d", headerRow), last, bold)

	for _, b := range report.Rows {
		rowNo++
		if err := setRow(f, rowNo, balanceValues(report.WarehouseName(b.WarehouseID), b.WarehouseID, b)); err != nil {
			return nil, err
		}
	}
	rowNo++
	if err := setRow(f, rowNo, balanceValues("TOTAL", "", report.Totals)); err != nil {
		return nil, err
	}
	lastCell, _ := excelize.CoordinatesToCellName(len(Header), rowNo)
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("C%d", headerRow+1), lastCell, number)
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("A%d", rowNo), fmt.Sprintf("B%d", rowNo), bold)
	_ = f.SetColWidth(SheetName, "A", "A", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", rowNo, err)
	}
	return nil
}

func balanceValues(name, id string, b ledger.WarehouseBalance) []any {
	return []any{
		name, id,
		num(b.OpeningStock),
		num(b.Purchases),
		num(b.PurchaseReturns),
		num(b.Sales),
		num(b.SalesReturns),
		num(b.Wastages),
		num(b.TransferIn),
		num(b.TransferOut),
		num(b.Manufacturing),
		num(b.Consumption),
		num(b.Variance),
		b.HasVariance,
		num(b.ClosingStock),
	}
}

func num(d decimal.Decimal) float64 { return d.InexactFloat64() }
