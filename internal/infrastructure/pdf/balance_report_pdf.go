// Package pdf genera la versión imprimible del reporte de saldos por bodega.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + código de barras  │  Periodo + política          │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TABLA: Bodega | Inicial | Compras | Ventas | Devol. | ... | Final    │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  TOTALES                                                             │
//	│  FOOTER: id del reporte, avisos de truncamiento y registros omitidos │
//	└──────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

var _ inventory.BalanceRenderer = (*BalanceReportPDF)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// BalanceReportPDF implementa inventory.BalanceRenderer usando Maroto v2.
type BalanceReportPDF struct {
	printer *message.Printer
}

// NewBalanceReportPDF construye el generador. Las cifras se formatean en es-CO.
func NewBalanceReportPDF() *BalanceReportPDF {
	return &BalanceReportPDF{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// ContentType implementa inventory.BalanceRenderer.
func (g *BalanceReportPDF) ContentType() string { return "application/pdf" }

// Extension implementa inventory.BalanceRenderer.
func (g *BalanceReportPDF) Extension() string { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *BalanceReportPDF) Render(ctx context.Context, report *inventory.BalanceReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithMaxGridSize(gridSize).
		WithTitle("Saldos por bodega", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, b := range report.Rows {
		m.AddRows(g.balanceRow(report.WarehouseName(b.WarehouseID), b, false))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.balanceRow("TOTAL", report.Totals, true))

	m.AddRows(line.NewRow(3))
	for _, r := range footerRows(report) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *BalanceReportPDF) headerRow(r *inventory.BalanceReport) core.Row {
	name := r.Product.Name
	if name == "" {
		name = r.Product.ID
	}
	periodo := fmt.Sprintf("Periodo: %s a %s", r.From.Format("02/01/2006"), r.To.Format("02/01/2006"))

	return row.New(18).Add(
		col.New(8).Add(
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Código: "+nonEmpty(r.Product.Barcode, "-")+"   |   ID: "+r.Product.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("SALDOS POR BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(periodo, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 6,
			}),
			text.New("Saldo inicial: "+policyLabel(r.Policy), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// gridSize columnas de la grilla: bodega (2) + 12 cifras.
const gridSize = 14

var tableColumns = []struct {
	label string
	size  int
}{
	{"Bodega", 2},
	{"Inicial", 1},
	{"Compras", 1},
	{"Dev. compra", 1},
	{"Ventas", 1},
	{"Dev. venta", 1},
	{"Mermas", 1},
	{"Tras. ent.", 1},
	{"Tras. sal.", 1},
	{"Producción", 1},
	{"Consumo", 1},
	{"Ajuste", 1},
	{"Final", 1},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(tableColumns))
	for i, c := range tableColumns {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func (g *BalanceReportPDF) balanceRow(label string, b ledger.WarehouseBalance, total bool) core.Row {
	style := fontstyle.Normal
	if total {
		style = fontstyle.Bold
	}
	cell := func(size int, s string, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: style, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	variance := g.number(b.Variance)
	if b.HasVariance {
		variance += " *"
	}
	return row.New(7).Add(
		cell(2, label, align.Left),
		cell(1, g.number(b.OpeningStock), align.Right),
		cell(1, g.number(b.Purchases), align.Right),
		cell(1, g.number(b.PurchaseReturns), align.Right),
		cell(1, g.number(b.Sales), align.Right),
		cell(1, g.number(b.SalesReturns), align.Right),
		cell(1, g.number(b.Wastages), align.Right),
		cell(1, g.number(b.TransferIn), align.Right),
		cell(1, g.number(b.TransferOut), align.Right),
		cell(1, g.number(b.Manufacturing), align.Right),
		cell(1, g.number(b.Consumption), align.Right),
		cell(1, variance, align.Right),
		cell(1, g.number(b.ClosingStock), align.Right),
	)
}

func footerRows(r *inventory.BalanceReport) []core.Row {
	rows := []core.Row{
		row.New(5).Add(col.New(gridSize).Add(
			text.New(fmt.Sprintf("Reporte %s generado %s UTC. * Bodega con ajustes manuales en el periodo.",
				r.ReportID, r.GeneratedAt.UTC().Format("02/01/2006 15:04")),
				props.Text{Size: 7, Color: colorGray, Top: 1}),
		)),
	}
	if r.Truncated {
		rows = append(rows, row.New(5).Add(col.New(gridSize).Add(
			text.New("Atención: se alcanzó el límite de paginación; los totales pueden estar incompletos.",
				props.Text{Style: fontstyle.Bold, Size: 7, Color: colorAlert, Top: 1}),
		)))
	}
	if s := skippedSummary(r.Skipped); s != "" {
		rows = append(rows, row.New(5).Add(col.New(gridSize).Add(
			text.New("Registros omitidos: "+s, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *BalanceReportPDF) number(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.InexactFloat64())
}

func policyLabel(p ledger.OpeningPolicy) string {
	if p == ledger.PolicyReplay {
		return "reconstruido desde el corte"
	}
	return "inventario base del corte"
}

func skippedSummary(skipped map[string]int) string {
	keys := make([]string, 0, len(skipped))
	for k, n := range skipped {
		if n > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, skipped[k]))
	}
	return strings.Join(parts, ", ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
