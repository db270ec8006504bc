package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

// ExportFile archivo generado para descarga.
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// ExportUseCase exporta el reporte de saldos por bodega en los formatos registrados.
type ExportUseCase struct {
	reports   *ReportUseCase
	renderers map[string]BalanceRenderer
	log       *logger.Logger
}

// NewExportUseCase construye el caso de uso. renderers se indexa por formato ("pdf", "xlsx").
func NewExportUseCase(reports *ReportUseCase, renderers map[string]BalanceRenderer, log *logger.Logger) *ExportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ExportUseCase{reports: reports, renderers: renderers, log: log}
}

// Formats formatos soportados, ordenados.
func (uc *ExportUseCase) Formats() []string {
	out := make([]string, 0, len(uc.renderers))
	for f := range uc.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ExportBalances calcula el reporte de saldos y lo renderiza en el formato pedido.
func (uc *ExportUseCase) ExportBalances(ctx context.Context, in dto.BalanceReportRequest, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q no soportado (usa %s)", domain.ErrInvalidInput, format, strings.Join(uc.Formats(), ", "))
	}
	report, err := uc.reports.BuildBalances(ctx, in)
	if err != nil {
		return nil, err
	}
	content, err := renderer.Render(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	uc.log.Info().
		Str("report_id", report.ReportID).
		Str("format", format).
		Int("bytes", len(content)).
		Msg("reporte exportado")
	return &ExportFile{
		Name: fmt.Sprintf("saldos_%s_%s_%s.%s",
			safeName(report.Product.ID),
			report.From.Format(ledger.DayLayout),
			report.To.Format(ledger.DayLayout),
			renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
