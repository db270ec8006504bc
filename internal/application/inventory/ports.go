package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

// Recorder registra métricas de los reportes (implementado en infrastructure/metrics).
type Recorder interface {
	ObserveReport(report string, d time.Duration, err error)
	RecordSkipped(report, reason string, n int)
	RecordTruncated(report string)
}

// NopRecorder no registra nada; útil en tests.
type NopRecorder struct{}

func (NopRecorder) ObserveReport(string, time.Duration, error) {}
func (NopRecorder) RecordSkipped(string, string, int)          {}
func (NopRecorder) RecordTruncated(string)                     {}

// BalanceReport reporte de saldos por bodega listo para renderizar o exportar.
type BalanceReport struct {
	ReportID       string
	Product        entity.Product
	WarehouseNames map[string]string
	From           time.Time
	To             time.Time // último día incluido
	Policy         ledger.OpeningPolicy
	Rows           []ledger.WarehouseBalance
	Totals         ledger.WarehouseBalance
	Truncated      bool
	Skipped        map[string]int
	GeneratedAt    time.Time
}

// WarehouseName nombre para mostrar de una bodega (ID si no hay nombre).
func (r *BalanceReport) WarehouseName(id string) string {
	if name := r.WarehouseNames[id]; name != "" {
		return name
	}
	return id
}

// BalanceRenderer genera un archivo (PDF, XLSX) a partir del reporte de saldos.
type BalanceRenderer interface {
	Render(ctx context.Context, report *BalanceReport) ([]byte, error)
	ContentType() string
	Extension() string
}
