package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/stockledger-api/internal/application/inventory")

// Nombres de reporte usados en logs y métricas.
const (
	ReportMovements = "movements"
	ReportAsOf      = "as_of"
	ReportBalances  = "balances"
	ReportVariance  = "variance"
)

// ReportConfig reglas de negocio de los reportes.
type ReportConfig struct {
	Cutover time.Time            // fecha desde la que la historia de movimientos es confiable
	Policy  ledger.OpeningPolicy // política de apertura del reporte de saldos por bodega
}

// ReportUseCase casos de uso de conciliación del libro de stock.
// No guarda estado entre peticiones: cada reporte se calcula desde el almacén.
type ReportUseCase struct {
	qb         *QueryBuilder
	directory  repository.WarehouseDirectory
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	cfg        ReportConfig
	log        *logger.Logger
	metrics    Recorder
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	qb *QueryBuilder,
	directory repository.WarehouseDirectory,
	warehouses repository.WarehouseRepository,
	products repository.ProductRepository,
	cfg ReportConfig,
	log *logger.Logger,
	metrics Recorder,
) *ReportUseCase {
	if cfg.Policy == "" {
		cfg.Policy = ledger.PolicyCutoverSnapshot
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = NopRecorder{}
	}
	return &ReportUseCase{
		qb:         qb,
		directory:  directory,
		warehouses: warehouses,
		products:   products,
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (fecha por defecto del reporte a la fecha).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// ── Reporte de movimientos ───────────────────────────────────────────────────

// MovementReport totales por tipo, producto y bodega dentro de la ventana.
func (uc *ReportUseCase) MovementReport(ctx context.Context, in dto.MovementReportRequest) (out *dto.MovementReportResponse, err error) {
	products, err := requireIDs(in.ProductIDs, "selecciona al menos un producto")
	if err != nil {
		return nil, err
	}
	warehouses, err := requireIDs(in.WarehouseIDs, "selecciona al menos una bodega")
	if err != nil {
		return nil, err
	}
	if len(in.Movements) == 0 {
		return nil, fmt.Errorf("%w: selecciona al menos un tipo de movimiento", domain.ErrInvalidInput)
	}
	kinds, err := ledger.ParseKinds(in.Movements)
	if err != nil {
		return nil, err
	}
	w, err := ledger.NewWindow(in.FromDate, in.ToDate)
	if err != nil {
		return nil, err
	}

	ctx, run := uc.begin(ctx, ReportMovements)
	defer func() { uc.finish(run, err) }()

	data, err := uc.load(ctx, run, loadPlan{products: products, warehouses: warehouses, kinds: kinds, window: w})
	if err != nil {
		return nil, err
	}
	agg := ledger.NewAggregator(ledger.Filter{ProductIDs: products, WarehouseIDs: warehouses, Kinds: kinds, Window: w}, run.skips)
	for _, b := range data.batches {
		agg.AddKind(b.Kind, b.Rows...)
	}
	buckets := agg.Buckets()

	out = &dto.MovementReportResponse{
		ReportID:  run.id,
		FromDate:  strings.TrimSpace(in.FromDate),
		ToDate:    strings.TrimSpace(in.ToDate),
		Rows:      make([]dto.MovementReportRow, 0, len(buckets)),
		Totals:    movesMap(kinds, buckets.Sum()),
		Truncated: run.truncated,
		Skipped:   run.skips.Snapshot(),
	}
	for _, key := range buckets.Keys() {
		out.Rows = append(out.Rows, dto.MovementReportRow{
			WarehouseID: key.WarehouseID,
			ProductID:   key.ProductID,
			Moves:       movesMap(kinds, buckets[key]),
		})
	}
	return out, nil
}

// ── Reporte a la fecha ───────────────────────────────────────────────────────

// AsOfReport saldo por producto y bodega desde la fecha de corte hasta toDate (hoy por defecto).
// La apertura es el inventario base sin modificar (política de corte).
func (uc *ReportUseCase) AsOfReport(ctx context.Context, in dto.AsOfReportRequest) (out *dto.AsOfReportResponse, err error) {
	products, err := requireIDs(in.ProductIDs, "selecciona al menos un producto")
	if err != nil {
		return nil, err
	}
	warehouses, err := requireIDs(in.WarehouseIDs, "selecciona al menos una bodega")
	if err != nil {
		return nil, err
	}
	kinds := ledger.AllKinds
	if len(in.Movements) > 0 {
		if kinds, err = ledger.ParseKinds(in.Movements); err != nil {
			return nil, err
		}
	}
	from := uc.cfg.Cutover
	to := uc.now().UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(in.ToDate) != "" {
		if to, err = ledger.ParseDay(in.ToDate); err != nil {
			return nil, err
		}
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to_date anterior a la fecha de corte %s", domain.ErrInvalidInput, from.Format(ledger.DayLayout))
	}
	w := ledger.Window{Start: from, End: to.AddDate(0, 0, 1)}
	calc := ledger.OpeningCalculator{Policy: ledger.PolicyCutoverSnapshot, Cutover: from}

	ctx, run := uc.begin(ctx, ReportAsOf)
	defer func() { uc.finish(run, err) }()

	data, err := uc.load(ctx, run, loadPlan{
		products: products, warehouses: warehouses, kinds: kinds, window: w,
		snapshots: true, corrections: true,
	})
	if err != nil {
		return nil, err
	}
	agg := ledger.NewAggregator(ledger.Filter{ProductIDs: products, WarehouseIDs: warehouses, Kinds: kinds, Window: w}, run.skips)
	for _, b := range data.batches {
		agg.AddKind(b.Kind, b.Rows...)
	}
	buckets := agg.Buckets()
	adjustments := ledger.ReconcileAll(data.corrections, data.resolver, warehouses, w, run.skips)

	keys := unionKeys(data.snapshots, buckets, adjustments)
	out = &dto.AsOfReportResponse{
		ReportID:  run.id,
		FromDate:  from.Format(ledger.DayLayout),
		ToDate:    to.Format(ledger.DayLayout),
		Rows:      make([]dto.AsOfReportRow, 0, len(keys)),
		Truncated: run.truncated,
		Skipped:   run.skips.Snapshot(),
	}
	sum := ledger.Totals{}
	for _, key := range keys {
		opening := calc.Opening(from, data.snapshots[key], nil, decimal.Zero)
		adj := adjustments[key].Total
		closing := ledger.ClosingStock(opening, buckets[key], adj)
		out.Rows = append(out.Rows, dto.AsOfReportRow{
			WarehouseID: key.WarehouseID,
			ProductID:   key.ProductID,
			Opening:     opening,
			Adjustments: adj,
			Moves:       movesMap(kinds, buckets[key]),
			Closing:     closing,
		})
		out.Totals.Opening = out.Totals.Opening.Add(opening)
		out.Totals.Adjustments = out.Totals.Adjustments.Add(adj)
		out.Totals.Closing = out.Totals.Closing.Add(closing)
		for _, k := range kinds {
			sum[k] = sum.Get(k).Add(buckets[key].Get(k))
		}
	}
	out.Totals.Moves = movesMap(kinds, sum)
	return out, nil
}

// ── Saldos por bodega (detalle por SKU) ──────────────────────────────────────

// WarehouseBalances saldos de un producto por bodega con fila de totales.
func (uc *ReportUseCase) WarehouseBalances(ctx context.Context, in dto.BalanceReportRequest) (*dto.BalanceReportResponse, error) {
	report, err := uc.BuildBalances(ctx, in)
	if err != nil {
		return nil, err
	}
	out := &dto.BalanceReportResponse{
		ReportID:    report.ReportID,
		ProductID:   report.Product.ID,
		ProductName: report.Product.Name,
		FromDate:    report.From.Format(ledger.DayLayout),
		ToDate:      report.To.Format(ledger.DayLayout),
		Policy:      string(report.Policy),
		Rows:        make([]dto.WarehouseBalanceDTO, 0, len(report.Rows)),
		Totals:      toBalanceDTO(report.Totals, ""),
		Truncated:   report.Truncated,
		Skipped:     report.Skipped,
	}
	for _, r := range report.Rows {
		out.Rows = append(out.Rows, toBalanceDTO(r, report.WarehouseName(r.WarehouseID)))
	}
	return out, nil
}

// BuildBalances calcula apertura, movimientos por tipo, varianza y cierre por bodega.
// La apertura usa la política configurada; todas las bodegas pedidas aparecen aunque no tengan actividad.
func (uc *ReportUseCase) BuildBalances(ctx context.Context, in dto.BalanceReportRequest) (report *BalanceReport, err error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: selecciona un producto", domain.ErrInvalidInput)
	}
	warehouses, err := requireIDs(in.WarehouseIDs, "selecciona al menos una bodega")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FromDate) == "" || strings.TrimSpace(in.ToDate) == "" {
		return nil, fmt.Errorf("%w: from_date y to_date son requeridos", domain.ErrInvalidInput)
	}
	w, err := ledger.NewWindow(in.FromDate, in.ToDate)
	if err != nil {
		return nil, err
	}
	calc := ledger.OpeningCalculator{Policy: uc.cfg.Policy, Cutover: uc.cfg.Cutover}
	replayWin, replay := calc.ReplayWindow(w.Start)
	fetchWin := w
	if replay {
		fetchWin.Start = replayWin.Start
	}
	products := []string{productID}

	ctx, run := uc.begin(ctx, ReportBalances)
	defer func() { uc.finish(run, err) }()

	data, err := uc.load(ctx, run, loadPlan{
		products: products, warehouses: warehouses, kinds: ledger.AllKinds, window: fetchWin,
		snapshots: true, corrections: true,
	})
	if err != nil {
		return nil, err
	}

	// Ventana del reporte y ventana previa son disjuntas: cada fila entra a lo sumo en una.
	cur := ledger.NewAggregator(ledger.Filter{ProductIDs: products, WarehouseIDs: warehouses, Kinds: ledger.AllKinds, Window: w}, run.skips)
	prior := ledger.NewAggregator(ledger.Filter{ProductIDs: products, WarehouseIDs: warehouses, Kinds: ledger.AllKinds, Window: replayWin}, run.skips)
	for _, b := range data.batches {
		cur.AddKind(b.Kind, b.Rows...)
		if replay {
			prior.AddKind(b.Kind, b.Rows...)
		}
	}
	variance := ledger.ReconcileAll(data.corrections, data.resolver, warehouses, w, run.skips)
	priorVariance := map[ledger.Key]ledger.VarianceResult{}
	if replay {
		priorVariance = ledger.ReconcileAll(data.corrections, data.resolver, warehouses, replayWin, run.skips)
	}

	curBuckets, priorBuckets := cur.Buckets(), prior.Buckets()
	rows := make([]ledger.WarehouseBalance, 0, len(warehouses))
	for _, wh := range warehouses {
		key := ledger.Key{ProductID: productID, WarehouseID: wh}
		opening := calc.Opening(w.Start, data.snapshots[key], priorBuckets[key], priorVariance[key].Total)
		rows = append(rows, ledger.NewBalance(wh, opening, curBuckets[key], variance[key]))
	}

	product, names, err := uc.labels(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &BalanceReport{
		ReportID:       run.id,
		Product:        product,
		WarehouseNames: names,
		From:           w.Start,
		To:             w.LastDay(),
		Policy:         calc.Policy,
		Rows:           rows,
		Totals:         ledger.SumBalances(rows),
		Truncated:      run.truncated,
		Skipped:        run.skips.Snapshot(),
		GeneratedAt:    uc.now().UTC(),
	}, nil
}

// ── Varianza con totales ─────────────────────────────────────────────────────

// VarianceWithTotals varianza de un producto por bodega en [startDate, endDate] (inclusivo).
func (uc *ReportUseCase) VarianceWithTotals(ctx context.Context, productID, startDate, endDate string) (out *dto.VarianceReportResponse, err error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId es requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return nil, fmt.Errorf("%w: start_date y end_date son requeridos", domain.ErrInvalidInput)
	}
	w, err := ledger.NewWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	ctx, run := uc.begin(ctx, ReportVariance)
	defer func() { uc.finish(run, err) }()

	data, err := uc.load(ctx, run, loadPlan{products: []string{productID}, window: w, corrections: true})
	if err != nil {
		return nil, err
	}
	all := ledger.ReconcileAll(data.corrections, data.resolver, nil, w, run.skips)
	keys := make([]ledger.Key, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	ledger.SortKeys(keys)

	out = &dto.VarianceReportResponse{
		ProductID: productID,
		StartDate: w.Start.Format(ledger.DayLayout),
		EndDate:   w.LastDay().Format(ledger.DayLayout),
		Rows:      make([]dto.VarianceRow, 0, len(keys)),
		Truncated: run.truncated,
		Skipped:   run.skips.Snapshot(),
	}
	for _, k := range keys {
		v := all[k]
		out.Rows = append(out.Rows, dto.VarianceRow{WarehouseID: k.WarehouseID, Total: v.Total, HasVariance: v.HasVariance})
		out.Total = out.Total.Add(v.Total)
		out.HasVariance = out.HasVariance || v.HasVariance
	}
	return out, nil
}

// ── Carga y seguimiento ──────────────────────────────────────────────────────

type loadPlan struct {
	products    []string
	warehouses  []string
	kinds       []ledger.Kind
	window      ledger.Window
	snapshots   bool
	corrections bool
}

type ledgerData struct {
	batches     []MovementBatch
	snapshots   map[ledger.Key]decimal.Decimal
	corrections []entity.StockCorrection
	resolver    ledger.WarehouseResolver
}

// load lanza en paralelo las lecturas del reporte. Ninguna agregación ocurre hasta que todas terminan.
func (uc *ReportUseCase) load(ctx context.Context, run *reportRun, s loadPlan) (*ledgerData, error) {
	data := &ledgerData{snapshots: map[ledger.Key]decimal.Decimal{}}
	var movTruncated, corrTruncated bool
	g, gctx := errgroup.WithContext(ctx)
	if len(s.kinds) > 0 {
		g.Go(func() error {
			batches, err := uc.qb.FetchMovements(gctx, s.products, s.warehouses, s.kinds, s.window)
			if err != nil {
				return err
			}
			data.batches = batches
			for _, b := range batches {
				movTruncated = movTruncated || b.Truncated
			}
			return nil
		})
	}
	if s.snapshots {
		g.Go(func() error {
			snaps, err := uc.qb.FetchSnapshots(gctx, s.products, s.warehouses)
			if err != nil {
				return err
			}
			data.snapshots = snaps
			return nil
		})
	}
	if s.corrections {
		g.Go(func() error {
			rows, truncated, err := uc.qb.FetchCorrections(gctx, s.products, s.window)
			if err != nil {
				return err
			}
			data.corrections, corrTruncated = rows, truncated
			return nil
		})
		g.Go(func() error {
			r, err := uc.directory.Resolver(gctx)
			if err != nil {
				return fmt.Errorf("directorio de bodegas: %w", err)
			}
			data.resolver = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	run.truncated = movTruncated || corrTruncated
	return data, nil
}

func (uc *ReportUseCase) labels(ctx context.Context, productID string) (entity.Product, map[string]string, error) {
	product := entity.Product{ID: productID}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return product, nil, fmt.Errorf("producto: %w", err)
	}
	if p != nil {
		product = *p
	}
	list, err := uc.warehouses.List(ctx)
	if err != nil {
		return product, nil, fmt.Errorf("bodegas: %w", err)
	}
	names := make(map[string]string, len(list))
	for _, w := range list {
		names[w.ID] = w.Name
	}
	return product, names, nil
}

type reportRun struct {
	id        string
	name      string
	start     time.Time
	span      trace.Span
	skips     *ledger.SkipCounter
	log       *logger.Logger
	truncated bool
}

func (uc *ReportUseCase) begin(ctx context.Context, name string) (context.Context, *reportRun) {
	run := &reportRun{
		id:    uuid.New().String(),
		name:  name,
		start: time.Now(),
		skips: ledger.NewSkipCounter(),
	}
	run.log = uc.log.ForReport(name, run.id)
	ctx, run.span = tracer.Start(ctx, "report."+name, trace.WithAttributes(
		attribute.String("report.id", run.id),
	))
	return ctx, run
}

func (uc *ReportUseCase) finish(run *reportRun, err error) {
	defer run.span.End()
	elapsed := time.Since(run.start)
	uc.metrics.ObserveReport(run.name, elapsed, err)
	if err != nil {
		run.span.RecordError(err)
		run.span.SetStatus(codes.Error, err.Error())
		run.log.Error().Err(err).
			Dur("duration", elapsed).
			Msg("reporte abortado")
		return
	}
	skipped := run.skips.Snapshot()
	for reason, n := range skipped {
		uc.metrics.RecordSkipped(run.name, reason, n)
	}
	if run.truncated {
		uc.metrics.RecordTruncated(run.name)
	}
	run.span.SetAttributes(attribute.Bool("report.truncated", run.truncated), attribute.Int("report.skipped", run.skips.Total()))
	run.log.Info().
		Dur("duration", elapsed).
		Bool("truncated", run.truncated).
		Int("skipped", run.skips.Total()).
		Msg("reporte generado")
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// requireIDs limpia y deduplica IDs; una selección vacía es un error de entrada.
func requireIDs(ids []string, msg string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
	}
	return out, nil
}

func movesMap(kinds []ledger.Kind, t ledger.Totals) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(kinds))
	for _, k := range kinds {
		out[string(k)] = t.Get(k)
	}
	return out
}

func unionKeys(snapshots map[ledger.Key]decimal.Decimal, buckets ledger.Buckets, variance map[ledger.Key]ledger.VarianceResult) []ledger.Key {
	seen := map[ledger.Key]bool{}
	var keys []ledger.Key
	add := func(k ledger.Key) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range snapshots {
		add(k)
	}
	for k := range buckets {
		add(k)
	}
	for k := range variance {
		add(k)
	}
	ledger.SortKeys(keys)
	return keys
}

func toBalanceDTO(b ledger.WarehouseBalance, name string) dto.WarehouseBalanceDTO {
	return dto.WarehouseBalanceDTO{
		WarehouseID:     b.WarehouseID,
		WarehouseName:   name,
		OpeningStock:    b.OpeningStock,
		Purchases:       b.Purchases,
		PurchaseReturns: b.PurchaseReturns,
		Sales:           b.Sales,
		SalesReturns:    b.SalesReturns,
		Wastages:        b.Wastages,
		TransferIn:      b.TransferIn,
		TransferOut:     b.TransferOut,
		Manufacturing:   b.Manufacturing,
		Consumption:     b.Consumption,
		Variance:        b.Variance,
		HasVariance:     b.HasVariance,
		ClosingStock:    b.ClosingStock,
	}
}
