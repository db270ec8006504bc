package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

// SnapshotRow línea del export de inventario del ERP: bodega, producto y cantidad base.
type SnapshotRow struct {
	Line      int
	Warehouse entity.Warehouse
	Product   entity.Product
	Quantity  decimal.Decimal
}

// ImportResult bodegas, productos y pares (producto, bodega) distintos escritos por la importación.
type ImportResult struct {
	Warehouses int `json:"warehouses"`
	Products   int `json:"products"`
	Snapshots  int `json:"snapshots"`
}

// SnapshotReader decodifica un archivo del ERP en filas de inventario base.
type SnapshotReader interface {
	ReadSnapshot(r io.Reader, encoding string) ([]SnapshotRow, error)
}

// ImportSnapshotUseCase carga el inventario base del corte y el maestro en una sola transacción.
type ImportSnapshotUseCase struct {
	tx     repository.TxRunner
	reader SnapshotReader
	log    *logger.Logger
}

// NewImportSnapshotUseCase construye el caso de uso. reader puede ser nil si solo se usa Import.
func NewImportSnapshotUseCase(tx repository.TxRunner, reader SnapshotReader, log *logger.Logger) *ImportSnapshotUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportSnapshotUseCase{tx: tx, reader: reader, log: log}
}

// ImportFrom decodifica el archivo y lo importa.
func (uc *ImportSnapshotUseCase) ImportFrom(ctx context.Context, r io.Reader, encoding string) (ImportResult, error) {
	if uc.reader == nil {
		return ImportResult{}, errors.New("importación sin lector configurado")
	}
	rows, err := uc.reader.ReadSnapshot(r, encoding)
	if err != nil {
		return ImportResult{}, err
	}
	return uc.Import(ctx, rows)
}

// Import valida todas las filas antes de escribir; una fila inválida aborta la importación completa.
func (uc *ImportSnapshotUseCase) Import(ctx context.Context, rows []SnapshotRow) (ImportResult, error) {
	var res ImportResult
	if len(rows) == 0 {
		return res, fmt.Errorf("%w: el archivo no tiene filas", domain.ErrInvalidInput)
	}
	for _, r := range rows {
		if r.Product.ID == "" || r.Warehouse.ID == "" {
			return res, fmt.Errorf("%w: línea %d sin product_id o warehouse_id", domain.ErrInvalidInput, r.Line)
		}
	}
	start := time.Now()
	err := uc.tx.Run(ctx, func(w repository.LedgerWriter) error {
		res = ImportResult{}
		seenWh := map[string]bool{}
		seenProd := map[string]bool{}
		seenPair := map[[2]string]bool{}
		for _, r := range rows {
			if !seenWh[r.Warehouse.ID] {
				seenWh[r.Warehouse.ID] = true
				if err := w.UpsertWarehouse(ctx, r.Warehouse); err != nil {
					return err
				}
				res.Warehouses++
			}
			if !seenProd[r.Product.ID] {
				seenProd[r.Product.ID] = true
				if err := w.UpsertProduct(ctx, r.Product); err != nil {
					return err
				}
				res.Products++
			}
			snap := entity.InventorySnapshot{ProductID: r.Product.ID, WarehouseID: r.Warehouse.ID, Quantity: r.Quantity}
			if err := w.UpsertSnapshot(ctx, snap); err != nil {
				return err
			}
			pair := [2]string{snap.ProductID, snap.WarehouseID}
			if !seenPair[pair] {
				seenPair[pair] = true
				res.Snapshots++
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Int("rows", len(rows)).Msg("importación de inventario base abortada")
		return ImportResult{}, err
	}
	uc.log.Info().
		Int("warehouses", res.Warehouses).
		Int("products", res.Products).
		Int("snapshots", res.Snapshots).
		Dur("duration", time.Since(start)).
		Msg("inventario base importado")
	return res, nil
}
