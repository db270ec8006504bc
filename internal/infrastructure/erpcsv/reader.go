// Package erpcsv lee el export de inventario del ERP (CSV separado por ';', texto en Latin-1 o Windows-1252).
package erpcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// Columnas reconocidas del encabezado. product_id, warehouse_id y quantity son obligatorias.
const (
	ColProductID      = "product_id"
	ColBarcode        = "barcode"
	ColProductName    = "product_name"
	ColCategory       = "category"
	ColUOM            = "uom"
	ColWarehouseID    = "warehouse_id"
	ColWarehouseCode  = "warehouse_code"
	ColWarehouseName  = "warehouse_name"
	ColWarehouseAlias = "warehouse_uuid"
	ColQuantity       = "quantity"
)

var required = []string{ColProductID, ColWarehouseID, ColQuantity}

// Options configura la lectura. Los valores cero usan ';' y Latin-1.
type Options struct {
	Comma    rune
	Encoding string // latin1, windows-1252, utf-8
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	return nil, fmt.Errorf("%w: codificación %q no soportada", domain.ErrInvalidInput, name)
}

// Read decodifica el archivo completo. Los errores llevan el número de línea del CSV.
func Read(r io.Reader, opts Options) ([]inventory.SnapshotRow, error) {
	enc, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.Comma = ';'
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: encabezado: %v", domain.ErrInvalidInput, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %s", domain.ErrInvalidInput, col)
		}
	}

	var rows []inventory.SnapshotRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, perr.StartLine, perr.Err)
			}
			return nil, fmt.Errorf("leer csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if strings.Join(rec, "") == "" {
			continue
		}
		qty, err := ParseQuantity(get(ColQuantity))
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, line, err)
		}
		rows = append(rows, inventory.SnapshotRow{
			Line: line,
			Warehouse: entity.Warehouse{
				ID:       get(ColWarehouseID),
				Code:     get(ColWarehouseCode),
				Name:     get(ColWarehouseName),
				AliasRef: get(ColWarehouseAlias),
				Active:   true,
			},
			Product: entity.Product{
				ID:       get(ColProductID),
				Barcode:  get(ColBarcode),
				Name:     get(ColProductName),
				Category: get(ColCategory),
				UOM:      get(ColUOM),
				Active:   true,
			},
			Quantity: qty,
		})
	}
	return rows, nil
}

// ParseQuantity acepta formato local ("1.234,5") y punto decimal ("1234.5").
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, errors.New("cantidad vacía")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cantidad inválida %q", s)
	}
	return d, nil
}

var _ inventory.SnapshotReader = Reader{}

// Reader adapta Read al puerto de importación con un separador fijo.
type Reader struct {
	Comma rune
}

// ReadSnapshot implementa inventory.SnapshotReader.
func (r Reader) ReadSnapshot(in io.Reader, encoding string) ([]inventory.SnapshotRow, error) {
	return Read(in, Options{Comma: r.Comma, Encoding: encoding})
}
