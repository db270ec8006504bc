package ledger

import "github.com/shopspring/decimal"

// ClosingStock aplica la fórmula de cierre:
//
//	cierre = apertura + compras + transfer_in + fabricación + devoluciones de venta
//	       - ventas - devoluciones de compra - transfer_out - mermas - consumo + varianza
//
// No se limita a cero: un cierre negativo indica un problema de datos y se expone tal cual.
func ClosingStock(opening decimal.Decimal, t Totals, variance decimal.Decimal) decimal.Decimal {
	closing := opening
	for _, k := range AllKinds {
		if k.Inbound() {
			closing = closing.Add(t.Get(k))
		} else {
			closing = closing.Sub(t.Get(k))
		}
	}
	return closing.Add(variance)
}

// WarehouseBalance fila calculada de un reporte por bodega. Se construye por petición y no se modifica.
type WarehouseBalance struct {
	WarehouseID     string
	OpeningStock    decimal.Decimal
	Purchases       decimal.Decimal
	PurchaseReturns decimal.Decimal
	Sales           decimal.Decimal
	SalesReturns    decimal.Decimal
	Wastages        decimal.Decimal
	TransferIn      decimal.Decimal
	TransferOut     decimal.Decimal
	Manufacturing   decimal.Decimal
	Consumption     decimal.Decimal
	Variance        decimal.Decimal
	HasVariance     bool
	ClosingStock    decimal.Decimal
}

// NewBalance arma la fila de una bodega.
func NewBalance(warehouseID string, opening decimal.Decimal, t Totals, v VarianceResult) WarehouseBalance {
	return WarehouseBalance{
		WarehouseID:     warehouseID,
		OpeningStock:    opening,
		Purchases:       t.Get(KindPurchase),
		PurchaseReturns: t.Get(KindPurchaseReturn),
		Sales:           t.Get(KindSales),
		SalesReturns:    t.Get(KindSalesReturns),
		Wastages:        t.Get(KindWastages),
		TransferIn:      t.Get(KindTransferIn),
		TransferOut:     t.Get(KindTransferOut),
		Manufacturing:   t.Get(KindManufacturing),
		Consumption:     t.Get(KindConsumption),
		Variance:        v.Total,
		HasVariance:     v.HasVariance,
		ClosingStock:    ClosingStock(opening, t, v.Total),
	}
}

// SumBalances fila de totales: cada campo se suma de forma independiente.
func SumBalances(rows []WarehouseBalance) WarehouseBalance {
	var s WarehouseBalance
	for _, r := range rows {
		s.OpeningStock = s.OpeningStock.Add(r.OpeningStock)
		s.Purchases = s.Purchases.Add(r.Purchases)
		s.PurchaseReturns = s.PurchaseReturns.Add(r.PurchaseReturns)
		s.Sales = s.Sales.Add(r.Sales)
		s.SalesReturns = s.SalesReturns.Add(r.SalesReturns)
		s.Wastages = s.Wastages.Add(r.Wastages)
		s.TransferIn = s.TransferIn.Add(r.TransferIn)
		s.TransferOut = s.TransferOut.Add(r.TransferOut)
		s.Manufacturing = s.Manufacturing.Add(r.Manufacturing)
		s.Consumption = s.Consumption.Add(r.Consumption)
		s.Variance = s.Variance.Add(r.Variance)
		s.HasVariance = s.HasVariance || r.HasVariance
		s.ClosingStock = s.ClosingStock.Add(r.ClosingStock)
	}
	return s
}
