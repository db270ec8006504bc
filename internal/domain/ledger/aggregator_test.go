package ledger_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var day1 = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mv(id, kind, src, dst, qty string, at time.Time) entity.StockMovement {
	return entity.StockMovement{
		ID:                id,
		ProductID:         "P",
		SourceWarehouseID: src,
		DestWarehouseID:   dst,
		Kind:              kind,
		Quantity:          dec(qty),
		OccurredAt:        at,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregate_ValorAbsolutoYColumnaAfectada(t *testing.T) {
	ms := []entity.StockMovement{
		mv("1", "purchase", "", "W1", "20", day1.Add(time.Hour)),
		mv("2", "sales", "W1", "", "-5", day1.Add(2*time.Hour)),
		mv("3", "sales", "W1", "", "3", day1.Add(3*time.Hour)),
	}
	b := ledger.Aggregate(ms, ledger.Filter{Kinds: ledger.AllKinds}, nil)

	tot := b[ledger.Key{ProductID: "P", WarehouseID: "W1"}]
	require.NotNil(t, tot)
	assert.True(t, dec("20").Equal(tot.Get(ledger.KindPurchase)))
	assert.True(t, dec("8").Equal(tot.Get(ledger.KindSales)), "el signo almacenado se ignora")
}

func TestAggregate_IndependienteDelOrden(t *testing.T) {
	var ms []entity.StockMovement
	want := decimal.Zero
	for i := 0; i < 50; i++ {
		q := decimal.NewFromInt(int64(i - 25))
		ms = append(ms, entity.StockMovement{
			ID: string(rune('a' + i%26)), ProductID: "P", DestWarehouseID: "W", Kind: "purchase",
			Quantity: q, OccurredAt: day1.Add(time.Duration(i) * time.Minute),
		})
		want = want.Add(q.Abs())
	}
	f := ledger.Filter{Kinds: []ledger.Kind{ledger.KindPurchase}}
	base := ledger.Aggregate(ms, f, nil)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]entity.StockMovement(nil), ms...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := ledger.Aggregate(shuffled, f, nil)
		key := ledger.Key{ProductID: "P", WarehouseID: "W"}
		assert.True(t, base[key].Get(ledger.KindPurchase).Equal(got[key].Get(ledger.KindPurchase)))
	}
	assert.True(t, want.Equal(base[ledger.Key{ProductID: "P", WarehouseID: "W"}].Get(ledger.KindPurchase)))
}

func TestAggregate_AliasTransparente(t *testing.T) {
	f := ledger.Filter{Kinds: []ledger.Kind{ledger.KindPurchase}}
	a := ledger.Aggregate([]entity.StockMovement{mv("1", "purchases", "", "W", "7", day1)}, f, nil)
	b := ledger.Aggregate([]entity.StockMovement{mv("1", "purchase", "", "W", "7", day1)}, f, nil)
	assert.Equal(t, a, b)
}

func TestAggregate_VentanaSemiabierta(t *testing.T) {
	w, err := ledger.NewWindow("2025-07-01", "2025-07-31")
	require.NoError(t, err)
	ms := []entity.StockMovement{
		mv("in", "sales", "W", "", "1", w.End.Add(-time.Millisecond)),
		mv("out", "sales", "W", "", "100", w.End),
	}
	b := ledger.Aggregate(ms, ledger.Filter{Kinds: []ledger.Kind{ledger.KindSales}, Window: w}, nil)
	assert.True(t, dec("1").Equal(b[ledger.Key{ProductID: "P", WarehouseID: "W"}].Get(ledger.KindSales)))
}

func TestAggregate_TransferenciasNoSeDuplican(t *testing.T) {
	// Dos filas transfer_in: una con destino W1 y otra con destino W2.
	ms := []entity.StockMovement{
		mv("t1", "transfer_in", "W2", "W1", "4", day1),
		mv("t2", "transfer_in", "W1", "W2", "6", day1),
	}
	b := ledger.Aggregate(ms, ledger.Filter{Kinds: []ledger.Kind{ledger.KindTransferIn}}, nil)

	assert.True(t, dec("4").Equal(b[ledger.Key{ProductID: "P", WarehouseID: "W1"}].Get(ledger.KindTransferIn)))
	assert.True(t, dec("6").Equal(b[ledger.Key{ProductID: "P", WarehouseID: "W2"}].Get(ledger.KindTransferIn)))

	// Con transfer_out la misma fila cuenta como salida de la bodega origen.
	b = ledger.Aggregate(ms, ledger.Filter{Kinds: []ledger.Kind{ledger.KindTransferIn, ledger.KindTransferOut}}, nil)
	w1 := b[ledger.Key{ProductID: "P", WarehouseID: "W1"}]
	assert.True(t, dec("4").Equal(w1.Get(ledger.KindTransferIn)))
	assert.True(t, dec("6").Equal(w1.Get(ledger.KindTransferOut)))
}

func TestAggregator_AddKindNoCuentaDosVeces(t *testing.T) {
	row := mv("t1", "transfer_in", "W2", "W1", "4", day1)
	a := ledger.NewAggregator(ledger.Filter{Kinds: []ledger.Kind{ledger.KindTransferIn, ledger.KindTransferOut}}, nil)
	// La misma fila llega por la consulta de cada tipo.
	a.AddKind(ledger.KindTransferIn, row)
	a.AddKind(ledger.KindTransferOut, row)

	b := a.Buckets()
	assert.True(t, dec("4").Equal(b[ledger.Key{ProductID: "P", WarehouseID: "W1"}].Get(ledger.KindTransferIn)))
	assert.True(t, b[ledger.Key{ProductID: "P", WarehouseID: "W1"}].Get(ledger.KindTransferOut).IsZero())
	assert.True(t, dec("4").Equal(b[ledger.Key{ProductID: "P", WarehouseID: "W2"}].Get(ledger.KindTransferOut)))
}

func TestAggregator_TrasladoUbicadoNoCuentaComoOmitido(t *testing.T) {
	skips := ledger.NewSkipCounter()
	entrada := mv("t1", "transfer_in", "", "W1", "3", day1) // solo destino
	salida := mv("t2", "transfer_in", "W1", "", "2", day1)  // solo origen
	huerfana := mv("t3", "transfer_in", "", "", "9", day1)
	a := ledger.NewAggregator(ledger.Filter{Kinds: []ledger.Kind{ledger.KindTransferIn, ledger.KindTransferOut}}, skips)
	a.AddKind(ledger.KindTransferIn, entrada, salida, huerfana)
	a.AddKind(ledger.KindTransferOut, entrada, salida, huerfana)

	w1 := a.Buckets()[ledger.Key{ProductID: "P", WarehouseID: "W1"}]
	assert.True(t, dec("3").Equal(w1.Get(ledger.KindTransferIn)))
	assert.True(t, dec("2").Equal(w1.Get(ledger.KindTransferOut)))
	// solo la fila sin ninguna bodega es omitida, una vez por cada lectura
	assert.Equal(t, map[string]int{"missing_warehouse": 2}, skips.Snapshot())

	// Sin transfer_in pedido, nada ubica la fila de solo destino.
	skips = ledger.NewSkipCounter()
	ledger.Aggregate([]entity.StockMovement{entrada}, ledger.Filter{Kinds: []ledger.Kind{ledger.KindTransferOut}}, skips)
	assert.Equal(t, 1, skips.Count(ledger.SkipMissingWarehouse))
}

func TestAggregate_FiltraBodegasYCuentaOmitidos(t *testing.T) {
	skips := ledger.NewSkipCounter()
	ms := []entity.StockMovement{
		mv("1", "purchase", "", "W1", "10", day1),
		mv("2", "purchase", "", "W9", "10", day1),
		mv("3", "purchase", "W1", "", "10", day1), // sin destino
		{ID: "4", ProductID: "OTRO", DestWarehouseID: "W1", Kind: "purchase", Quantity: dec("10"), OccurredAt: day1},
	}
	b := ledger.Aggregate(ms, ledger.Filter{
		ProductIDs:   []string{"P"},
		WarehouseIDs: []string{"W1"},
		Kinds:        []ledger.Kind{ledger.KindPurchase},
	}, skips)

	require.Len(t, b, 1)
	assert.True(t, dec("10").Equal(b[ledger.Key{ProductID: "P", WarehouseID: "W1"}].Get(ledger.KindPurchase)))
	assert.Equal(t, 1, skips.Count(ledger.SkipMissingWarehouse))
	assert.Equal(t, map[string]int{"missing_warehouse": 1}, skips.Snapshot())
}

func TestBuckets_SumYKeys(t *testing.T) {
	ms := []entity.StockMovement{
		mv("1", "purchase", "", "W2", "1", day1),
		mv("2", "purchase", "", "W1", "2", day1),
	}
	b := ledger.Aggregate(ms, ledger.Filter{Kinds: ledger.AllKinds}, nil)
	assert.True(t, dec("3").Equal(b.Sum().Get(ledger.KindPurchase)))
	keys := b.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, "W1", keys[0].WarehouseID)
}
