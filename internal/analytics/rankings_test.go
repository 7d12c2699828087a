package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/pos"
)

func saleOf(day int, total float64, items ...pos.SaleItem) pos.Sale {
	return pos.Sale{
		Total:  total,
		SoldAt: time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC),
		Items:  items,
	}
}

func productLine(id string, qty int) pos.SaleItem {
	return pos.SaleItem{ItemType: pos.ItemProduct, ProductID: id, Qty: qty}
}

func TestTopSellersOrdersAndPairsStock(t *testing.T) {
	sales := []pos.Sale{
		saleOf(1, 0, productLine("a", 2), productLine("b", 5)),
		saleOf(2, 0, productLine("a", 4), pos.SaleItem{ItemType: pos.ItemService, ServiceID: 9, Qty: 3}),
		saleOf(3, 0, productLine("c", 7)),
	}
	products := []catalog.Product{
		{Barcode: "a", Name: "Pelicula", Stock: 12},
		{Barcode: "b", Name: "Capinha", Stock: 4},
		{Barcode: "c", Name: "Cabo", Stock: 0},
	}

	ranks := TopSellers(sales, products)
	require.Len(t, ranks, 3)
	require.Equal(t, "c", ranks[0].ProductID)
	require.Equal(t, 7, ranks[0].UnitsSold)
	require.Equal(t, "a", ranks[1].ProductID)
	require.Equal(t, 6, ranks[1].UnitsSold)
	require.Equal(t, 12, ranks[1].Stock)
	require.Equal(t, "b", ranks[2].ProductID)
}

func TestTopSellersTiesKeepInputOrder(t *testing.T) {
	sales := []pos.Sale{
		saleOf(1, 0, productLine("x", 3)),
		saleOf(2, 0, productLine("y", 3)),
	}
	ranks := TopSellers(sales, nil)
	require.Equal(t, "x", ranks[0].ProductID)
	require.Equal(t, "y", ranks[1].ProductID)
}

func TestSlowMoversSkipsEmptyStock(t *testing.T) {
	sales := []pos.Sale{
		saleOf(1, 0, productLine("a", 8), productLine("b", 1)),
	}
	products := []catalog.Product{
		{Barcode: "a", Name: "Pelicula", Stock: 10},
		{Barcode: "b", Name: "Capinha", Stock: 10},
		{Barcode: "c", Name: "Cabo", Stock: 0},
		{Barcode: "d", Name: "Fone", Stock: 5},
	}

	ranks := SlowMovers(sales, products)
	require.Len(t, ranks, 3)
	require.Equal(t, "d", ranks[0].ProductID, "never sold ranks first")
	require.Equal(t, 0.0, ranks[0].TurnoverRatio)
	require.Equal(t, "b", ranks[1].ProductID)
	require.Equal(t, "a", ranks[2].ProductID)
}

func TestDailyPeaksGroupsByLocalDay(t *testing.T) {
	sales := []pos.Sale{
		saleOf(1, 100),
		saleOf(2, 300),
		saleOf(1, 50),
		saleOf(3, 200),
	}
	peaks := DailyPeaks(sales, time.UTC)
	require.Len(t, peaks, 3)
	require.Equal(t, "2026-03-02", peaks[0].Day)
	require.Equal(t, 300.0, peaks[0].Total)
	require.Equal(t, "2026-03-03", peaks[1].Day)
	require.Equal(t, "2026-03-01", peaks[2].Day)
	require.Equal(t, 150.0, peaks[2].Total)
}

func TestDailyPeaksLimit(t *testing.T) {
	var sales []pos.Sale
	for day := 1; day <= 9; day++ {
		sales = append(sales, saleOf(day, float64(day)))
	}
	peaks := DailyPeaks(sales, time.UTC)
	require.Len(t, peaks, 5)
	require.Equal(t, 9.0, peaks[0].Total)
	require.Equal(t, 5.0, peaks[4].Total)
}

func TestRankingsEmptyInputs(t *testing.T) {
	require.Empty(t, TopSellers(nil, nil))
	require.Empty(t, SlowMovers(nil, nil))
	require.Empty(t, DailyPeaks(nil, time.UTC))
}
