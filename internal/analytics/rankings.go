package analytics

import (
	"sort"
	"time"

	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/pos"
)

const (
	topSellersLimit = 10
	slowMoversLimit = 10
	dailyPeaksLimit = 5
)

// SellerRank is one row of the best-sellers ranking.
type SellerRank struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
	Stock     int    `json:"stock"`
}

// TurnoverRank is one row of the slow-movers ranking.
type TurnoverRank struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	UnitsSold     int     `json:"units_sold"`
	Stock         int     `json:"stock"`
	TurnoverRatio float64 `json:"turnover_ratio"`
}

// DailyPeak is one row of the sales-peaks ranking.
type DailyPeak struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// soldByProduct accumulates product quantities in first-seen order so the
// stable sorts below break ties the way the sales arrived.
func soldByProduct(sales []pos.Sale) (map[string]int, []string) {
	units := map[string]int{}
	var order []string
	for _, sale := range sales {
		for _, item := range sale.Items {
			if item.ItemType != pos.ItemProduct {
				continue
			}
			if _, seen := units[item.ProductID]; !seen {
				order = append(order, item.ProductID)
			}
			units[item.ProductID] += item.Qty
		}
	}
	return units, order
}

// TopSellers ranks products by units sold in the period, descending, paired
// with their current stock. Empty input yields an empty slice.
func TopSellers(sales []pos.Sale, products []catalog.Product) []SellerRank {
	units, order := soldByProduct(sales)

	byBarcode := map[string]catalog.Product{}
	for _, p := range products {
		byBarcode[p.Barcode] = p
	}

	ranks := make([]SellerRank, 0, len(order))
	for _, id := range order {
		p := byBarcode[id]
		name := p.Name
		if name == "" {
			name = id
		}
		ranks = append(ranks, SellerRank{ProductID: id, Name: name, UnitsSold: units[id], Stock: p.Stock})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].UnitsSold > ranks[j].UnitsSold })
	if len(ranks) > topSellersLimit {
		ranks = ranks[:topSellersLimit]
	}
	return ranks
}

// SlowMovers ranks stocked products by units-sold over stock, ascending.
// Products with zero stock are skipped. Empty input yields an empty slice.
func SlowMovers(sales []pos.Sale, products []catalog.Product) []TurnoverRank {
	units, _ := soldByProduct(sales)

	ranks := make([]TurnoverRank, 0, len(products))
	for _, p := range products {
		if p.Stock <= 0 {
			continue
		}
		sold := units[p.Barcode]
		ranks = append(ranks, TurnoverRank{
			ProductID:     p.Barcode,
			Name:          p.Name,
			UnitsSold:     sold,
			Stock:         p.Stock,
			TurnoverRatio: float64(sold) / float64(p.Stock),
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].TurnoverRatio < ranks[j].TurnoverRatio })
	if len(ranks) > slowMoversLimit {
		ranks = ranks[:slowMoversLimit]
	}
	return ranks
}

// DailyPeaks ranks local calendar days by summed ticket totals, descending.
// Empty input yields an empty slice.
func DailyPeaks(sales []pos.Sale, loc *time.Location) []DailyPeak {
	if loc == nil {
		loc = time.Local
	}
	totals := map[string]float64{}
	var order []string
	for _, sale := range sales {
		day := sale.SoldAt.In(loc).Format("2006-01-02")
		if _, seen := totals[day]; !seen {
			order = append(order, day)
		}
		totals[day] += sale.Total
	}

	peaks := make([]DailyPeak, 0, len(order))
	for _, day := range order {
		peaks = append(peaks, DailyPeak{Day: day, Total: totals[day]})
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Total > peaks[j].Total })
	if len(peaks) > dailyPeaksLimit {
		peaks = peaks[:dailyPeaksLimit]
	}
	return peaks
}
