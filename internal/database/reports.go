package database

import (
	"os"
	"strconv"
	"time"

	"salepoint/internal/models"
	"salepoint/internal/utils"
)

// Metrics is the headline rollup for a dashboard window
type Metrics struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalProfit        float64 `json:"total_profit"`
	TotalTransactions  int64   `json:"total_transactions"`
	RevenueChange      float64 `json:"revenue_change"`      // % vs the preceding window
	ProfitChange       float64 `json:"profit_change"`
	TransactionsChange float64 `json:"transactions_change"`
}

// TrendPoint is one day in a sales series. Days with no sales are present with zeros.
type TrendPoint struct {
	Date         string  `json:"date"` // "2006-01-02"
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	Transactions int64   `json:"transactions"`
}

// CategoryShare is one slice of the category pie
type CategoryShare struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// TopProduct is one row of the best-sellers table
type TopProduct struct {
	ProductName string  `json:"product_name"`
	UnitsSold   int64   `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

// MonthPoint is one month of the financial-year comparison
type MonthPoint struct {
	Month   string  `json:"month"` // "Jan" ... "Dec"
	Revenue float64 `json:"revenue"`
	Target  float64 `json:"target"`
}

type windowTotals struct {
	Revenue      float64
	Profit       float64
	Transactions int64
}

func salesTotals(start, end time.Time) (windowTotals, error) {
	var t windowTotals

	err := DB.Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&t.Revenue).Error
	if err != nil {
		return t, err
	}

	// Profit lives on the line items
	err = DB.Model(&models.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Select("COALESCE(SUM(sale_items.profit), 0)").
		Scan(&t.Profit).Error
	if err != nil {
		return t, err
	}

	err = DB.Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&t.Transactions).Error
	return t, err
}

func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return utils.Round2((current - previous) / previous * 100)
}

// GetMetrics computes the rollup for [start, end) and the % change against the
// window of equal length immediately before it.
func GetMetrics(start, end time.Time) (*Metrics, error) {
	current, err := salesTotals(start, end)
	if err != nil {
		return nil, err
	}

	span := end.Sub(start)
	previous, err := salesTotals(start.Add(-span), start)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TotalRevenue:       utils.Round2(current.Revenue),
		TotalProfit:        utils.Round2(current.Profit),
		TotalTransactions:  current.Transactions,
		RevenueChange:      percentChange(current.Revenue, previous.Revenue),
		ProfitChange:       percentChange(current.Profit, previous.Profit),
		TransactionsChange: percentChange(float64(current.Transactions), float64(previous.Transactions)),
	}, nil
}

type dailyRow struct {
	Day          string
	Revenue      float64
	Profit       float64
	Transactions int64
}

// Revenue and profit are summed in separate queries: joining sale_items into
// the revenue sum would repeat a sale's grand_total once per line item.
func dailySales(start, end time.Time) (map[string]dailyRow, error) {
	var revenueRows []dailyRow
	err := DB.Model(&models.Sale{}).
		Select("DATE(created_at) as day, " +
			"COALESCE(SUM(grand_total), 0) as revenue, " +
			"COUNT(id) as transactions").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("DATE(created_at)").
		Scan(&revenueRows).Error
	if err != nil {
		return nil, err
	}

	var profitRows []dailyRow
	err = DB.Model(&models.SaleItem{}).
		Select("DATE(sales.created_at) as day, COALESCE(SUM(sale_items.profit), 0) as profit").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Group("DATE(sales.created_at)").
		Scan(&profitRows).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]dailyRow, len(revenueRows))
	for _, r := range revenueRows {
		r.Day = dayKey(r.Day)
		byDay[r.Day] = r
	}
	for _, r := range profitRows {
		key := dayKey(r.Day)
		row := byDay[key]
		row.Day = key
		row.Profit = r.Profit
		byDay[key] = row
	}
	return byDay, nil
}

// some drivers return a full timestamp for DATE()
func dayKey(day string) string {
	if len(day) > 10 {
		return day[:10]
	}
	return day
}

// GetSalesTrend returns one point per calendar day in [start, end), zero-filled
// so charts have no gaps.
func GetSalesTrend(start, end time.Time) ([]TrendPoint, error) {
	byDay, err := dailySales(start, end)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		row := byDay[key]
		points = append(points, TrendPoint{
			Date:         key,
			Revenue:      utils.Round2(row.Revenue),
			Profit:       utils.Round2(row.Profit),
			Transactions: row.Transactions,
		})
	}
	return points, nil
}

// GetCategorySales returns the revenue share per category for the window.
// With more than 5 categories, the tail after the top 4 collapses into "Others".
func GetCategorySales(start, end time.Time) ([]CategoryShare, error) {
	type row struct {
		Name    string
		Revenue float64
	}
	var rows []row
	err := DB.Model(&models.SaleItem{}).
		Select("categories.name as name, COALESCE(SUM(sale_items.total_amount), 0) as revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN categories ON categories.id = sale_items.category_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Group("categories.name").
		Order("revenue desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var total float64
	for _, r := range rows {
		total += r.Revenue
	}

	shares := make([]CategoryShare, 0, len(rows))
	if len(rows) > 5 {
		var others float64
		for i, r := range rows {
			if i < 4 {
				shares = append(shares, CategoryShare{Name: r.Name, Revenue: utils.Round2(r.Revenue)})
			} else {
				others += r.Revenue
			}
		}
		shares = append(shares, CategoryShare{Name: "Others", Revenue: utils.Round2(others)})
	} else {
		for _, r := range rows {
			shares = append(shares, CategoryShare{Name: r.Name, Revenue: utils.Round2(r.Revenue)})
		}
	}

	for i := range shares {
		if total > 0 {
			shares[i].Percentage = utils.Round2(shares[i].Revenue / total * 100)
		}
	}
	return shares, nil
}

// GetTopProducts returns the best sellers by units within the window.
func GetTopProducts(start, end time.Time, limit int) ([]TopProduct, error) {
	if limit < 1 {
		limit = 5
	}
	var rows []TopProduct
	err := DB.Model(&models.SaleItem{}).
		Select("sale_items.product_name as product_name, "+
			"COALESCE(SUM(sale_items.quantity), 0) as units_sold, "+
			"COALESCE(SUM(sale_items.total_amount), 0) as revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Group("sale_items.product_name").
		Order("units_sold desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// GetRecentSales returns the newest transactions for the dashboard feed.
func GetRecentSales(limit int) ([]models.Sale, error) {
	if limit < 1 {
		limit = 10
	}
	var sales []models.Sale
	err := DB.Preload("Items").Order("created_at desc").Limit(limit).Find(&sales).Error
	return sales, err
}

// TargetPolicy is the monthly revenue target heuristic. It is a placeholder
// business rule, kept configurable rather than hard-coded: a fixed base for
// months with no history, a seasonal bump for Nov/Dec, otherwise growth over
// the prior month's actual.
type TargetPolicy struct {
	MonthlyBase        float64
	SeasonalMultiplier float64 // applied to the base in Nov and Dec
	GrowthFactor       float64 // applied to the prior month's actual otherwise
}

func DefaultTargetPolicy() TargetPolicy {
	p := TargetPolicy{
		MonthlyBase:        10000,
		SeasonalMultiplier: 1.5,
		GrowthFactor:       1.10,
	}
	if v := os.Getenv("MONTHLY_TARGET_BASE"); v != "" {
		if base, err := strconv.ParseFloat(v, 64); err == nil && base > 0 {
			p.MonthlyBase = base
		}
	}
	return p
}

// Target computes the target for a month given the prior month's actual revenue.
func (p TargetPolicy) Target(month time.Month, priorActual float64) float64 {
	if month == time.November || month == time.December {
		return utils.Round2(p.MonthlyBase * p.SeasonalMultiplier)
	}
	if priorActual > 0 {
		return utils.Round2(priorActual * p.GrowthFactor)
	}
	return p.MonthlyBase
}

// GetFinancialYearSales returns Jan..Dec of the given year, each month's actual
// revenue against its target. Future months carry zero actuals.
func GetFinancialYearSales(year int, policy TargetPolicy) ([]MonthPoint, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	byDay, err := dailySales(start, end)
	if err != nil {
		return nil, err
	}

	monthly := make([]float64, 12)
	for key, row := range byDay {
		day, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		monthly[int(day.Month())-1] += row.Revenue
	}

	points := make([]MonthPoint, 0, 12)
	priorActual := 0.0
	for m := time.January; m <= time.December; m++ {
		actual := utils.Round2(monthly[int(m)-1])
		points = append(points, MonthPoint{
			Month:   m.String()[:3],
			Revenue: actual,
			Target:  policy.Target(m, priorActual),
		})
		priorActual = actual
	}
	return points, nil
}

// GetSalesSummary is the custom-range rollup backing /api/reports/sales.
func GetSalesSummary(start, end time.Time) (*Metrics, error) {
	return GetMetrics(start, end)
}
