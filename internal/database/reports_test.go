package database

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"salepoint/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupReportDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reports.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	DB = db
}

var seedSeq int

// seedSale writes one completed sale at a fixed moment, with one line item per
// (categoryID, amount, profit) triple.
func seedSale(t *testing.T, at time.Time, lines ...[3]float64) {
	t.Helper()

	var grand float64
	for _, l := range lines {
		grand += l[1]
	}
	seedSeq++
	sale := models.Sale{
		TransactionID: fmt.Sprintf("TXN-TEST-%d", seedSeq),
		SubTotal:      grand,
		GrandTotal:    grand,
		Status:        "completed",
		PaymentMethod: "cash",
		CreatedAt:     at,
	}
	if err := DB.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	for i, l := range lines {
		item := models.SaleItem{
			SaleID:      sale.ID,
			CategoryID:  uint(l[0]),
			ProductName: "Item",
			Quantity:    i + 1,
			TotalAmount: l[1],
			Profit:      l[2],
			CreatedAt:   at,
		}
		if err := DB.Create(&item).Error; err != nil {
			t.Fatalf("seed sale item: %v", err)
		}
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestGetSalesTrend_ZeroFillsMissingDays(t *testing.T) {
	setupReportDB(t)

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	seedSale(t, day(2025, time.March, 11), [3]float64{1, 40.00, 12.00})

	trend, err := GetSalesTrend(start, end)
	if err != nil {
		t.Fatalf("GetSalesTrend: %v", err)
	}
	if len(trend) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trend))
	}
	if trend[0].Date != "2025-03-10" || trend[0].Revenue != 0 || trend[0].Transactions != 0 {
		t.Fatalf("day with no sales must be zero: %+v", trend[0])
	}
	if trend[1].Date != "2025-03-11" || trend[1].Revenue != 40.00 || trend[1].Profit != 12.00 || trend[1].Transactions != 1 {
		t.Fatalf("sale not bucketed onto its day: %+v", trend[1])
	}
	if trend[2].Revenue != 0 {
		t.Fatalf("trailing empty day must be zero: %+v", trend[2])
	}
}

func TestGetSalesTrend_MultiItemSaleCountsOnce(t *testing.T) {
	setupReportDB(t)

	// One sale, grand total 100, split across two line items
	seedSale(t, day(2025, time.March, 11), [3]float64{1, 60.00, 10.00}, [3]float64{1, 40.00, 5.00})

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	trend, err := GetSalesTrend(start, start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("GetSalesTrend: %v", err)
	}
	if trend[1].Revenue != 100.00 {
		t.Fatalf("a multi-item sale must count its grand total once, got %v", trend[1].Revenue)
	}
	if trend[1].Profit != 15.00 {
		t.Fatalf("profit must sum across the line items, got %v", trend[1].Profit)
	}
	if trend[1].Transactions != 1 {
		t.Fatalf("expected 1 transaction, got %d", trend[1].Transactions)
	}

	// The same day totals feed the financial-year series
	policy := TargetPolicy{MonthlyBase: 10000, SeasonalMultiplier: 1.5, GrowthFactor: 1.10}
	points, err := GetFinancialYearSales(2025, policy)
	if err != nil {
		t.Fatalf("GetFinancialYearSales: %v", err)
	}
	if points[2].Revenue != 100.00 {
		t.Fatalf("March actual must be 100.00, got %v", points[2].Revenue)
	}
	// April's target grows from March's true actual, not an inflated one
	if points[3].Target != 110.00 {
		t.Fatalf("April target must be 110.00, got %v", points[3].Target)
	}
}

func TestGetMetrics_ComparesAgainstPrecedingWindow(t *testing.T) {
	setupReportDB(t)

	// Preceding week: 100 revenue. Current week: 150.
	seedSale(t, day(2025, time.March, 5), [3]float64{1, 100.00, 30.00})
	seedSale(t, day(2025, time.March, 12), [3]float64{1, 150.00, 60.00})

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	m, err := GetMetrics(start, end)
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if m.TotalRevenue != 150.00 || m.TotalProfit != 60.00 || m.TotalTransactions != 1 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if m.RevenueChange != 50.00 {
		t.Fatalf("expected +50%% revenue change, got %v", m.RevenueChange)
	}
	if m.ProfitChange != 100.00 {
		t.Fatalf("expected +100%% profit change, got %v", m.ProfitChange)
	}
	if m.TransactionsChange != 0 {
		t.Fatalf("expected flat transaction count, got %v", m.TransactionsChange)
	}
}

func TestGetMetrics_EmptyPreviousWindow(t *testing.T) {
	setupReportDB(t)

	seedSale(t, day(2025, time.March, 12), [3]float64{1, 80.00, 20.00})

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	m, err := GetMetrics(start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	// Growth from nothing reads as 100%, not a division blowup
	if m.RevenueChange != 100.00 {
		t.Fatalf("expected 100%% change from an empty window, got %v", m.RevenueChange)
	}
}

func TestGetCategorySales_CollapsesTailIntoOthers(t *testing.T) {
	setupReportDB(t)

	// Six categories, descending revenue 600..100
	names := []string{"Beverages", "Snacks", "Dairy", "Bakery", "Frozen", "Household"}
	at := day(2025, time.March, 11)
	for i, name := range names {
		category := models.Category{Name: name}
		if err := DB.Create(&category).Error; err != nil {
			t.Fatalf("seed category: %v", err)
		}
		seedSale(t, at, [3]float64{float64(category.ID), float64(600 - i*100), 10.00})
	}

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	shares, err := GetCategorySales(start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetCategorySales: %v", err)
	}
	if len(shares) != 5 {
		t.Fatalf("expected top 4 + Others, got %d slices", len(shares))
	}
	if shares[0].Name != "Beverages" || shares[0].Revenue != 600.00 {
		t.Fatalf("biggest category must come first: %+v", shares[0])
	}
	last := shares[len(shares)-1]
	if last.Name != "Others" || last.Revenue != 300.00 { // 200 + 100
		t.Fatalf("tail must collapse into Others with 300.00, got %+v", last)
	}

	var pct float64
	for _, s := range shares {
		pct += s.Percentage
	}
	if pct < 99.9 || pct > 100.1 {
		t.Fatalf("percentages should sum to ~100, got %v", pct)
	}
}

func TestGetCategorySales_FewCategoriesKeptAsIs(t *testing.T) {
	setupReportDB(t)

	category := models.Category{Name: "Beverages"}
	if err := DB.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	seedSale(t, day(2025, time.March, 11), [3]float64{float64(category.ID), 50.00, 5.00})

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	shares, err := GetCategorySales(start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetCategorySales: %v", err)
	}
	if len(shares) != 1 || shares[0].Name != "Beverages" || shares[0].Percentage != 100.00 {
		t.Fatalf("single category must own 100%%: %+v", shares)
	}
}

func TestGetTopProducts_OrdersByUnits(t *testing.T) {
	setupReportDB(t)

	at := day(2025, time.March, 11)
	sale := models.Sale{TransactionID: "TXN-TOP", GrandTotal: 100, Status: "completed", CreatedAt: at}
	if err := DB.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	for _, row := range []struct {
		name  string
		qty   int
		total float64
	}{
		{"Cola", 10, 50.00},
		{"Chips", 3, 9.00},
		{"Water", 7, 7.00},
	} {
		item := models.SaleItem{SaleID: sale.ID, ProductName: row.name, Quantity: row.qty, TotalAmount: row.total, CreatedAt: at}
		if err := DB.Create(&item).Error; err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	top, err := GetTopProducts(start, start.AddDate(0, 0, 7), 2)
	if err != nil {
		t.Fatalf("GetTopProducts: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected limit 2, got %d", len(top))
	}
	if top[0].ProductName != "Cola" || top[0].UnitsSold != 10 {
		t.Fatalf("best seller wrong: %+v", top[0])
	}
	if top[1].ProductName != "Water" {
		t.Fatalf("second place wrong: %+v", top[1])
	}
}

func TestTargetPolicy(t *testing.T) {
	policy := TargetPolicy{MonthlyBase: 10000, SeasonalMultiplier: 1.5, GrowthFactor: 1.10}

	if got := policy.Target(time.November, 5000); got != 15000 {
		t.Fatalf("November must use the seasonal base, got %v", got)
	}
	if got := policy.Target(time.December, 0); got != 15000 {
		t.Fatalf("December must use the seasonal base, got %v", got)
	}
	if got := policy.Target(time.April, 2000); got != 2200 {
		t.Fatalf("expected 10%% growth over prior actual, got %v", got)
	}
	if got := policy.Target(time.April, 0); got != 10000 {
		t.Fatalf("no history must fall back to the base, got %v", got)
	}
}

func TestDefaultTargetPolicy_EnvOverride(t *testing.T) {
	t.Setenv("MONTHLY_TARGET_BASE", "2500")
	if got := DefaultTargetPolicy().MonthlyBase; got != 2500 {
		t.Fatalf("expected env override 2500, got %v", got)
	}

	t.Setenv("MONTHLY_TARGET_BASE", "junk")
	if got := DefaultTargetPolicy().MonthlyBase; got != 10000 {
		t.Fatalf("bad override must keep the default, got %v", got)
	}
}

func TestGetFinancialYearSales(t *testing.T) {
	setupReportDB(t)

	seedSale(t, day(2025, time.January, 15), [3]float64{1, 1000.00, 200.00})
	seedSale(t, day(2025, time.March, 2), [3]float64{1, 500.00, 100.00})

	policy := TargetPolicy{MonthlyBase: 10000, SeasonalMultiplier: 1.5, GrowthFactor: 1.10}
	points, err := GetFinancialYearSales(2025, policy)
	if err != nil {
		t.Fatalf("GetFinancialYearSales: %v", err)
	}
	if len(points) != 12 {
		t.Fatalf("expected 12 months, got %d", len(points))
	}
	if points[0].Month != "Jan" || points[0].Revenue != 1000.00 {
		t.Fatalf("January actual wrong: %+v", points[0])
	}
	// February had no sales; its target grows from January's actual
	if points[1].Revenue != 0 || points[1].Target != 1100.00 {
		t.Fatalf("February point wrong: %+v", points[1])
	}
	if points[2].Revenue != 500.00 {
		t.Fatalf("March actual wrong: %+v", points[2])
	}
	// November and December are seasonal regardless of history
	if points[10].Target != 15000.00 || points[11].Target != 15000.00 {
		t.Fatalf("seasonal targets wrong: %+v %+v", points[10], points[11])
	}
}
