package handlers

import (
	"net/http"
	"time"

	"salepoint/internal/database"

	"github.com/gin-gonic/gin"
)

// DashboardData is everything the dashboard page renders in one round trip
type DashboardData struct {
	Metrics            *database.Metrics        `json:"metrics"`
	SalesTrend         []database.TrendPoint    `json:"salesTrend"`
	CategoryData       []database.CategoryShare `json:"categoryData"`
	TopProducts        []database.TopProduct    `json:"topProducts"`
	RecentTransactions interface{}              `json:"recentTransactions"`
	Last30DaysSales    []database.TrendPoint    `json:"last30DaysSales"`
	FinancialYearSales []database.MonthPoint    `json:"financialYearSales"`
}

func windowDays(timeRange string) int {
	switch timeRange {
	case "30d":
		return 30
	case "90d":
		return 90
	default:
		return 7
	}
}

// --- GET: /api/dashboard/data?timeRange=7d|30d|90d ---
func GetDashboardData(c *gin.Context) {
	days := windowDays(c.DefaultQuery("timeRange", "7d"))

	now := time.Now()
	// Windows are whole calendar days, today included
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	metrics, err := database.GetMetrics(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}

	trend, err := database.GetSalesTrend(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute sales trend"})
		return
	}

	categories, err := database.GetCategorySales(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute category data"})
		return
	}

	topProducts, err := database.GetTopProducts(start, end, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
		return
	}

	recent, err := database.GetRecentSales(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent transactions"})
		return
	}

	last30, err := database.GetSalesTrend(end.AddDate(0, 0, -30), end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute 30 day series"})
		return
	}

	fy, err := database.GetFinancialYearSales(now.Year(), database.DefaultTargetPolicy())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute financial year series"})
		return
	}

	c.JSON(http.StatusOK, DashboardData{
		Metrics:            metrics,
		SalesTrend:         trend,
		CategoryData:       categories,
		TopProducts:        topProducts,
		RecentTransactions: recent,
		Last30DaysSales:    last30,
		FinancialYearSales: fy,
	})
}

// --- GET: /api/reports/sales?start=YYYY-MM-DD&end=YYYY-MM-DD ---
// Custom-range rollup. The end date is inclusive.
func GetSalesReport(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}
	end = end.AddDate(0, 0, 1)

	summary, err := database.GetSalesSummary(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
		return
	}

	trend, err := database.GetSalesTrend(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report series"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"trend":   trend,
	})
}
