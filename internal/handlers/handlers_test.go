package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"salepoint/internal/database"
	"salepoint/internal/models"
	"salepoint/internal/settings"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-level connection at a fresh sqlite file so
// every test starts from an empty, migrated, role-seeded schema.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	settings.Invalidate()
}

// seedCatalog creates one category, one supplier and one product ready to sell.
func seedCatalog(t *testing.T) (models.Category, models.Supplier, models.Product) {
	t.Helper()

	category := models.Category{Name: "Beverages"}
	if err := database.DB.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	supplier := models.Supplier{Name: "Acme Drinks", Email: "sales@acmedrinks.test", Status: "active"}
	if err := database.DB.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	product := models.Product{
		Name:          "Cola 500ml",
		CategoryID:    category.ID,
		SupplierID:    supplier.ID,
		SellingPrice:  10.00,
		CostPrice:     6.00,
		TotalQuantity: 10,
		QuantityLeft:  10,
		ReorderLevel:  3,
		Profit:        4.00,
		TotalProfit:   40.00,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return category, supplier, product
}

// doJSON mounts one handler on the given route pattern and runs a JSON request
// against it, e.g. doJSON(t, GetProduct, "GET", "/products/:id", "/products/1", nil).
func doJSON(t *testing.T, handler gin.HandlerFunc, method, route, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}

	r := gin.New()
	r.Handle(method, route, handler)

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v (raw: %s)", err, rec.Body.String())
	}
	return body
}

func daysFromNow(n int) *time.Time {
	d := time.Now().AddDate(0, 0, n)
	return &d
}
