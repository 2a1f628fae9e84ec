package settings

import (
	"path/filepath"
	"testing"

	"salepoint/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "settings.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.CompanySetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	Invalidate()
	t.Cleanup(Invalidate)
	return db
}

func TestGet_CreatesDefaultRow(t *testing.T) {
	db := openDB(t)

	s, err := Get(db)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.CompanyName != "My Store" || s.CurrencyCode != "USD" {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	var count int64
	db.Model(&models.CompanySetting{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one settings row, got %d", count)
	}
}

func TestGet_ServesFromCache(t *testing.T) {
	db := openDB(t)

	first, err := Get(db)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Mutate behind the cache's back; a cached read must not see it
	if err := db.Model(&models.CompanySetting{}).Where("id = ?", first.ID).
		Update("company_name", "Changed Directly").Error; err != nil {
		t.Fatalf("direct update: %v", err)
	}

	cached, err := Get(db)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cached.CompanyName != "My Store" {
		t.Fatalf("expected the cached row, got %q", cached.CompanyName)
	}

	Invalidate()
	fresh, err := Get(db)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fresh.CompanyName != "Changed Directly" {
		t.Fatalf("invalidate must force a reload, got %q", fresh.CompanyName)
	}
}
