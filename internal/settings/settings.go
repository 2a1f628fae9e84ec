// Package settings is a read-through cache for the CompanySetting singleton.
// Every request that renders a receipt or page header needs this row, so it is
// loaded once and kept in memory until an update invalidates it.
package settings

import (
	"sync"

	"salepoint/internal/models"

	"gorm.io/gorm"
)

var (
	mu     sync.RWMutex
	cached *models.CompanySetting
)

// Get returns the company settings, hitting the database only on a cold cache.
// If no row exists yet, a default one is created so first() always succeeds.
func Get(db *gorm.DB) (models.CompanySetting, error) {
	mu.RLock()
	if cached != nil {
		s := *cached
		mu.RUnlock()
		return s, nil
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	var s models.CompanySetting
	err := db.First(&s).Error
	if err == gorm.ErrRecordNotFound {
		s = models.CompanySetting{CompanyName: "My Store", CurrencyCode: "USD"}
		err = db.Create(&s).Error
	}
	if err != nil {
		return models.CompanySetting{}, err
	}

	cached = &s
	return s, nil
}

// Invalidate drops the cached row. Called after every settings update.
func Invalidate() {
	mu.Lock()
	cached = nil
	mu.Unlock()
}
