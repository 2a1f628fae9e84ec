package handlers

import (
	"net/http"

	"salepoint/internal/database"
	"salepoint/internal/settings"

	"github.com/gin-gonic/gin"
)

type SettingsRequest struct {
	CompanyName  string `json:"company_name" binding:"required"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	TaxNumber    string `json:"tax_number"`
	ReceiptNote  string `json:"receipt_note"`
	LogoPath     string `json:"logo_path"`
	CurrencyCode string `json:"currency_code"`
}

// --- GET: /api/settings ---
// Served from the read-through cache; only the first call after boot (or after
// an update) touches the database.
func GetSettings(c *gin.Context) {
	s, err := settings.Get(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// --- PUT: /api/settings ---
func UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	current, err := settings.Get(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	current.CompanyName = req.CompanyName
	current.Address = req.Address
	current.Phone = req.Phone
	current.Email = req.Email
	current.Website = req.Website
	current.TaxNumber = req.TaxNumber
	current.ReceiptNote = req.ReceiptNote
	if req.LogoPath != "" {
		current.LogoPath = req.LogoPath
	}
	if req.CurrencyCode != "" {
		current.CurrencyCode = req.CurrencyCode
	}

	if err := database.DB.Save(&current).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	// Next read repopulates the cache with the fresh row
	settings.Invalidate()

	c.JSON(http.StatusOK, current)
}
