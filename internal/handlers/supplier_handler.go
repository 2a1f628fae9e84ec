package handlers

import (
	"errors"
	"net/http"
	"strings"

	"salepoint/internal/database"
	"salepoint/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Status      string `json:"status"`
}

func normalizeSupplierStatus(status string) string {
	if strings.ToLower(strings.TrimSpace(status)) == "inactive" {
		return "inactive"
	}
	return "active"
}

// --- GET: /api/suppliers ---
func GetSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// --- POST: /api/suppliers ---
func AddSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	supplier := models.Supplier{
		Name:        strings.TrimSpace(req.Name),
		CompanyName: req.CompanyName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Address:     req.Address,
		Status:      normalizeSupplierStatus(req.Status),
	}

	if err := database.DB.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Supplier with this email already exists"})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// --- PUT: /api/suppliers/:id ---
func UpdateSupplier(c *gin.Context) {
	id := c.Param("id")

	var supplier models.Supplier
	err := database.DB.First(&supplier, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier"})
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	supplier.Name = strings.TrimSpace(req.Name)
	supplier.CompanyName = req.CompanyName
	supplier.Email = strings.ToLower(strings.TrimSpace(req.Email))
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.Status = normalizeSupplierStatus(req.Status)

	if err := database.DB.Save(&supplier).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Supplier with this email already exists"})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// --- DELETE: /api/suppliers/:id ---
func DeleteSupplier(c *gin.Context) {
	id := c.Param("id")

	var count int64
	if err := database.DB.Model(&models.Product{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check supplier usage"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Supplier is in use by existing products"})
		return
	}

	if err := database.DB.Delete(&models.Supplier{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
