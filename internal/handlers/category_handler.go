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

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// --- GET: /api/categories ---
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// --- POST: /api/categories ---
func AddCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	// Name is unique across categories
	var existing models.Category
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// --- PUT: /api/categories/:id ---
func UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	err := database.DB.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	var duplicate models.Category
	if err := database.DB.Where("name = ? AND id <> ?", req.Name, category.ID).First(&duplicate).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := database.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// --- DELETE: /api/categories/:id ---
// Refused while any product still references the category.
func DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var count int64
	if err := database.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category usage"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category is in use by existing products"})
		return
	}

	if err := database.DB.Delete(&models.Category{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
