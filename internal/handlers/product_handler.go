package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"salepoint/internal/database"
	"salepoint/internal/models"
	"salepoint/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductResponse is a product row plus the derived display status
type ProductResponse struct {
	models.Product
	Status string `json:"status"`
}

type ProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	CategoryID    uint    `json:"category_id" binding:"required"`
	SupplierID    uint    `json:"supplier_id" binding:"required"`
	SellingPrice  float64 `json:"selling_price" binding:"gte=0"`
	CostPrice     float64 `json:"cost_price" binding:"gte=0"`
	TotalQuantity int     `json:"total_quantity" binding:"gte=0"`
	ReorderLevel  int     `json:"reorder_level" binding:"gte=0"`
	ExpiryDate    string  `json:"expiry_date"` // "2006-01-02", optional
	ImagePath     string  `json:"image_path"`
}

type ProductUpdateRequest struct {
	Name         *string  `json:"name"`
	CategoryID   *uint    `json:"category_id"`
	SupplierID   *uint    `json:"supplier_id"`
	SellingPrice *float64 `json:"selling_price"`
	CostPrice    *float64 `json:"cost_price"`
	ReorderLevel *int     `json:"reorder_level"`
	ExpiryDate   *string  `json:"expiry_date"`
	ImagePath    *string  `json:"image_path"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func parseExpiry(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- GET: /api/products ---
func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Preload("Category").Preload("Supplier").Order("name asc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	now := time.Now()
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, ProductResponse{
			Product: products[i],
			Status:  products[i].StockStatus(now),
		})
	}

	c.JSON(http.StatusOK, res)
}

// --- GET: /api/products/:id ---
func GetProduct(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	err := database.DB.Preload("Category").Preload("Supplier").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, ProductResponse{Product: product, Status: product.StockStatus(time.Now())})
}

// --- POST: /api/products ---
func AddProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be YYYY-MM-DD"})
		return
	}

	// The referenced category and supplier must exist
	var category models.Category
	if err := database.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}
	var supplier models.Supplier
	if err := database.DB.First(&supplier, req.SupplierID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supplier not found"})
		return
	}

	profit := utils.Round2(req.SellingPrice - req.CostPrice)
	product := models.Product{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		SupplierID:    req.SupplierID,
		SellingPrice:  req.SellingPrice,
		CostPrice:     req.CostPrice,
		TotalQuantity: req.TotalQuantity,
		QuantityLeft:  req.TotalQuantity, // nothing sold yet
		QuantitySold:  0,
		ReorderLevel:  req.ReorderLevel,
		ExpiryDate:    expiry,
		Profit:        profit,
		TotalProfit:   utils.Round2(profit * float64(req.TotalQuantity)),
		ImagePath:     req.ImagePath,
	}

	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// --- PUT: /api/products/:id ---
// Partial update; derived profit fields are recomputed when prices change.
func UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		product.CategoryID = *req.CategoryID
	}
	if req.SupplierID != nil {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, *req.SupplierID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Supplier not found"})
			return
		}
		product.SupplierID = *req.SupplierID
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.ExpiryDate != nil {
		expiry, err := parseExpiry(*req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be YYYY-MM-DD"})
			return
		}
		product.ExpiryDate = expiry
	}
	if req.ImagePath != nil {
		product.ImagePath = *req.ImagePath
	}

	product.Profit = utils.Round2(product.SellingPrice - product.CostPrice)
	product.TotalProfit = utils.Round2(product.Profit * float64(product.TotalQuantity))

	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- PUT: /api/products/:id/stock ---
// Restock: bumps both the lifetime counter and the on-hand count.
func RestockProduct(c *gin.Context) {
	id := c.Param("id")

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive number"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	product.TotalQuantity += req.Quantity
	product.QuantityLeft += req.Quantity
	product.TotalProfit = utils.Round2(product.Profit * float64(product.TotalQuantity))

	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "product": product})
}

// --- DELETE: /api/products/:id ---
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := database.DB.Delete(&models.Product{}, id).Error; err != nil {
		// Usually a foreign key constraint from existing sale lines
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past sales."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- POST: /api/upload ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Unique filename, e.g. "1756500000_cola.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	filepath := "./uploads/" + filename

	if err := c.SaveUploadedFile(file, filepath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}
