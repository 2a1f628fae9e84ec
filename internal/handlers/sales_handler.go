package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"salepoint/internal/database"
	"salepoint/internal/models"
	"salepoint/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleItemRequest is one cart line as the frontend sends it
type SaleItemRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Subtotal  float64 `json:"subtotal"`
}

// SaleRequest defines the checkout payload
type SaleRequest struct {
	Items              []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerName       string            `json:"customer_name"`
	SubTotal           float64           `json:"subtotal" binding:"gte=0"`
	DiscountAmount     float64           `json:"discount_amount" binding:"gte=0"`
	DiscountPercentage float64           `json:"discount_percentage" binding:"gte=0"`
	PaymentMethod      string            `json:"payment_method" binding:"required"`
	AmountReceived     float64           `json:"amount_received"`
	ChangeAmount       float64           `json:"change_amount"`
}

// lockForUpdate takes a row lock on MySQL so two tills cannot both pass the
// stock check. SQLite (used by the tests) has no FOR UPDATE; there the guarded
// decrement below is the only defense, which is enough single-writer.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// --- POST: /api/sales/save/transaction ---
//
// Atomically converts a cart into a Sale + SaleItems and decrements stock.
// Either every line commits or nothing does.
func SaveTransaction(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	// The cashier, if this request carried a token. Sales from an unauthenticated
	// context are still recorded, just without attribution.
	var userID *uint
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			userID = &id
		}
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		saleServerError(c, userID, tx.Error)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Pass 1: validate every line before touching anything. Errors are collected,
	// not returned on first hit, so the cashier sees all problems at once.
	var validationErrors []string
	products := make(map[uint]models.Product, len(req.Items))

	for _, item := range req.Items {
		var product models.Product
		err := lockForUpdate(tx).First(&product, item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			validationErrors = append(validationErrors, fmt.Sprintf("Product with ID %d not found", item.ProductID))
			continue
		}
		if err != nil {
			tx.Rollback()
			saleServerError(c, userID, err)
			return
		}
		if product.QuantityLeft < item.Quantity {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"Insufficient stock for %s: requested %d, available %d",
				product.Name, item.Quantity, product.QuantityLeft))
			continue
		}
		products[item.ProductID] = product
	}

	if len(validationErrors) > 0 {
		tx.Rollback()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  validationErrors,
		})
		return
	}

	grandTotal := utils.Round2(req.SubTotal - req.DiscountAmount)

	sale := models.Sale{
		TransactionID:      utils.NewTransactionID(),
		UserID:             userID,
		SubTotal:           req.SubTotal,
		DiscountAmount:     req.DiscountAmount,
		DiscountPercentage: req.DiscountPercentage,
		GrandTotal:         grandTotal,
		Status:             "completed",
		AmountPaid:         req.AmountReceived,
		ChangeAmount:       req.ChangeAmount,
		PaymentMethod:      req.PaymentMethod,
		CustomerName:       req.CustomerName,
	}
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		saleServerError(c, userID, err)
		return
	}

	// Pass 2: decrement stock and snapshot each line. The WHERE quantity_left >= ?
	// guard means a concurrent sale that slipped past validation still cannot
	// drive stock negative; zero rows affected aborts the whole checkout.
	// The running counters are written back into the map so a product appearing
	// on two cart lines snapshots its own post-decrement level on each line.
	for _, item := range req.Items {
		product := products[item.ProductID]

		res := tx.Model(&models.Product{}).
			Where("id = ? AND quantity_left >= ?", item.ProductID, item.Quantity).
			Updates(map[string]interface{}{
				"quantity_left": gorm.Expr("quantity_left - ?", item.Quantity),
				"quantity_sold": gorm.Expr("quantity_sold + ?", item.Quantity),
			})
		if res.Error != nil {
			tx.Rollback()
			saleServerError(c, userID, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"errors":  []string{fmt.Sprintf("Insufficient stock for %s", product.Name)},
			})
			return
		}

		product.QuantityLeft -= item.Quantity
		product.QuantitySold += item.Quantity
		products[item.ProductID] = product

		saleItem := models.SaleItem{
			SaleID:       sale.ID,
			ProductID:    product.ID,
			CategoryID:   product.CategoryID,
			ProductName:  product.Name,
			Quantity:     item.Quantity,
			Price:        product.SellingPrice,
			TotalAmount:  utils.Round2(product.SellingPrice * float64(item.Quantity)),
			QuantityLeft: product.QuantityLeft,
			QuantitySold: product.QuantitySold,
			Profit:       utils.Round2(product.Profit * float64(item.Quantity)),
			ExpiryDate:   product.ExpiryDate,
		}
		if err := tx.Create(&saleItem).Error; err != nil {
			tx.Rollback()
			saleServerError(c, userID, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		saleServerError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Transaction completed successfully",
		"transaction_id": sale.TransactionID,
	})
}

// saleServerError logs the real failure and hides it from the client unless
// APP_DEBUG is on.
func saleServerError(c *gin.Context, userID *uint, err error) {
	uid := uint(0)
	if userID != nil {
		uid = *userID
	}
	log.Printf("transaction save failed (user=%d): %v", uid, err)

	body := gin.H{"success": false, "message": "Internal server error while saving transaction"}
	if os.Getenv("APP_DEBUG") == "true" {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// --- GET: /api/sales ---
// Newest first, items preloaded, simple page/limit paging.
func GetSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := database.DB.Model(&models.Sale{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count sales"})
		return
	}

	var sales []models.Sale
	err := database.DB.Preload("Items").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// --- GET: /api/sales/:id ---
func GetSale(c *gin.Context) {
	id := c.Param("id")

	var sale models.Sale
	err := database.DB.Preload("Items").Preload("User").First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sale"})
		return
	}

	c.JSON(http.StatusOK, sale)
}
