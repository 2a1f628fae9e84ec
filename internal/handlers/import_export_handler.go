package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salepoint/internal/database"
	"salepoint/internal/models"
	"salepoint/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// Expected CSV column order. The first row is a header and is skipped.
// expiry_date is optional; everything before it is required.
//
//	name, category_name, supplier_email, selling_price, cost_price,
//	total_quantity, reorder_level, expiry_date
const csvMinColumns = 7

// --- POST: /api/products/import ---
//
// Bad rows are skipped and reported, good rows import regardless; the client
// gets both counts. A category named in the file but missing from the database
// is created on the fly and the row still imports.
func ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not open uploaded file"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // rows are validated per line below

	records, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is not valid CSV"})
		return
	}
	if len(records) <= 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File has no data rows"})
		return
	}

	imported := 0
	var importErrors []string

	for i, row := range records[1:] {
		line := i + 2 // 1-based, after the header

		if len(row) < csvMinColumns {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: expected at least %d columns, got %d", line, csvMinColumns, len(row)))
			continue
		}

		name := strings.TrimSpace(row[0])
		categoryName := strings.TrimSpace(row[1])
		supplierEmail := strings.ToLower(strings.TrimSpace(row[2]))

		if name == "" || categoryName == "" || supplierEmail == "" {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: name, category_name and supplier_email are required", line))
			continue
		}

		sellingPrice, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil || sellingPrice < 0 {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: invalid selling_price %q", line, row[3]))
			continue
		}
		costPrice, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil || costPrice < 0 {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: invalid cost_price %q", line, row[4]))
			continue
		}
		totalQuantity, err := strconv.Atoi(strings.TrimSpace(row[5]))
		if err != nil || totalQuantity < 0 {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: invalid total_quantity %q", line, row[5]))
			continue
		}
		reorderLevel, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil || reorderLevel < 0 {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: invalid reorder_level %q", line, row[6]))
			continue
		}

		var expiry *time.Time
		if len(row) >= 8 && strings.TrimSpace(row[7]) != "" {
			parsed, err := time.Parse("2006-01-02", strings.TrimSpace(row[7]))
			if err != nil {
				importErrors = append(importErrors, fmt.Sprintf("Row %d: invalid expiry_date %q", line, row[7]))
				continue
			}
			expiry = &parsed
		}

		// Unknown suppliers reject the row; suppliers carry contact data we
		// cannot invent from a product sheet.
		var supplier models.Supplier
		if err := database.DB.Where("email = ?", supplierEmail).First(&supplier).Error; err != nil {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: supplier %q not found", line, supplierEmail))
			continue
		}

		// Unknown categories are created on the fly and the product row
		// proceeds with the fresh category.
		category := models.Category{Name: categoryName}
		if err := database.DB.Where("name = ?", categoryName).FirstOrCreate(&category).Error; err != nil {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: could not resolve category %q", line, categoryName))
			continue
		}

		profit := utils.Round2(sellingPrice - costPrice)
		product := models.Product{
			Name:          name,
			CategoryID:    category.ID,
			SupplierID:    supplier.ID,
			SellingPrice:  sellingPrice,
			CostPrice:     costPrice,
			TotalQuantity: totalQuantity,
			QuantityLeft:  totalQuantity,
			ReorderLevel:  reorderLevel,
			ExpiryDate:    expiry,
			Profit:        profit,
			TotalProfit:   utils.Round2(profit * float64(totalQuantity)),
		}
		if err := database.DB.Create(&product).Error; err != nil {
			importErrors = append(importErrors, fmt.Sprintf("Row %d: could not save product %q", line, name))
			continue
		}

		imported++
	}

	c.JSON(http.StatusOK, gin.H{
		"imported_count": imported,
		"errors":         importErrors,
		"message":        fmt.Sprintf("Imported %d products, skipped %d rows", imported, len(importErrors)),
	})
}

// --- GET: /api/products/export ---
// Writes the full product list as an .xlsx download.
func ExportProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Preload("Category").Preload("Supplier").Order("name asc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Category", "Supplier", "Selling Price", "Cost Price",
		"Total Quantity", "Quantity Left", "Quantity Sold", "Reorder Level", "Expiry Date", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	now := time.Now()
	for rowIdx, p := range products {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}
		values := []interface{}{
			p.Name, p.Category.Name, p.Supplier.Name, p.SellingPrice, p.CostPrice,
			p.TotalQuantity, p.QuantityLeft, p.QuantitySold, p.ReorderLevel, expiry,
			p.StockStatus(now),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("products_%s.xlsx", now.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export"})
	}
}
