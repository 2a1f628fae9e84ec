package models

import (
	"time"
)

// Role - Closed reference set. Seeded at migration time, never created through the API.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50" json:"name"` // 'super admin', 'admin', 'cashier', 'inventory'
}

// User - The person operating the till (or the back office)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone"`
	RoleID    uint      `json:"role_id"`
	Role      Role      `json:"role"`
	Status    string    `gorm:"size:20;default:active" json:"status"`
	Password  string    `json:"-"` // bcrypt hash, never returned in JSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category owns zero or more products
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Supplier - Where the stock comes from
type Supplier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	CompanyName string    `gorm:"size:150" json:"company_name"`
	Email       string    `gorm:"uniqueIndex;size:100" json:"email"`
	Phone       string    `gorm:"size:30" json:"phone"`
	Address     string    `gorm:"type:text" json:"address"`
	Status      string    `gorm:"size:20;default:active" json:"status"` // 'active' or 'inactive'
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product - The Inventory
//
// QuantityLeft is the current on-hand count; TotalQuantity and QuantitySold are
// lifetime counters. Profit is per unit (selling - cost); TotalProfit is the
// derived lifetime figure recomputed whenever price or stock intake changes.
type Product struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:150" json:"name"`
	CategoryID    uint       `json:"category_id"`
	Category      Category   `json:"category"`
	SupplierID    uint       `json:"supplier_id"`
	Supplier      Supplier   `json:"supplier"`
	SellingPrice  float64    `json:"selling_price"`
	CostPrice     float64    `json:"cost_price"`
	TotalQuantity int        `json:"total_quantity"`
	QuantityLeft  int        `json:"quantity_left"`
	QuantitySold  int        `json:"quantity_sold"`
	ReorderLevel  int        `json:"reorder_level"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	Profit        float64    `json:"profit"`       // per unit
	TotalProfit   float64    `json:"total_profit"` // profit * total_quantity
	ImagePath     string     `gorm:"size:255" json:"image_path"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Sale - The Transaction Header. Created once per checkout, never mutated.
type Sale struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	TransactionID      string     `gorm:"uniqueIndex;size:40" json:"transaction_id"`
	UserID             *uint      `json:"user_id"` // the cashier, nullable if unauthenticated
	User               *User      `json:"user,omitempty"`
	SubTotal           float64    `json:"sub_total"`
	DiscountAmount     float64    `json:"discount_amount"`
	DiscountPercentage float64    `json:"discount_percentage"`
	GrandTotal         float64    `json:"grand_total"`
	Status             string     `gorm:"size:20;default:completed" json:"status"`
	AmountPaid         float64    `json:"amount_paid"`
	ChangeAmount       float64    `json:"change_amount"`
	PaymentMethod      string     `gorm:"size:30" json:"payment_method"`
	CustomerName       string     `gorm:"size:100" json:"customer_name"`
	Items              []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt          time.Time  `json:"created_at"`
}

// SaleItem - One cart line. Everything about the product is snapshotted at sale
// time so receipts stay correct even if the product is edited or deleted later.
type SaleItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SaleID       uint       `json:"sale_id"`
	ProductID    uint       `json:"product_id"`
	CategoryID   uint       `json:"category_id"`
	ProductName  string     `gorm:"size:150" json:"product_name"`
	Quantity     int        `json:"quantity"`
	Price        float64    `json:"price"` // selling price at sale time
	TotalAmount  float64    `json:"total_amount"`
	QuantityLeft int        `json:"quantity_left"` // product stock AFTER this line's decrement
	QuantitySold int        `json:"quantity_sold"`
	Profit       float64    `json:"profit"` // unit profit * quantity
	ExpiryDate   *time.Time `json:"expiry_date"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CompanySetting - Singleton-ish row holding storefront display info.
// Always read through the settings cache (first() semantics).
type CompanySetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyName  string    `gorm:"size:150" json:"company_name"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:30" json:"phone"`
	Email        string    `gorm:"size:100" json:"email"`
	Website      string    `gorm:"size:150" json:"website"`
	TaxNumber    string    `gorm:"size:50" json:"tax_number"`
	ReceiptNote  string    `gorm:"type:text" json:"receipt_note"`
	LogoPath     string    `gorm:"size:255" json:"logo_path"`
	CurrencyCode string    `gorm:"size:10;default:USD" json:"currency_code"`
	UpdatedAt    time.Time `json:"updated_at"`
}
