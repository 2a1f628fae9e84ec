package database

import (
	"log"
	"os"
	"time"

	"salepoint/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Wait for the database to come up (docker-compose starts us in parallel)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("✅ Database Schema Synced!")
}

// Migrate syncs the schema and seeds the fixed reference data.
// Split out from Connect so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
		&models.CompanySetting{},
	)
	if err != nil {
		return err
	}

	return seedRoles(db)
}

// The role set is closed: these four rows are the entire roles table.
func seedRoles(db *gorm.DB) error {
	for _, name := range []string{"super admin", "admin", "cashier", "inventory"} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
