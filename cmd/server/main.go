package main

import (
	"log"
	"os"
	"strings"
	"time"

	"salepoint/internal/database"
	"salepoint/internal/handlers"
	"salepoint/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	// CORS for the React frontend
	origins := []string{"http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = origins[:0]
		for _, o := range strings.Split(env, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	r.Static("/uploads", "./uploads")

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// ANY AUTHENTICATED ROLE
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProduct)
		api.POST("/sales/save/transaction", handlers.SaveTransaction)
		api.GET("/settings", handlers.GetSettings)

		// STOCK MANAGEMENT (admin or inventory)
		stock := api.Group("/")
		stock.Use(middleware.RequireRole("admin", "inventory"))
		{
			stock.POST("/products", handlers.AddProduct)
			stock.PUT("/products/:id", handlers.UpdateProduct)
			stock.PUT("/products/:id/stock", handlers.RestockProduct)
			stock.DELETE("/products/:id", handlers.DeleteProduct)
			stock.POST("/products/import", handlers.ImportProducts)
			stock.GET("/products/export", handlers.ExportProducts)
			stock.POST("/upload", handlers.UploadImage)

			stock.GET("/categories", handlers.GetCategories)
			stock.POST("/categories", handlers.AddCategory)
			stock.PUT("/categories/:id", handlers.UpdateCategory)
			stock.DELETE("/categories/:id", handlers.DeleteCategory)

			stock.GET("/suppliers", handlers.GetSuppliers)
			stock.POST("/suppliers", handlers.AddSupplier)
			stock.PUT("/suppliers/:id", handlers.UpdateSupplier)
			stock.DELETE("/suppliers/:id", handlers.DeleteSupplier)
		}

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/sales", handlers.GetSales)
			admin.GET("/sales/:id", handlers.GetSale)
			admin.GET("/dashboard/data", handlers.GetDashboardData)
			admin.GET("/reports/sales", handlers.GetSalesReport)

			admin.GET("/users", handlers.GetUsers)
			admin.POST("/users", handlers.AddUser)
			admin.PUT("/users/:id", handlers.UpdateUser)
			admin.DELETE("/users/:id", handlers.DeleteUser)
			admin.GET("/roles", handlers.GetRoles)

			admin.PUT("/settings", handlers.UpdateSettings)

			admin.POST("/ask", handlers.AskAI)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server starting on port " + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
