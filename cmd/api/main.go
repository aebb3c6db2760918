package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-kasir-pos/internal/handler"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/service"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLogger.Sync()

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(&model.Product{}, &model.Sale{}, &model.SaleItem{}, &model.StockAdjustment{})

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	adjustmentRepo := repository.NewStockAdjustmentRepo(db)
	reportRepo := repository.NewReportRepo(db)

	catalogService := service.NewCatalogService(productRepo, db, wsHub, zapLogger)
	saleService := service.NewSaleService(productRepo, saleRepo, db, wsHub, zapLogger)
	stockService := service.NewStockService(productRepo, adjustmentRepo, db, wsHub, zapLogger)
	reportService := service.NewReportService(reportRepo, productRepo)

	productHandler := handler.NewProductHandler(catalogService)
	saleHandler := handler.NewSaleHandler(saleService)
	stockHandler := handler.NewStockHandler(stockService)
	reportHandler := handler.NewReportHandler(reportService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Kasir POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 6. Routes
	api := app.Group("/api/v1")

	// Product Routes
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/search", productHandler.SearchProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)

	// Sale Routes
	api.Get("/sales", saleHandler.GetSales)
	api.Get("/sales/:id", saleHandler.GetSale)
	api.Post("/sales", saleHandler.CreateSale)

	// Stock Adjustment Routes
	api.Get("/stock-adjustments", stockHandler.GetAdjustments)
	api.Post("/stock-adjustments", stockHandler.CreateAdjustment)

	// Report Routes
	api.Get("/reports/sales/daily", reportHandler.GetDailySalesReport)
	api.Get("/reports/sales/monthly", reportHandler.GetMonthlySalesReport)
	api.Get("/reports/profit-loss/daily", reportHandler.GetDailyProfitLossReport)
	api.Get("/reports/profit-loss/monthly", reportHandler.GetMonthlyProfitLossReport)
	api.Get("/reports/stock", reportHandler.GetStockReport)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
