package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-ws/internal/config"
	"go-pos-ws/internal/handler"
	"go-pos-ws/internal/jobs"
	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"
	"go-pos-ws/pkg/jwt"
	"go-pos-ws/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	jwt.SetSecretKey(cfg.JWTSecret)

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// 3. Setup WebSocket Hub and the optional fan-out behind it
	wsHub := ws.NewHub(cfg.WSQueueSize)
	go wsHub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publishers := ws.MultiPublisher{wsHub}

	if cfg.RedisURL != "" {
		redisClient := ws.NewRedisClient(cfg.RedisURL)
		defer redisClient.Close()
		relay := ws.NewRedisRelay(redisClient, wsHub, cfg.WSQueueSize)
		go relay.Forward(ctx)
		go relay.Run(ctx)
		publishers = append(publishers, relay)
	}

	if cfg.AMQPURL != "" {
		mq, err := rabbitmq.Connect(cfg.AMQPURL)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, broker feed disabled: %v", err)
		} else {
			defer mq.Close()
			feed := ws.NewBrokerFeed(mq, rabbitmq.ExchangeEvents, cfg.WSQueueSize)
			go feed.Run()
			defer feed.Stop()
			publishers = append(publishers, feed)
		}
	}

	// 4. Dependency Injection (Wiring Layers)
	tableRepo := repository.NewTableRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	turnRepo := repository.NewCashTurnRepo(db)

	cashService := service.NewCashService(turnRepo, db)
	orderService := service.NewOrderService(orderRepo, productRepo, tableRepo, movementRepo, cashService, db, publishers)
	stockService := service.NewStockService(productRepo, movementRepo, db)
	dashService := service.NewDashboardService(orderRepo, tableRepo, productRepo, movementRepo, cfg.LowStockThreshold)
	authService, err := service.NewAuthService(service.DefaultCredentials())
	if err != nil {
		log.Fatalf("Failed to load staff directory: %v", err)
	}

	orderHandler := handler.NewOrderHandler(orderService)
	cashHandler := handler.NewCashHandler(cashService)
	catalogHandler := handler.NewCatalogHandler(tableRepo, productRepo, categoryRepo)
	stockHandler := handler.NewStockHandler(stockService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	wsHandler := handler.NewWSHandler(wsHub)

	// 5. Background jobs
	scheduler, err := jobs.NewJobScheduler(wsHub, orderRepo, cfg.WSPingInterval)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Kitchen v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/tables", catalogHandler.GetTables)
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/categories", catalogHandler.GetCategories)

	protected.Post("/orders", middleware.RequireRole(model.RoleWaiter, model.RoleAdmin), orderHandler.CreateOrder)
	protected.Get("/orders/active", orderHandler.GetActiveOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Get("/orders/:id/stock-movements", stockHandler.OrderMovements)
	protected.Post("/orders/:id/close", middleware.RequireRole(model.RoleCashier, model.RoleAdmin, model.RoleWaiter), orderHandler.CloseOrder)

	kitchen := middleware.RequireRole(model.RoleChef, model.RoleAdmin)
	protected.Post("/order-items/:id/state", kitchen, orderHandler.TransitionItemState)
	protected.Get("/kitchen/orders", kitchen, orderHandler.KitchenBoard)

	register := middleware.RequireRole(model.RoleCashier, model.RoleAdmin)
	protected.Get("/shifts/current", register, cashHandler.CurrentTurn)
	protected.Get("/shifts/history", register, cashHandler.History)
	protected.Post("/shifts/:action", register, cashHandler.ShiftAction)

	admin := middleware.RequireRole(model.RoleAdmin)
	protected.Get("/dashboard/stats", admin, dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", admin, dashHandler.GetStockMovement)
	protected.Post("/products/:id/restock", admin, stockHandler.Restock)

	// WebSocket Route
	app.Get("/ws/:channel", wsHandler.Upgrade, wsHandler.Stream())

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	cancel()
	wsHub.Stop()

	log.Println("Server exited")
}
