package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-resupply-order/internal/config"
	"go-resupply-order/internal/handler"
	"go-resupply-order/internal/middleware"
	"go-resupply-order/internal/repository"
	"go-resupply-order/internal/service"
	"go-resupply-order/internal/storage"
	"go-resupply-order/internal/ws"
	applogger "go-resupply-order/pkg/logger"
	"go-resupply-order/pkg/messaging"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := applogger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Setup Document Store
	store, closeStore, err := storage.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open document store", zap.Error(err))
	}
	defer closeStore()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 4. Optional broker for order events
	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		mq, err := messaging.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			zlog.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer mq.Close()
		if err := mq.DeclareQueue(cfg.OrderQueue); err != nil {
			zlog.Fatal("failed to declare order queue", zap.String("queue", cfg.OrderQueue), zap.Error(err))
		}
		publisher = mq
		zlog.Info("order events enabled", zap.String("queue", cfg.OrderQueue))
	}

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(store)
	orderRepo := repository.NewOrderRepo(store)

	catalogService := service.NewCatalogService(productRepo, cfg.CatalogCap)
	sessionService := service.NewSessionService(catalogService, cfg.Budget, cfg.SessionTTL, cfg.MaxSessions, zlog)

	pruneCtx, stopPruner := context.WithCancel(context.Background())
	defer stopPruner()
	go sessionService.RunPruner(pruneCtx, cfg.PruneInterval)
	formService := service.NewOrderFormService(sessionService, orderRepo, wsHub, publisher, cfg.OrderQueue, zlog)

	sessionHandler := handler.NewSessionHandler(sessionService)
	catalogHandler := handler.NewCatalogHandler(formService, cfg.Sections)
	formHandler := handler.NewFormHandler(formService, cfg.CurrencySymbol)
	orderHandler := handler.NewOrderHandler(formService, cfg.CurrencySymbol)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Resupply Order v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/session", sessionHandler.SignIn)

	// ============ SESSION ROUTES ============
	protected := api.Group("", middleware.RequireSession())

	protected.Get("/sections", catalogHandler.GetSections)
	protected.Get("/catalog", catalogHandler.GetCatalog)

	protected.Get("/form", formHandler.GetForm)
	protected.Post("/form/filter", formHandler.Filter)
	protected.Put("/form/rows/:productId/quantity", formHandler.SetQuantity)
	protected.Put("/form/rows/:productId/stock", formHandler.SetStock)
	protected.Get("/form/totals", formHandler.GetTotals)

	protected.Post("/orders", orderHandler.Submit)

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
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Panic("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}
