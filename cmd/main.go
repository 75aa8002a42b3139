package main

import (
	"context"

	"inventory-gateway-backend/api"
	"inventory-gateway-backend/config"
	dealroutes "inventory-gateway-backend/deals/routes"
	"inventory-gateway-backend/middleware"
	orderroutes "inventory-gateway-backend/orders/routes"
	orderservices "inventory-gateway-backend/orders/services"
	"inventory-gateway-backend/products/repositories"
	productroutes "inventory-gateway-backend/products/routes"
	"inventory-gateway-backend/products/services"
	referenceroutes "inventory-gateway-backend/references/routes"
	"inventory-gateway-backend/search"
	searchroutes "inventory-gateway-backend/search/routes"
	"inventory-gateway-backend/tasks"
	"inventory-gateway-backend/utils"
	ws "inventory-gateway-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()
	config.LoadEnv()

	if err := utils.InitializeDateLocation(); err != nil {
		config.Logger.Fatal("Failed to initialize timezone", zap.Error(err))
	}
	utils.InitializeMailer()

	db := config.ConfigureDatabase()
	ctx := context.Background()

	port := config.GetEnvOrDefault("PORT", "8080")

	// Redis client for caching and cleanup. Asynq manages its own connection.
	redisAddr := config.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
	redisClient := config.InitRedisServer(ctx)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	// Upstream inventory API client.
	backendURL := config.GetEnv("INVENTORY_API_URL")
	if backendURL == "" {
		config.Logger.Fatal("INVENTORY_API_URL is required")
	}

	var tokenSource api.TokenSource
	if staticToken := config.GetEnv("INVENTORY_API_TOKEN"); staticToken != "" {
		tokenSource = api.NewStaticTokenSource(staticToken)
	} else {
		passwordSource, err := api.NewPasswordTokenSource(
			backendURL,
			config.GetEnv("INVENTORY_API_EMAIL"),
			config.GetEnv("INVENTORY_API_PASSWORD"),
			config.Logger,
		)
		if err != nil {
			config.Logger.Fatal("Cannot create backend token source", zap.Error(err))
		}
		tokenSource = passwordSource
	}

	client, err := api.NewClient(backendURL, tokenSource, config.Logger)
	if err != nil {
		config.Logger.Fatal("Cannot create backend API client", zap.Error(err))
	}

	// Bleve product search index.
	searchIndex, err := search.NewIndexService(config.Logger, config.GetEnvOrDefault("SEARCH_INDEX_PATH", "./bleve_indexes"))
	if err != nil {
		config.Logger.Fatal("Cannot open product search index", zap.Error(err))
	}
	defer searchIndex.Close()

	// Websocket hub for live import progress.
	hub := ws.NewHub()
	go hub.Run()
	wsHandler := ws.NewWsHandler(hub)

	importRunRepo := repositories.NewImportRunRepository(db)
	importService := services.NewImportService(client, importRunRepo, hub, searchIndex, config.Logger)
	orderViews := orderservices.NewOrderViewService(client, redisClient, config.Logger)

	// Worker for queued imports.
	importHandler := tasks.NewImportTaskHandler(importService, config.Logger)
	worker := tasks.StartWorker(asynqRedisOpt, importHandler, config.Logger)
	defer worker.Shutdown()

	app := fiber.New(fiber.Config{
		AppName:   "inventory-gateway-backend",
		BodyLimit: 20 * 1024 * 1024,
	})
	middleware.InitCors(app)

	app.Static("/public", "./public")

	app.Get("/ws", wsHandler.HandleWebSocket)

	productroutes.ProductRouterInit(app, client, importService, importRunRepo, searchIndex, asynqClient)
	referenceroutes.ReferenceRouterInit(app, client)
	orderroutes.OrderRouterInit(app, orderViews)
	dealroutes.DealRouterInit(app, client)
	searchroutes.SearchRouterInit(app, searchIndex)

	go utils.RunScheduledCleanup(redisClient)

	config.Logger.Info("Starting inventory gateway", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Fatal("Server stopped", zap.Error(err))
	}
}
