package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/ghhamo/lootsy/internal/broker"
	"github.com/ghhamo/lootsy/internal/config"
	"github.com/ghhamo/lootsy/internal/handler"
	"github.com/ghhamo/lootsy/internal/middleware"
	"github.com/ghhamo/lootsy/internal/repository"
	"github.com/ghhamo/lootsy/internal/service"
	"github.com/ghhamo/lootsy/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	if cfg.DB.Migrate {
		if err := repository.Migrate(ctx, dbPool); err != nil {
			log.Error("migrate database", "error", err)
			os.Exit(1)
		}
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ: publishing and consuming use separate channels.
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	pubCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer pubCh.Close()

	if err := broker.Setup(pubCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer consumeCh.Close()
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	shippingRepo := repository.NewShippingRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userSvc := service.NewUserService(userRepo, orderRepo, redisClient, cfg.Redis.StatsTTL)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, redisClient, cfg.Redis.ProductTTL, cfg.Image.BaseURL, log)
	cartSvc := service.NewCartService(cartRepo, productRepo, userRepo)
	shippingSvc := service.NewShippingService(shippingRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, shippingRepo, broker.NewPublisher(pubCh), log)

	// Handlers
	maxPage := cfg.Page.MaxSize
	tokenH := handler.NewTokenHandler(authSvc, log)
	userH := handler.NewUserHandler(userSvc, maxPage, log)
	categoryH := handler.NewCategoryHandler(categorySvc, log)
	productH := handler.NewProductHandler(productSvc, maxPage, log)
	cartH := handler.NewCartHandler(cartSvc, maxPage, log)
	shippingH := handler.NewShippingHandler(shippingSvc, maxPage, log)
	orderH := handler.NewOrderHandler(orderSvc, maxPage, log)
	healthH := handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": handler.PingFunc(dbPool.Ping),
		"redis":    handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		"rabbitmq": handler.PingFunc(func(context.Context) error {
			if amqpConn.IsClosed() {
				return amqp.ErrClosed
			}
			return nil
		}),
	})

	// Worker
	orderWorker := worker.NewOrderEventWorker(consumeCh, redisClient, log)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-API-KEY", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.RequestID(), middleware.RequestLogger(log))

	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.Static("/images/products", cfg.Image.Folder)

	bearer := middleware.Auth(authSvc)
	admin := middleware.AdminAPIKey(cfg.Admin.APIKey)

	api := router.Group("/api")
	{
		api.POST("/token", tokenH.Issue)

		users := api.Group("/users")
		users.POST("", userH.Create)
		authUsers := users.Group("", bearer)
		authUsers.GET("", userH.List)
		authUsers.GET("/id/:id", userH.GetByID)
		authUsers.GET("/email", userH.GetByEmail)
		authUsers.GET("/account", userH.GetAccount)
		authUsers.PUT("/account", userH.UpdateAccount)
		authUsers.DELETE("/:id", userH.Delete)

		products := api.Group("/products")
		products.GET("", productH.List)
		products.GET("/export", admin, productH.Export)
		products.GET("/by/:id", productH.GetDetails)
		products.GET("/:id", productH.GetByID)
		products.POST("", admin, productH.Create)

		categories := api.Group("/categories")
		categories.GET("", categoryH.List)
		categories.POST("", admin, categoryH.Create)

		carts := api.Group("/carts", bearer)
		carts.GET("", cartH.List)
		carts.POST("", cartH.Create)
		carts.GET("/current", cartH.Current)
		carts.POST("/add", cartH.Add)
		carts.DELETE("/remove/:productId", cartH.Remove)
		carts.DELETE("/clear", cartH.Clear)
		carts.GET("/users/:id", cartH.ByUser)

		orders := api.Group("/orders")
		orders.PATCH("/:id/status", admin, orderH.UpdateStatus)
		authOrders := orders.Group("", bearer)
		authOrders.POST("", orderH.Create)
		authOrders.GET("/user", orderH.ListForUser)
		authOrders.GET("/me", orderH.ListMine)
		authOrders.GET("/:id", orderH.GetByID)

		shippings := api.Group("/shippings", bearer)
		shippings.POST("", shippingH.Create)
		shippings.GET("", shippingH.List)
		shippings.GET("/:id", shippingH.GetByID)
		shippings.PUT("/:id", shippingH.Update)
		shippings.DELETE("/:id", shippingH.Delete)
	}

	if err := orderWorker.Start(ctx); err != nil {
		log.Error("start order worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	orderWorker.Stop()
	cancel()
	log.Info("server stopped")
}
