package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghhamo/lootsy/internal/config"
	"github.com/ghhamo/lootsy/internal/repository"
	"github.com/ghhamo/lootsy/internal/seed"
	"github.com/ghhamo/lootsy/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	if err := repository.Migrate(ctx, dbPool); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// No Redis here: the services run uncached.
	userSvc := service.NewUserService(userRepo, orderRepo, nil, 0)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, nil, 0, cfg.Image.BaseURL, log)

	images := seed.NewImageStore(cfg.Image.SourceURL, cfg.Image.Folder, cfg.Image.MediumSize, cfg.Image.SmallSize)
	seeder := seed.NewSeeder(userSvc, categorySvc, productSvc, images, cfg.Image.Folder, log)

	if err := seeder.Run(ctx); err != nil {
		log.Error("seed", "error", err)
		os.Exit(1)
	}
}
