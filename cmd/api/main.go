package main

import (
	"context"
	"log"
	"net/http"

	"shop-service/internal/api"
	"shop-service/internal/api/handlers"
	"shop-service/internal/auth"
	"shop-service/internal/cache"
	"shop-service/internal/config"
	"shop-service/internal/database"
	"shop-service/internal/payment"
	"shop-service/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal("migrations failed: ", err)
	}

	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// Product reads go through redis when it is reachable; otherwise the
	// store answers every read directly.
	products := productRepo
	if rdb, err := cache.Connect(cfg); err != nil {
		log.Printf("redis unavailable, product cache disabled: %v", err)
	} else {
		products = cache.NewCachedProductRepository(productRepo, rdb)
	}

	gateway := payment.NewBraintree(
		cfg.BraintreeEnv,
		cfg.BraintreeMerchantID,
		cfg.BraintreePublicKey,
		cfg.BraintreePrivateKey,
	)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	router := api.NewRouter(
		handlers.NewAuthMiddleware(tokens, userRepo),
		handlers.NewAuthHandler(userRepo, orderRepo, tokens),
		handlers.NewCategoryHandler(categoryRepo),
		handlers.NewProductHandler(products, categoryRepo),
		handlers.NewCheckoutHandler(gateway, products, orderRepo),
	)

	log.Printf("server listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("server stopped: ", err)
	}
}
