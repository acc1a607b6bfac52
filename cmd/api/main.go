package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/premiumretail/retailer-platform-backend/api/routes"
	"github.com/premiumretail/retailer-platform-backend/internal/applications"
	"github.com/premiumretail/retailer-platform-backend/internal/auth"
	"github.com/premiumretail/retailer-platform-backend/internal/billing"
	"github.com/premiumretail/retailer-platform-backend/internal/contact"
	"github.com/premiumretail/retailer-platform-backend/internal/orders"
	"github.com/premiumretail/retailer-platform-backend/internal/payments"
	"github.com/premiumretail/retailer-platform-backend/internal/products"
	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/db"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
	"github.com/premiumretail/retailer-platform-backend/pkg/migrate"
	"github.com/premiumretail/retailer-platform-backend/pkg/redis"
	"github.com/premiumretail/retailer-platform-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	proofStore, err := local.New(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	authService, err := auth.NewService(auth.NewRepository(gdb), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	applicationService, err := applications.NewService(applications.NewRepository(gdb), dbClient, cfg.Auth)
	if err != nil {
		logg.Error(context.Background(), "failed to create application service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(gdb)
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderRepo := orders.NewRepository(gdb)
	orderService, err := orders.NewService(orderRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.NewRepository(gdb), orderRepo, proofStore, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.NewRepository(gdb), orderRepo, dbClient, cfg.Billing)
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(contact.NewRepository(gdb), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			applicationService,
			productService,
			orderService,
			paymentService,
			billingService,
			contactService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
