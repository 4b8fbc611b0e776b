package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"snatchx.shop/storefront/internal/router"
	"snatchx.shop/storefront/pkg/ai"
	"snatchx.shop/storefront/pkg/auth"
	"snatchx.shop/storefront/pkg/catalog"
	"snatchx.shop/storefront/pkg/clock"
	"snatchx.shop/storefront/pkg/config"
	"snatchx.shop/storefront/pkg/discount"
	"snatchx.shop/storefront/pkg/logger"
	"snatchx.shop/storefront/pkg/models"
	"snatchx.shop/storefront/pkg/mongo"
	"snatchx.shop/storefront/pkg/orders"
	"snatchx.shop/storefront/pkg/redis"
	"snatchx.shop/storefront/pkg/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zl, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	os.Exit(finish(zl, run(cfg, zl)))
}

// finish logs the outcome of run and flushes the logger before the process
// exits, returning the exit code
func finish(zl *zap.Logger, err error) int {
	code := 0
	if err != nil {
		zl.Error("application terminated with error", zap.Error(err))
		code = 1
	}
	_ = zl.Sync()
	return code
}

func run(cfg *config.Config, zl *zap.Logger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)
	zl.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	if err := mongo.EnsureIndexes(connectCtx, db, zl); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	redisClient, err := redis.NewClient(connectCtx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	zl.Info("connected to Redis", zap.String("address", cfg.RedisAddress))

	kvStore := redis.NewStore(redisClient, cfg.RedisNamespace)
	clk := clock.Real{Location: cfg.Zone()}

	catalogReader := catalog.NewCached(
		catalog.NewClient(cfg.CatalogURL),
		redis.NewProductCache(redisClient, cfg.RedisNamespace, cfg.CatalogCacheTTL),
		zl,
	)

	quoter := &discount.Quoter{
		Deriver: discount.NewDeriver(kvStore, zl.Named("discount")),
		Pricing: discount.NewPricing(discount.DefaultConversionRate),
	}

	backends := &store.Backends{
		LocalCart:      store.NewLocalRepository[models.LineItem](kvStore, store.CartKeyPrefix),
		RemoteCart:     mongo.NewCartRepository(db),
		LocalWishlist:  store.NewLocalRepository[models.Product](kvStore, store.WishlistKeyPrefix),
		RemoteWishlist: mongo.NewWishlistRepository(db),
		Handoff:        cfg.Handoff(),
		Logger:         zl,
	}

	orderRepo := mongo.NewOrderRepository(db)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.JWTSecret == "" {
		zl.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}
	authService := auth.NewService(mongo.NewUserRepository(db), tokens, zl)

	h := router.NewHandler(router.Deps{
		Catalog:  catalogReader,
		Quoter:   quoter,
		Stores:   backends,
		Recorder: orders.NewRecorder(orderRepo, quoter, clk, zl),
		Spending: orderRepo,
		Auth:     authService,
		Insights: ai.NewClient(ai.Config{
			Endpoint:   cfg.AzureOpenAIEndpoint,
			APIKey:     cfg.AzureOpenAIAPIKey,
			Deployment: cfg.AzureOpenAIDeployment,
		}, zl),
		Clock: clk,
		Ping: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
		Logger: zl,
	})

	engine := router.NewEngine(router.EngineConfig{
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
	}, h, authService, zl)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zl.Info("server is running", zap.String("addr", cfg.RunAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		zl.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		zl.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
