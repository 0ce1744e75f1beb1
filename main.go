package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmetics-storefront/cart"
	"cosmetics-storefront/catalog"
	"cosmetics-storefront/checkout"
	"cosmetics-storefront/config"
	"cosmetics-storefront/controllers"
	"cosmetics-storefront/pricing"
	"cosmetics-storefront/routes"
	"cosmetics-storefront/store"
	"cosmetics-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cf, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	utils.SetupLogger(cf.LogLevel, cf.LogPretty)

	if cf.JwtSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, using an insecure default")
	} else {
		utils.JwtKey = []byte(cf.JwtSecret)
	}

	ctx := context.Background()
	client, err := store.ConnectDB(ctx, cf.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	db := client.Database(cf.MongoDatabase)
	records := store.NewRecordStore(db)
	ledger := store.NewLoyaltyLedger(db)

	sessions := cart.NewSessions(cartRepository(ctx, cf))
	emailService := utils.NewEmailService(cf.PostmarkToken, cf.EmailSender, cf.PublicURL)
	checkoutService := checkout.NewService(records, ledger,
		checkout.WithNotifier(emailService),
		checkout.WithPickupAddress(cf.PickupAddress),
	)

	live := catalog.NewLive(catalog.NewSeedIndex())
	productController := controllers.NewProductController(records, live, cf.UploadDir)
	if err := productController.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("failed to load catalog, serving the seed catalog")
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		User:    controllers.NewUserController(records, emailService, checkoutService),
		Product: productController,
		Cart:    controllers.NewCartController(sessions, live, pricing.DefaultTiers),
		Order:   controllers.NewOrderController(records, sessions, checkoutService, emailService, cf.SubmitTimeout),
	}, cf.UploadDir)

	srv := &http.Server{
		Addr:              ":" + cf.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cf.Port).Msg("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cf.SubmitTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}

// cartRepository keeps carts in Redis when REDIS_ADDR is set and in
// process memory otherwise
func cartRepository(ctx context.Context, cf *config.Config) cart.Repository {
	if cf.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR not set, carts are kept in memory")
		return cart.NewMemoryRepository()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
		DB:       cf.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cf.RedisAddr).Msg("failed to connect to Redis")
	}
	log.Info().Str("addr", cf.RedisAddr).Msg("connected to Redis")
	return cart.NewRedisRepository(rdb, cf.CartTTL)
}
