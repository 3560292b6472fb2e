package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/levelup-gamer/checkout/internal/cart"
	"github.com/levelup-gamer/checkout/internal/checkout"
	"github.com/levelup-gamer/checkout/internal/events"
	"github.com/levelup-gamer/checkout/internal/httpapi"
	"github.com/levelup-gamer/checkout/internal/lifecycle"
	"github.com/levelup-gamer/checkout/internal/memory"
)

type Config struct {
	HTTPPort             string
	JWTSecret            string
	MongoURI             string
	MongoDBName          string
	RedisAddr            string
	RedisPassword        string
	OrdersServiceURL     string
	PaymentServiceURL    string
	KafkaBrokers         string
	LoyaltyDomains       []string
	ClearMemoryOnSuccess bool
	RequestTimeout       time.Duration
	ClientTimeout        time.Duration
	ShutdownTimeout      time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "cartdb"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		OrdersServiceURL:  getEnv("ORDERS_SERVICE_URL", "http://localhost:8081"),
		PaymentServiceURL: getEnv("PAYMENT_SERVICE_URL", "http://localhost:8082"),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", "localhost:9092"),
		RequestTimeout:    30 * time.Second,
		ClientTimeout:     5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
	if domains := getEnv("LOYALTY_DOMAINS", ""); domains != "" {
		cfg.LoyaltyDomains = strings.Split(domains, ",")
	}
	cfg.ClearMemoryOnSuccess = getEnv("CLEAR_MEMORY_ON_SUCCESS", "false") == "true"
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "checkoutd").Logger()

	cfg := loadConfig()
	ctx := context.Background()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("mongodb ping failed")
	}
	logger.Info().Str("uri", cfg.MongoURI).Msg("connected to mongodb")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")

	carts := cart.NewService(
		cart.NewMongoRepository(mongoClient.Database(cfg.MongoDBName).Collection("carts")),
		cart.NewRedisCache(redisClient),
		logger,
	)
	memoryStore := memory.NewRedisStore(redisClient)
	localOrders := lifecycle.NewRedisOrderStore(redisClient)

	manager := lifecycle.NewManager(
		lifecycle.NewHTTPOrdersClient(cfg.OrdersServiceURL, cfg.ClientTimeout),
		lifecycle.NewHTTPPaymentClient(cfg.PaymentServiceURL, cfg.ClientTimeout),
		localOrders,
		logger,
	)

	flows := checkout.NewFlowRegistry()
	defer flows.Close()

	service := checkout.NewService(flows, memoryStore, carts, manager, checkout.Config{
		LoyaltyDomains:       cfg.LoyaltyDomains,
		ClearMemoryOnSuccess: cfg.ClearMemoryOnSuccess,
	}, logger)

	router := httpapi.NewRouter(
		httpapi.RouterConfig{JWTSecret: cfg.JWTSecret, RequestTimeout: cfg.RequestTimeout},
		httpapi.NewCheckoutHandler(service, cfg.RequestTimeout),
		httpapi.NewCartHandler(carts, cfg.RequestTimeout),
	)

	poller := events.NewPoller(localOrders, logger, strings.Split(cfg.KafkaBrokers, ",")...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		poller.Run(pollerCtx)
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("checkout service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down checkout service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	pollerCancel()
	select {
	case <-pollerDone:
	case <-shutdownCtx.Done():
		logger.Warn().Msg("event poller did not stop in time")
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongodb disconnect failed")
	}
	logger.Info().Msg("checkout service stopped")
}
