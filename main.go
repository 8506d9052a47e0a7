package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"minimart/internal/auth"
	"minimart/internal/cart"
	"minimart/internal/config"
	"minimart/internal/database"
	"minimart/internal/events"
	"minimart/internal/handlers"
	"minimart/internal/middleware"
	"minimart/internal/orders"
	"minimart/internal/store"
	"minimart/internal/uploads"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.Load()
	cfg := config.AppEnv

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var backend store.Backend
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Printf("⚠️ index warning: %v", err)
		}
		backend = database.NewMongo(db)
	case config.BackendMemory:
		log.Println("[STORE] [WARN] using in-memory store, data is lost on restart")
		backend = store.NewMemory()
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	broker := events.NewBroker(64)
	var publisher events.Publisher = broker
	var carts cart.Store = cart.NewMemoryStore(cfg.CartTTL)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping %s: %v", cfg.RedisAddr, err)
		}
		log.Println("Redis connected to:", cfg.RedisAddr)

		carts = cart.NewRedisStore(rdb, "minimart", cfg.CartTTL)
		relay := events.NewRedisRelay(rdb, events.DefaultChannel, broker)
		publisher = relay
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[EVENTS] [ERROR] relay stopped: %v", err)
			}
		}()
	}

	orderService := orders.NewService(backend, backend, publisher, cfg.DeliveryFee)

	r := gin.Default()
	r.Use(middleware.RequestID())

	handlers.RegisterRoutes(r, handlers.Deps{
		Store:     backend,
		Carts:     cart.NewService(carts, backend, cfg.DeliveryFee),
		Orders:    orderService,
		Auth:      auth.NewService(backend, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.AdminDefaultUsername, cfg.AdminDefaultPassword),
		Images:    uploads.NewImageStore(cfg.UploadDir, cfg.PublicBaseURL),
		Broker:    broker,
		Publisher: publisher,
		JWTSecret: cfg.JWTSecret,
	})

	if err := serve(ctx, ":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Println("Listening on", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("Server stopped gracefully")
	return nil
}
