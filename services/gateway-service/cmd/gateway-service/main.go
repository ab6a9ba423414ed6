package main

import (
	"context"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/courtbook/libs/auth"
	"github.com/md-rashed-zaman/courtbook/libs/config"
	"github.com/md-rashed-zaman/courtbook/libs/httpx"
	"github.com/md-rashed-zaman/courtbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/courtbook/libs/otel"
	"github.com/md-rashed-zaman/courtbook/libs/runtime"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/bookingapi"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/events"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/handlers"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/idempotency"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(cfg.ServiceName)

	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.ServiceName))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	bookingAPI, err := bookingapi.NewClient(cfg.BookingURL, bookingapi.Options{Timeout: cfg.BookingTimeout})
	if err != nil {
		panic(err)
	}
	checks := []runtime.ReadyCheck{{Name: "booking-api", Check: bookingAPI.Ping}}

	var (
		rdb         *redis.Client
		store       idempotency.Store
		rateLimitMW httpx.Middleware
	)
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		redisStore := idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL, cfg.IdempotencyPrefix)
		store = redisStore
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: redisStore.ReadyCheck})

		rl := httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, cfg.RateLimitPrefix)
		rateLimitMW = rl.Middleware(logger, config.IsTruthy(cfg.RateLimitFailOpen))
		logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMinute, "redis_addr", addr)
	} else {
		store = idempotency.NewMemoryStore(cfg.IdempotencyTTL)
		rl := httpx.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", cfg.RateLimitPerMinute)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if strings.TrimSpace(cfg.KafkaBrokers) != "" {
		kp, err := events.NewKafkaPublisher(logger, events.KafkaConfig{Brokers: cfg.KafkaBrokers})
		if err != nil {
			panic(err)
		}
		defer func() { _ = kp.Close() }()
		publisher = kp
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
	} else {
		logger.Info("kafka not configured, reservation events disabled")
	}

	var jwksClient *auth.JWKSClient
	if cfg.JWKSURL != "" {
		jwksClient = auth.NewJWKSClient(cfg.JWKSURL, time.Duration(cfg.JWKSCacheSeconds)*time.Second)
	}

	mux := runtime.NewBaseMuxWithReady(checks...)
	registerRoutes(mux, routes{
		schedule: handlers.NewScheduleHandler(runtime.SystemClock, cfg.location),
		reservations: handlers.NewReservationHandler(bookingAPI, store, publisher, logger, handlers.ReservationOptions{
			Spelling: cfg.spelling,
			Now:      runtime.SystemClock,
			Location: cfg.location,
		}),
		verifier:   auth.Verifier{Secret: cfg.JWTSecret, JWKS: jwksClient},
		authURL:    mustParseURL(cfg.AuthURL),
		bookingURL: bookingAPI.BaseURL(),
		adminURL:   mustParseURL(cfg.AdminURL),
	})

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   config.List(cfg.CORSAllowedOrigins),
			AllowedMethods:   config.List(cfg.CORSAllowedMethods),
			AllowedHeaders:   config.List(cfg.CORSAllowedHeaders),
			ExposedHeaders:   config.List(cfg.CORSExposedHeaders),
			AllowCredentials: config.IsTruthy(cfg.CORSAllowCredentials),
			MaxAge:           time.Duration(cfg.CORSMaxAgeSeconds) * time.Second,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger, "/healthz", "/readyz"),
		httpx.WithRecover(logger),
		httpx.WithBodyLimit(cfg.BodyLimitBytes),
		httpx.WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "gateway")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "court_timezone", cfg.location.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
