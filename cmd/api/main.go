package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/tgfc/som/internal/app"
	"github.com/tgfc/som/internal/bonus"
	"github.com/tgfc/som/internal/catalog"
	"github.com/tgfc/som/internal/checkout"
	"github.com/tgfc/som/internal/config"
	"github.com/tgfc/som/internal/coupon"
	"github.com/tgfc/som/internal/events"
	"github.com/tgfc/som/internal/health"
	"github.com/tgfc/som/internal/idem"
	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/obs"
	"github.com/tgfc/som/internal/order"
	"github.com/tgfc/som/internal/pricing"
	"github.com/tgfc/som/internal/ratelimit"
	"github.com/tgfc/som/internal/worktype"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, registry)
	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis unreachable")
		}
		defer func() { _ = redisClient.Close() }()
		logger.Info().Msg("redis connected")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	var guard idem.Guard
	if redisClient != nil {
		rg := idem.NewRedisGuard(redisClient)
		rg.TTL = cfg.IdempotencyTTL
		guard = rg
	} else {
		mg := idem.NewMemoryGuard(logger)
		mg.TTL = cfg.IdempotencyTTL
		mg.SweepInterval = cfg.IdempotencySweep
		group.Go(func() error { return mg.Run(groupCtx) })
		guard = mg
	}

	products := catalog.NewMemoryStore()
	seedCatalog(products)
	workTypes := worktype.NewMemoryCatalog()
	orders := order.NewMemoryStore()
	coupons := coupon.NewMemoryStoreWithSamples(time.Now())
	balances := bonus.NewMemoryBalancesWithSamples()

	bonusSvc := bonus.NewService(balances, logger)
	bonusSvc.ExchangeRate = int(cfg.BonusExchangeRate)
	bonusSvc.MinimumPoints = int(cfg.BonusMinimumPoints)

	engine := pricing.NewEngine(
		pricing.NewMemberDiscountCalculator(member.NewStaticParams(nil), products, logger),
		workTypes,
		logger,
	)

	bus := &events.Bus{
		Notifiers: []events.Notifier{
			events.LogNotifier{Logger: logger},
			events.MetricsNotifier{Counter: obs.DomainEventsTotal},
		},
	}

	svc := &checkout.Service{
		Orders:    orders,
		Seq:       orders,
		Products:  products,
		WorkTypes: workTypes,
		Engine:    engine,
		Coupons:   coupon.NewEngine(coupons, logger),
		Bonus:     bonusSvc,
		Guard:     guard,
		Events:    bus,
		Logger:    logger,
		StoreID:   cfg.StoreID,
	}
	handler := &checkout.Handler{Svc: svc, Validate: app.NewValidator()}

	limiterStore, err := app.NewLimiterStore(redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("rate limiter store")
	}
	globalLimiter, err := app.NewLimiter(limiterStore, fmt.Sprintf("%d-M", cfg.RateLimitPerMinute))
	if err != nil {
		logger.Fatal().Err(err).Msg("rate limiter")
	}

	submitGuard := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "som:rl:"},
		Config: ratelimit.Config{
			Key:    func(r *http.Request) string { return r.Method + ":" + r.URL.Path },
			Window: time.Minute,
			Max:    cfg.RateLimitPerMinute,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limit check failed")
		},
	}

	allowedOrigins := cfg.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(limiterstdlib.NewMiddleware(globalLimiter).Handler)

	healthHandler := health.Handler{}
	if redisClient != nil {
		healthHandler.Checker = readinessChecker{redis: redisClient}
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	if cfg.AppEnv != "production" {
		r.Route("/debug/pprof", func(r chi.Router) {
			r.Get("/", pprof.Index)
			r.Get("/cmdline", pprof.Cmdline)
			r.Get("/profile", pprof.Profile)
			r.Get("/symbol", pprof.Symbol)
			r.Get("/trace", pprof.Trace)
			r.Handle("/{name}", http.HandlerFunc(pprof.Index))
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(submitGuard.Middleware)
		handler.Routes(r)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Str("store_id", cfg.StoreID).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		health.SetReady(false)
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("stopped")
}

// seedCatalog loads a small demo assortment so the in-memory build is
// usable out of the box.
func seedCatalog(store *catalog.MemoryStore) {
	store.Put(catalog.Product{
		SKU:         "SKU001",
		Name:        "Refrigerator 300L",
		Category:    "appliance",
		TaxType:     money.TaxTaxable,
		MarketPrice: money.New(32000),
		ListPrice:   money.New(30000),
		Cost:        money.New(20000),
		AllowSales:  true,
		AllowHome:   true,
	})
	store.Put(catalog.Product{
		SKU:         "SKU002",
		Name:        "Air Conditioner 2.2kW",
		Category:    "appliance",
		TaxType:     money.TaxTaxable,
		MarketPrice: money.New(48000),
		ListPrice:   money.New(45000),
		Cost:        money.New(31000),
		AllowSales:  true,
		AllowDirect: true,
	})
	store.Put(catalog.Product{
		SKU:          "SKU003",
		Name:         "Washer Drum 8kg",
		Category:     "appliance",
		TaxType:      money.TaxTaxable,
		MarketPrice:  money.New(26000),
		ListPrice:    money.New(24000),
		Cost:         money.New(17000),
		AllowSales:   true,
		AllowHome:    true,
		FreeDelivery: true,
	})
}

type readinessChecker struct {
	redis *redis.Client
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(pingCtx).Err()
}
