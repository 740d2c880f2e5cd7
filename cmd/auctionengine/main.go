package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/auctionengine/internal/config"
	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/engine"
	"github.com/efreitasn/auctionengine/internal/feed"
	"github.com/efreitasn/auctionengine/internal/handler"
	"github.com/efreitasn/auctionengine/internal/logging"
	"github.com/efreitasn/auctionengine/internal/service"
	"github.com/efreitasn/auctionengine/internal/simulator"
	"github.com/efreitasn/auctionengine/internal/store"
	"github.com/efreitasn/auctionengine/internal/telemetry"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, logCloser := logging.New(cfg, os.Stdout)
	defer logCloser.Close()
	slog.SetDefault(logger)

	// Stores.
	orderStore := store.NewOrderStore()
	fillStore := store.NewFillStore()
	symbols := domain.NewSymbolRegistry()

	// Observers of the engine's event stream.
	hub := feed.NewHub(logger)
	metrics := telemetry.NewMetrics()
	metrics.Gauge("feed_clients", "Connected feed clients.", hub.Clients)
	metrics.Gauge("orders_stored", "Orders held in the order index.", orderStore.Count)

	// Engine. The fill store is an observer so the tape is written in
	// pass order.
	eng := engine.New(cfg.NumShards, cfg.CompactFilled,
		fillStore,
		engine.NewLogObserver(logger),
		hub,
		metrics,
	)

	// Services.
	orderSvc := service.NewOrderService(eng, orderStore, symbols)
	stockSvc := service.NewStockService(eng, fillStore, cfg.VWAPWindow, symbols)

	// Router.
	router := handler.NewRouter(orderSvc, stockSvc, hub, metrics.Handler(), cfg.CORSOrigins, logger)

	// Background workers share a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	if cfg.Simulator.Enabled {
		gen := simulator.NewGenerator(cfg.Simulator, orderSvc, nil, logger)
		gen.Start(ctx)
		logger.Info("simulator started",
			slog.Duration("interval", cfg.Simulator.Interval),
			slog.Any("tickers", cfg.Simulator.Tickers),
		)
	}

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.Int("shards", eng.NumShards()),
			slog.Bool("compact_filled", cfg.CompactFilled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, then cancel the simulator and feed.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
