package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/vesting/internal/batch"
	"github.com/mmynk/vesting/internal/config"
	"github.com/mmynk/vesting/internal/ledger"
	"github.com/mmynk/vesting/internal/metrics"
	"github.com/mmynk/vesting/internal/middleware"
	"github.com/mmynk/vesting/internal/service"
	"github.com/mmynk/vesting/internal/storage"
	"github.com/mmynk/vesting/internal/storage/memory"
	"github.com/mmynk/vesting/internal/storage/sqlite"
	"github.com/mmynk/vesting/pkg/api"
	"github.com/mmynk/vesting/pkg/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Configure(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	store, err := openStore(cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver, "database", cfg.Storage.Path)

	m := metrics.New()
	svc := service.NewVestingService(ledger.New(store),
		service.WithValidator(batch.NewValidator(batch.WithDecimals(cfg.Token.Decimals))),
		service.WithMetrics(m),
	)

	mux := http.NewServeMux()

	// Register Connect services
	path, handler := api.NewVestingServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor(m)),
	)
	mux.Handle(path, handler)

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, m.Handler())
		slog.Info("Metrics enabled", "path", cfg.Metrics.Path)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr),
		"token_decimals", cfg.Token.Decimals)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// loggingMiddleware logs all incoming HTTP requests at debug level; RPC
// outcomes are logged by the Connect interceptor.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
