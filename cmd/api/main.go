package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/afero"

	"github.com/hszk-dev/linkedin-dl/internal/api/handler"
	"github.com/hszk-dev/linkedin-dl/internal/api/middleware"
	"github.com/hszk-dev/linkedin-dl/internal/clock"
	"github.com/hszk-dev/linkedin-dl/internal/config"
	"github.com/hszk-dev/linkedin-dl/internal/extractor"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/cache"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/scratch"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/upstream"
	"github.com/hszk-dev/linkedin-dl/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.LogLevel,
	}))
	slog.SetDefault(logger)

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Scratch.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}

	clk := clock.System{}

	ytdlp := extractor.NewYtDlp(extractor.YtDlpConfig{
		BinaryPath:      cfg.Extractor.BinaryPath,
		ExtractTimeout:  cfg.Extractor.ExtractTimeout,
		DownloadTimeout: cfg.Extractor.DownloadTimeout,
	})
	media := upstream.NewClient(upstream.ClientConfig{
		UserAgent:      cfg.Upstream.UserAgent,
		ProbeTimeout:   cfg.Upstream.ProbeTimeout,
		ConnectTimeout: cfg.Upstream.ConnectTimeout,
		AllowedHosts:   cfg.HTTP.ProxyAllowedHosts,
	})
	reaper := scratch.NewReaper(fs, scratch.ReaperConfig{
		Dir:      cfg.Scratch.Dir,
		Interval: cfg.Scratch.CleanupInterval,
		Clock:    clk,
		Logger:   logger,
	})

	videoService := usecase.NewCachedVideoService(
		usecase.NewVideoService(ytdlp, media),
		cache.NewMemoryVideoCache(cfg.Cache.TTL, clk),
	)
	downloadService := usecase.NewDownloadService(videoService, ytdlp, fs, usecase.DownloadServiceConfig{
		ScratchDir: cfg.Scratch.Dir,
	})

	r := setupRouter(logger, routerDeps{
		videos:      handler.NewVideoHandler(videoService, downloadService, reaper, cfg.HTTP.AllowedHost),
		proxy:       handler.NewProxyHandler(media, cfg.HTTP.ProxyAllowedHosts),
		corsOrigins: cfg.HTTP.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.Int("port", cfg.Server.Port),
			slog.String("scratch_dir", cfg.Scratch.Dir),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type routerDeps struct {
	videos      *handler.VideoHandler
	proxy       *handler.ProxyHandler
	corsOrigins []string
}

func setupRouter(logger *slog.Logger, deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: deps.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length", middleware.RequestIDHeader},
	}).Handler)

	r.Get("/", handler.Index)
	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", deps.videos.Extract)
		r.Post("/download", deps.videos.Download)
		r.Get("/download-proxy", deps.proxy.Stream)
	})

	return r
}
