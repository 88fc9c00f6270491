package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/yndnr/linkdrop-go/internal/core/service"
	"github.com/yndnr/linkdrop-go/internal/infra/buildinfo"
	"github.com/yndnr/linkdrop-go/internal/infra/confloader"
	"github.com/yndnr/linkdrop-go/internal/infra/shutdown"
	"github.com/yndnr/linkdrop-go/internal/server/config"
	"github.com/yndnr/linkdrop-go/internal/server/httpserver"
	"github.com/yndnr/linkdrop-go/internal/storage"
	"github.com/yndnr/linkdrop-go/internal/telemetry/logger"
	"github.com/yndnr/linkdrop-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", os.Getenv("LINKDROP_CONFIG"), "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("linkdrop-server %s\n", buildinfo.String())
		return nil
	}

	loader := confloader.NewLoader(confloader.WithConfigFile(*configFile))
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting linkdrop-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Info("configuration loaded", config.LogAttrs(cfg)...)

	metrics := metric.Global()

	storeCfg := config.StoreConfig(&cfg.Storage)
	storeCfg.Logger = log
	storeCfg.Metrics = metrics
	store, err := storage.Open(storeCfg)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	metrics.MustRegister(metric.NewTokenCollector(func(ctx context.Context) (int, error) {
		return storage.Count(ctx, store)
	}))

	downloads := service.NewDownloadService(store, metrics, log)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Downloads:      downloads,
		Logger:         log,
		Metrics:        metrics,
		MetricsEnabled: cfg.Metrics.Enabled,
		EnableAudit:    true,
		RateLimit: httpserver.RateLimitConfig{
			RPS:        cfg.Server.RateLimit.RPS,
			Burst:      cfg.Server.RateLimit.Burst,
			TrustProxy: cfg.Server.HTTP.TrustProxy,
		},
	})

	srv := httpserver.New(httpserver.Config{
		Addr:              cfg.Server.HTTP.Addr,
		TLSCertFile:       cfg.Server.HTTP.TLSCertFile,
		TLSKeyFile:        cfg.Server.HTTP.TLSKeyFile,
		ReadHeaderTimeout: cfg.Server.HTTP.ReadHeaderTimeout,
	}, router)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	// Hooks run in reverse: stop accepting requests before closing the store.
	shutdownHandler.OnShutdown("token store", func(context.Context) error {
		return store.Close()
	})
	shutdownHandler.OnShutdown("http server", srv.Shutdown)

	if *configFile != "" {
		stop, err := watchConfig(loader, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error { return stop() })
		}
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			"addr", cfg.Server.HTTP.Addr,
			"tls", cfg.Server.HTTP.TLSCertFile != "")
		err := srv.ListenAndServe()
		if err != nil {
			log.Error("HTTP server error", "error", err)
			cancel(err)
		}
		serveErr <- err
	}()

	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	if err := <-serveErr; err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads defaults, the config file and the environment, then validates.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig applies log.level changes from the config file at runtime.
// Other settings need a restart.
func watchConfig(loader *confloader.Loader, log *slog.Logger) (func() error, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(loader.FilePath()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		next := config.Default()
		if err := loader.Reload(next); err != nil {
			log.Warn("config reload failed, keeping current settings", "file", path, "error", err)
			return
		}
		if !logger.ValidLevel(next.Log.Level) {
			log.Warn("ignoring invalid log level", "level", next.Log.Level)
			return
		}
		if next.Log.Level != logger.GetLevel() {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "level", next.Log.Level)
		}
	})
	w.StartAsync()
	return w.Stop, nil
}
