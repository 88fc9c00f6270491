package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/linkdrop-go/internal/storage"
	"github.com/yndnr/linkdrop-go/internal/telemetry/logger"
)

// Verify validates the configuration and creates the directories it names.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyDownload(&cfg.Download); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err)
	}

	cert, key := cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile
	if (cert == "") != (key == "") {
		return errors.New("server.http.tls_cert_file and server.http.tls_key_file must be set together")
	}
	for name, path := range map[string]string{"tls_cert_file": cert, "tls_key_file": key} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("server.http.%s: %w", name, err)
		}
	}

	if cfg.HTTP.ReadHeaderTimeout <= 0 {
		return errors.New("server.http.read_header_timeout must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if cfg.RateLimit.RPS < 0 {
		return errors.New("server.rate_limit.rps must not be negative")
	}
	if cfg.RateLimit.Burst < 0 {
		return errors.New("server.rate_limit.burst must not be negative")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Engine {
	case storage.EngineFile:
		if cfg.TokensFile == "" {
			return errors.New("storage.tokens_file is required")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.TokensFile), 0750); err != nil {
			return errors.New("cannot create tokens directory: " + err.Error())
		}
	case storage.EngineBadger:
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required")
		}
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return errors.New("cannot create data directory: " + err.Error())
		}
		if cfg.Badger.GCThreshold <= 0 || cfg.Badger.GCThreshold >= 1 {
			return errors.New("storage.badger.gc_threshold must be between 0 and 1")
		}
		if cfg.Badger.GCInterval <= 0 {
			return errors.New("storage.badger.gc_interval must be positive")
		}
	default:
		return fmt.Errorf("storage.engine %q: must be %q or %q", cfg.Engine, storage.EngineFile, storage.EngineBadger)
	}
	return nil
}

func verifyDownload(cfg *DownloadSection) error {
	if cfg.Dir == "" {
		return errors.New("download.dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return errors.New("cannot create download directory: " + err.Error())
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	}
	return fmt.Errorf("log.format %q: must be json or text", cfg.Format)
}

// StoreConfig converts the storage section into a storage.Config.
func StoreConfig(cfg *StorageSection) storage.Config {
	sc := storage.DefaultConfig()
	sc.Engine = cfg.Engine
	sc.TokensFile = cfg.TokensFile
	sc.DataDir = cfg.DataDir
	if cfg.Badger.GCInterval > 0 {
		sc.Badger.GCInterval = cfg.Badger.GCInterval.String()
	}
	if cfg.Badger.GCThreshold > 0 {
		sc.Badger.GCThreshold = cfg.Badger.GCThreshold
	}
	sc.Badger.SyncWrites = cfg.Badger.SyncWrites
	return sc
}
