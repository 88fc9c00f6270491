package config

import "time"

// ServerConfig is the root configuration for linkdrop-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server" yaml:"server" json:"server"`
	Storage  StorageSection  `koanf:"storage" yaml:"storage" json:"storage"`
	Download DownloadSection `koanf:"download" yaml:"download" json:"download"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
	Metrics  MetricsSection  `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP            HTTPConfig      `koanf:"http" yaml:"http" json:"http"`
	ShutdownTimeout time.Duration   `koanf:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	RateLimit       RateLimitConfig `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr              string        `koanf:"addr" yaml:"addr" json:"addr"`
	TLSCertFile       string        `koanf:"tls_cert_file" yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile        string        `koanf:"tls_key_file" yaml:"tls_key_file" json:"tls_key_file"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout" json:"read_header_timeout"`
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `koanf:"trust_proxy" yaml:"trust_proxy" json:"trust_proxy"`
}

// RateLimitConfig configures per-client rate limiting. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" yaml:"rps" json:"rps"`
	Burst int     `koanf:"burst" yaml:"burst" json:"burst"`
}

// StorageSection configures the token store.
type StorageSection struct {
	// Engine is "file" or "badger".
	Engine string `koanf:"engine" yaml:"engine" json:"engine"`
	// TokensFile is the JSON document used by the file engine.
	TokensFile string `koanf:"tokens_file" yaml:"tokens_file" json:"tokens_file"`
	// DataDir is the directory used by the badger engine.
	DataDir string        `koanf:"data_dir" yaml:"data_dir" json:"data_dir"`
	Badger  BadgerSection `koanf:"badger" yaml:"badger" json:"badger"`
}

// BadgerSection tunes the badger engine.
type BadgerSection struct {
	GCInterval  time.Duration `koanf:"gc_interval" yaml:"gc_interval" json:"gc_interval"`
	GCThreshold float64       `koanf:"gc_threshold" yaml:"gc_threshold" json:"gc_threshold"`
	SyncWrites  bool          `koanf:"sync_writes" yaml:"sync_writes" json:"sync_writes"`
}

// DownloadSection configures served files.
type DownloadSection struct {
	// Dir is created at startup. Links may point anywhere, but issued
	// files conventionally live here.
	Dir string `koanf:"dir" yaml:"dir" json:"dir"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool `koanf:"enabled" yaml:"enabled" json:"enabled"`
}
