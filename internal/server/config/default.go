package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr          = "0.0.0.0:5000"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second

	DefaultStorageEngine = "file"
	DefaultTokensFile    = "tokens.json"
	DefaultDataDir       = "data/tokens"
	DefaultGCInterval    = 10 * time.Minute
	DefaultGCThreshold   = 0.5

	DefaultDownloadDir = "downloads"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:              DefaultHTTPAddr,
				ReadHeaderTimeout: DefaultReadHeaderTimeout,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Storage: StorageSection{
			Engine:     DefaultStorageEngine,
			TokensFile: DefaultTokensFile,
			DataDir:    DefaultDataDir,
			Badger: BadgerSection{
				GCInterval:  DefaultGCInterval,
				GCThreshold: DefaultGCThreshold,
				SyncWrites:  true,
			},
		},
		Download: DownloadSection{
			Dir: DefaultDownloadDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsSection{
			Enabled: true,
		},
	}
}
