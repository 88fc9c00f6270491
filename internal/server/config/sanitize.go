package config

// LogAttrs returns the configuration as slog key/value pairs for the
// startup log line. Nothing in ServerConfig is secret today; TLS key
// material is referenced by path only.
func LogAttrs(cfg *ServerConfig) []any {
	attrs := []any{
		"addr", cfg.Server.HTTP.Addr,
		"tls", cfg.Server.HTTP.TLSCertFile != "",
		"storage_engine", cfg.Storage.Engine,
		"download_dir", cfg.Download.Dir,
		"metrics", cfg.Metrics.Enabled,
		"rate_limit_rps", cfg.Server.RateLimit.RPS,
	}
	switch cfg.Storage.Engine {
	case "badger":
		attrs = append(attrs, "data_dir", cfg.Storage.DataDir)
	default:
		// "tokens_file" would be masked by the logger's key redaction.
		attrs = append(attrs, "store_file", cfg.Storage.TokensFile)
	}
	return attrs
}
