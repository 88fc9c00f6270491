// Package config provides server configuration for linkdrop.
//
// ServerConfig holds every tunable of linkdrop-server. Default returns the
// built-in values, Verify validates a loaded configuration and prepares the
// directories it names, and LogAttrs summarizes it for the startup log.
//
// Configuration is loaded via internal/infra/confloader from defaults, an
// optional YAML file and LINKDROP_* environment variables.
package config
