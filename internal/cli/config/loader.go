package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Merge.
const (
	EnvServer       = "LINKDROP_CLI_SERVER"
	EnvBaseURL      = "LINKDROP_CLI_BASE_URL"
	EnvOutput       = "LINKDROP_CLI_OUTPUT"
	EnvServerConfig = "LINKDROP_CONFIG"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".linkdrop", "cli.yaml")
	}
	return filepath.Join(homeDir, ".linkdrop", "cli.yaml")
}

// Load reads the CLI configuration. A missing file yields Default.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the CLI configuration with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create cli config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cli config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cli config: %w", err)
	}
	return nil
}

// Merge applies environment overrides, then flag overrides, on top of cfg.
// Empty values are ignored. Flag keys are server, base-url, output and config.
func Merge(cfg *CLIConfig, env map[string]string, flags map[string]string) *CLIConfig {
	out := *cfg

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&out.Server, env[EnvServer])
	set(&out.BaseURL, env[EnvBaseURL])
	set(&out.Output, env[EnvOutput])
	set(&out.ServerConfig, env[EnvServerConfig])

	set(&out.Server, flags["server"])
	set(&out.BaseURL, flags["base-url"])
	set(&out.Output, flags["output"])
	set(&out.ServerConfig, flags["config"])

	return &out
}

// Environ collects the variables Merge understands from the process environment.
func Environ() map[string]string {
	env := make(map[string]string, 4)
	for _, k := range []string{EnvServer, EnvBaseURL, EnvOutput, EnvServerConfig} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env
}
