package config

// CLIConfig is the configuration for linkdrop-cli.
type CLIConfig struct {
	// Server is the running linkdrop server queried by "health".
	Server string `yaml:"server"`

	// BaseURL prefixes the /download/{token} path printed by "token issue".
	// Empty means Server.
	BaseURL string `yaml:"base_url,omitempty"`

	// Output is the default output format: table, json or yaml.
	Output string `yaml:"output"`

	// ServerConfig is the server configuration file whose storage
	// section the token commands operate on.
	ServerConfig string `yaml:"server_config,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "http://localhost:5000",
		Output: "table",
	}
}

// LinkBase returns the URL that issued links are built on.
func (c *CLIConfig) LinkBase() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.Server
}
