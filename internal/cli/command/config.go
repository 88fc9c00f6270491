package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkdrop-go/internal/cli/output"
	"github.com/yndnr/linkdrop-go/internal/infra/confloader"
	serverconfig "github.com/yndnr/linkdrop-go/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the server configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration (defaults, file and environment merged)",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Check the configuration and create the directories it names",
				Action: configValidate,
			},
		},
	}
}

func loadServerConfig(s *settings) (*serverconfig.ServerConfig, error) {
	cfg := serverconfig.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(s.cli.ServerConfig))
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configShow(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	cfg, err := loadServerConfig(s)
	if err != nil {
		return err
	}

	// Nested sections have no useful table form.
	format := s.format
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format, s.wide).Format(outWriter(c), cfg)
}

func configValidate(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	cfg, err := loadServerConfig(s)
	if err != nil {
		return err
	}
	if err := serverconfig.Verify(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	source := s.cli.ServerConfig
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(outWriter(c), "configuration is valid: %s\n", source)
	return nil
}
