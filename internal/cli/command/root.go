package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkdrop-go/internal/cli/config"
	"github.com/yndnr/linkdrop-go/internal/cli/output"
	"github.com/yndnr/linkdrop-go/internal/infra/buildinfo"
	"github.com/yndnr/linkdrop-go/internal/telemetry/logger"
)

const settingsKey = "settings"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "linkdrop-cli",
		Usage:   "Manage single-use download links",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			TokenCommand(),
			HealthCommand(),
			ConfigCommand(),
		},
		Before: loadSettings,
	}
}

// globalFlags returns the global CLI flags. Unset flags fall back to the
// CLI config file and LINKDROP_CLI_* variables.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "cli-config",
			Usage: "CLI config file (default ~/.linkdrop/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Server configuration file naming the token store",
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Server URL (e.g., http://localhost:5000)",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Public URL that issued links are built on",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log store activity to stderr",
		},
	}
}

// settings is the resolved per-invocation configuration.
type settings struct {
	cli    *config.CLIConfig
	format output.Format
	wide   bool
	logger *slog.Logger
}

func loadSettings(c *cli.Context) error {
	base, err := config.Load(c.String("cli-config"))
	if err != nil {
		return err
	}

	merged := config.Merge(base, config.Environ(), map[string]string{
		"server":   c.String("server"),
		"base-url": c.String("base-url"),
		"output":   c.String("output"),
		"config":   c.String("config"),
	})

	format, err := output.ParseFormat(merged.Output)
	if err != nil {
		return err
	}

	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "text", Output: errWriter(c)})
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = &settings{
		cli:    merged,
		format: format,
		wide:   c.Bool("wide"),
		logger: log,
	}
	return nil
}

func getSettings(c *cli.Context) (*settings, error) {
	if s, ok := c.App.Metadata[settingsKey].(*settings); ok {
		return s, nil
	}
	return nil, fmt.Errorf("cli settings not loaded")
}

// render writes data to the app's stdout in the selected format.
func render(c *cli.Context, s *settings, data any) error {
	return output.NewFormatter(s.format, s.wide).Format(outWriter(c), data)
}

func outWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
