package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkdrop-go/internal/cli/connection"
)

type healthResult struct {
	Server  string `json:"server" yaml:"server"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that a linkdrop server is running",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 5 * time.Second,
			},
		},
		Action: healthAction,
	}
}

func healthAction(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	timeout := c.Duration("timeout")
	client := connection.NewHTTPClient(s.cli.Server, timeout)

	ctx, cancel := context.WithTimeout(c.Context, timeout)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("health check %s: %w", client.BaseURL(), err)
	}

	result := healthResult{Server: client.BaseURL()}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return fmt.Errorf("health check %s: %w", client.BaseURL(), err)
	}
	if result.Status != "ok" {
		return fmt.Errorf("server %s reports status %q", client.BaseURL(), result.Status)
	}

	return render(c, s, result)
}
