package command

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/linkdrop-go/internal/cli/connection"
	"github.com/yndnr/linkdrop-go/internal/core/domain"
	"github.com/yndnr/linkdrop-go/internal/core/service"
	serverconfig "github.com/yndnr/linkdrop-go/internal/server/config"
	"github.com/yndnr/linkdrop-go/internal/storage"
	"github.com/yndnr/linkdrop-go/pkg/token"
)

// TokenCommand returns the token subcommand group.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Aliases: []string{"link"},
		Usage:   "Issue and manage download links",
		Subcommands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Issue a single-use link for a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Usage:    "File to serve, absolute or relative to the server's working directory",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Link validity",
						Value: service.DefaultTTL,
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Use this token instead of a generated one",
					},
					&cli.BoolFlag{
						Name:  "no-check",
						Usage: "Skip checking that the file exists",
					},
				},
				Action: tokenIssue,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List stored links",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show-ids",
						Usage: "Print full tokens instead of masked ones",
					},
				},
				Action: tokenList,
			},
			{
				Name:      "revoke",
				Usage:     "Invalidate a link before it is used",
				ArgsUsage: "TOKEN",
				Action:    tokenRevoke,
			},
			{
				Name:   "purge",
				Usage:  "Delete expired links",
				Action: tokenPurge,
			},
		},
	}
}

type issuedLink struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Path      string    `json:"path" yaml:"path"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

type linkRow struct {
	ID        string    `json:"id" yaml:"id"`
	Path      string    `json:"path" yaml:"path"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
	Expired   bool      `json:"expired" yaml:"expired"`
	Remaining string    `json:"remaining" yaml:"remaining" table:"wide"`
}

type removedResult struct {
	Removed int `json:"removed" yaml:"removed"`
}

// openLinks opens the store named by the server configuration. The
// returned close function must be called when done.
func openLinks(s *settings) (*service.LinkService, func() error, error) {
	cfg, err := loadServerConfig(s)
	if err != nil {
		return nil, nil, err
	}
	if err := serverconfig.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid server config: %w", err)
	}

	sc := serverconfig.StoreConfig(&cfg.Storage)
	sc.Logger = s.logger
	store, err := storage.Open(sc)
	if err != nil {
		return nil, nil, fmt.Errorf("open token store: %w", err)
	}
	return service.NewLinkService(store, s.logger), store.Close, nil
}

func tokenIssue(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	path := c.String("path")
	if !c.Bool("no-check") {
		if err := checkFile(path); err != nil {
			return err
		}
	}

	links, closeStore, err := openLinks(s)
	if err != nil {
		return err
	}
	defer closeStore()

	tok, err := links.Issue(c.Context, service.IssueRequest{
		Path: path,
		TTL:  c.Duration("ttl"),
		ID:   c.String("id"),
	})
	if err != nil {
		return err
	}

	return render(c, s, issuedLink{
		ID:        tok.ID,
		URL:       linkURL(s.cli.LinkBase(), tok.ID),
		Path:      tok.FilePath,
		ExpiresAt: tok.ExpiresAt,
	})
}

func tokenList(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	links, closeStore, err := openLinks(s)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := links.List(c.Context)
	if err != nil {
		return err
	}

	now := links.Now()
	rows := make([]linkRow, 0, len(tokens))
	for _, tok := range tokens {
		id := token.Mask(tok.ID)
		if c.Bool("show-ids") {
			id = tok.ID
		}
		rows = append(rows, linkRow{
			ID:        id,
			Path:      tok.FilePath,
			ExpiresAt: tok.ExpiresAt,
			Expired:   tok.IsExpired(now),
			Remaining: remaining(tok.ExpiresAt.Sub(now)),
		})
	}
	return render(c, s, rows)
}

func tokenRevoke(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return errors.New("token argument required")
	}

	links, closeStore, err := openLinks(s)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := links.Revoke(c.Context, id); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return fmt.Errorf("no link %s", token.Mask(id))
		}
		return err
	}
	return render(c, s, removedResult{Removed: 1})
}

func tokenPurge(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}

	links, closeStore, err := openLinks(s)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := links.Purge(c.Context)
	if err != nil {
		return err
	}
	return render(c, s, removedResult{Removed: n})
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("check file: %w (use --no-check if the path is relative to the server)", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("check file: %s is not a regular file", path)
	}
	return nil
}

func linkURL(base, id string) string {
	return strings.TrimRight(connection.NormalizeURL(base), "/") + "/download/" + url.PathEscape(id)
}

func remaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	return d.Round(time.Second).String()
}
