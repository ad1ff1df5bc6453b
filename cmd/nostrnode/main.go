package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/kvstore"
	"fiatjaf.com/nostrnode/kvstore/bbolt"
	"fiatjaf.com/nostrnode/node"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

var (
	client *node.Client
	pins   kvstore.KVStore
	log    zerolog.Logger
)

var app = &cli.Command{
	Name:      "nostrnode",
	Usage:     "keep a signed profile in sync with a node",
	UsageText: "nostrnode [--node <url>] <identity|publish-profile|publish|verify|serve> ...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "node",
			Aliases: []string{"n"},
			Usage:   "node url",
			Sources: cli.EnvVars("NOSTRNODE_NODE"),
		},
		&cli.StringFlag{
			Name:    "pins",
			Usage:   "path to the database where node identities are pinned, empty to keep them in memory",
			Value:   defaultPinsPath(),
			Sources: cli.EnvVars("NOSTRNODE_PINS"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "print debug logs",
		},
	},
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		level := zerolog.InfoLevel
		if c.Bool("verbose") {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
		nostrnode.Logger = log

		opts := []node.Option{node.WithLogger(log)}
		if path := c.String("pins"); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return ctx, fmt.Errorf("failed to create directory for pins: %w", err)
			}
			store, err := bbolt.NewStore(path)
			if err != nil {
				return ctx, fmt.Errorf("failed to open pins at '%s': %w", path, err)
			}
			pins = store
			opts = append(opts, node.WithPinStore(store))
		}
		client = node.NewClient(opts...)

		return ctx, nil
	},
	After: func(ctx context.Context, c *cli.Command) error {
		if pins != nil {
			return pins.Close()
		}
		return nil
	},
	Commands: []*cli.Command{
		identity,
		publishProfile,
		publish,
		verify,
		serve,
	},
}

func defaultPinsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nostrnode", "pins.db")
}

func nodeURL(c *cli.Command) (string, error) {
	u := c.String("node")
	if u == "" {
		u = c.Args().First()
	}
	if u == "" {
		return "", fmt.Errorf("missing node url, use --node or NOSTRNODE_NODE")
	}
	return u, nil
}

// exitError makes main exit with a specific code once the After hook has run.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }

func main() {
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
