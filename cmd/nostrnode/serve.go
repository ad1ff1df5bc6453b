package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/nip19"
	"fiatjaf.com/nostrnode/nodeserver"
	"github.com/urfave/cli/v3"
)

var serve = &cli.Command{
	Name:        "serve",
	Usage:       "runs a node in memory",
	Description: "serves /identity and /entrypoint, storing published events in memory. meant for development and testing.",
	Flags: []cli.Flag{
		secFlag,
		&cli.StringFlag{
			Name:  "addr",
			Usage: "address to listen on",
			Value: "127.0.0.1:3334",
		},
		&cli.BoolFlag{
			Name:  "npub",
			Usage: "serve the identity as an npub instead of hex",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		sk, err := nip19.ParseSecretKey(c.String("sec"))
		if err != nil {
			return err
		}

		n, err := nodeserver.NewNode(sk)
		if err != nil {
			return err
		}
		n.Logger = log
		n.ServeNpub = c.Bool("npub")
		n.OnEventSaved = func(ctx context.Context, evt nostrnode.Event) {
			log.Info().Str("id", evt.ID.Hex()).Str("kind", evt.Kind.String()).Str("author", nip19.EncodeNpub(evt.PubKey)).
				Time("created_at", evt.CreatedAt.Time()).Msg("saved")
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := &http.Server{
			Addr:              c.String("addr"),
			Handler:           n.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()

		log.Info().Str("addr", server.Addr).Str("npub", nip19.EncodeNpub(n.PublicKey)).Msg("node running")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
