package main

import (
	"context"
	"fmt"
	"os"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/keyer"
	"fiatjaf.com/nostrnode/nip19"
	"fiatjaf.com/nostrnode/profile"
	"github.com/urfave/cli/v3"
)

var secFlag = &cli.StringFlag{
	Name:     "sec",
	Usage:    "secret key as nsec or hex",
	Sources:  cli.EnvVars("NOSTRNODE_SEC"),
	Required: true,
}

func signerFrom(c *cli.Command) nostrnode.Signer {
	return keyer.NewSourceSigner(keyer.StaticSource(c.String("sec")))
}

var publishProfile = &cli.Command{
	Name:        "publish-profile",
	ArgsUsage:   "[<node-url>]",
	Usage:       "updates your profile on the node",
	Description: "fetches the current profile from the node, applies the given changes and publishes it as a new kind 0 event.",
	Flags: []cli.Flag{
		secFlag,
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "display-name"},
		&cli.StringFlag{Name: "about"},
		&cli.StringFlag{Name: "picture"},
		&cli.StringFlag{Name: "latitude", Aliases: []string{"lat"}},
		&cli.StringFlag{Name: "longitude", Aliases: []string{"lon"}},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		u, err := nodeURL(c)
		if err != nil {
			return err
		}
		signer := signerFrom(c)
		pk, err := signer.GetPublicKey(ctx)
		if err != nil {
			return err
		}

		current, _, found, err := profile.Fetch(ctx, client, u, signer, pk)
		if err != nil {
			return fmt.Errorf("failed to fetch current profile: %w", err)
		}
		if !found {
			log.Info().Str("npub", nip19.EncodeNpub(pk)).Msg("no profile on the node yet, starting from scratch")
		}

		for flag, field := range map[string]*string{
			"name":         &current.Name,
			"display-name": &current.DisplayName,
			"about":        &current.About,
			"picture":      &current.Picture,
		} {
			if c.IsSet(flag) {
				*field = c.String(flag)
			}
		}
		if c.IsSet("latitude") || c.IsSet("longitude") {
			if !c.IsSet("latitude") || !c.IsSet("longitude") {
				return fmt.Errorf("--latitude and --longitude must be given together")
			}
			current = current.WithLocation(c.String("latitude"), c.String("longitude"))
		}

		ack, err := profile.Publish(ctx, client, u, signer, current, nostrnode.Now())
		if err != nil {
			return err
		}

		if ack.EventID != nil {
			fmt.Println(ack.EventID.Hex())
		}
		log.Info().Str("status", ack.Status).Msg("profile published")
		return nil
	},
}

var publish = &cli.Command{
	Name:        "publish",
	ArgsUsage:   "[<event-json>]",
	Usage:       "relays signed events to the node",
	Description: "takes an event as an argument or a stream of events from stdin. events can be signed by anyone, the envelope carrying each of them is signed with --sec.",
	Flags: []cli.Flag{
		secFlag,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		u := c.String("node")
		if u == "" {
			return fmt.Errorf("missing node url, use --node or NOSTRNODE_NODE")
		}
		signer := signerFrom(c)

		hasError := false
		for line := range getStdinLinesOrFirstArgument(c) {
			var evt nostrnode.Event
			if err := evt.UnmarshalJSON([]byte(line)); err != nil {
				fmt.Fprintf(os.Stderr, "invalid event '%s': %s\n", line, err)
				hasError = true
				continue
			}

			resp, err := client.PublishEvent(ctx, u, signer, evt)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to publish %s: %s\n", evt.ID.Hex(), err)
				hasError = true
				continue
			}

			ack, err := resp.Ack()
			if err != nil || !ack.OK() {
				fmt.Fprintf(os.Stderr, "node didn't accept %s: %s\n", evt.ID.Hex(), resp.Event.Content)
				hasError = true
				continue
			}
			fmt.Fprintf(os.Stderr, "%s %s\n", ack.Status, evt.ID.Hex())
		}

		if hasError {
			return exitError{code: 123, msg: "some events were not published"}
		}
		return nil
	},
}
