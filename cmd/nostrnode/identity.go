package main

import (
	"context"
	"fmt"

	"fiatjaf.com/nostrnode/nip19"
	"github.com/urfave/cli/v3"
)

var identity = &cli.Command{
	Name:        "identity",
	ArgsUsage:   "[<node-url>]",
	Usage:       "discovers and pins the public key of a node",
	Description: "the key is trusted on first use: whatever the node answers becomes the pinned identity for its url.\nuse --pin to set a key learned out of band instead, or --forget to drop the pin.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "pin",
			Usage: "npub or hex key to pin without asking the node",
		},
		&cli.BoolFlag{
			Name:  "forget",
			Usage: "remove the pinned identity",
		},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		u, err := nodeURL(c)
		if err != nil {
			return err
		}

		switch {
		case c.Bool("forget"):
			return client.Forget(u)
		case c.String("pin") != "":
			pk, err := nip19.ParsePubKey(c.String("pin"))
			if err != nil {
				return err
			}
			return client.Pin(u, pk)
		}

		pk, err := client.DiscoverIdentity(ctx, u)
		if err != nil {
			return err
		}

		fmt.Println(pk.Hex())
		fmt.Println(nip19.EncodeNpub(pk))
		return nil
	},
}
