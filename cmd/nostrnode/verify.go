package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"fiatjaf.com/nostrnode"
	"github.com/urfave/cli/v3"
)

var verify = &cli.Command{
	Name:        "verify",
	ArgsUsage:   "[<event-json>]",
	Usage:       "checks ids and signatures of events",
	Description: "takes an event as an argument or a stream of events from stdin and prints the id of each valid one. exits with an error if any is invalid.",
	Action: func(ctx context.Context, c *cli.Command) error {
		invalid := 0
		for line := range getStdinLinesOrFirstArgument(c) {
			var evt nostrnode.Event
			if err := evt.UnmarshalJSON([]byte(line)); err != nil {
				fmt.Fprintf(os.Stderr, "invalid event '%s': %s\n", line, err)
				invalid++
				continue
			}
			if !evt.Verify() {
				fmt.Fprintf(os.Stderr, "bad id or signature: %s\n", evt.ID.Hex())
				invalid++
				continue
			}
			fmt.Println(evt.ID.Hex())
		}

		if invalid > 0 {
			return fmt.Errorf("%d invalid events", invalid)
		}
		return nil
	},
}

func getStdinLinesOrFirstArgument(c *cli.Command) chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		if arg := c.Args().First(); arg != "" {
			ch <- arg
			return
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 16*1024*1024), 256*1024*1024)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				ch <- line
			}
		}
	}()
	return ch
}
