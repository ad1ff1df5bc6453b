package profile

import (
	"context"
	"fmt"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/node"
)

// Publish signs p as a kind-0 event and publishes it to the node, both the
// event and its envelope being signed by signer.
func Publish(
	ctx context.Context,
	client *node.Client,
	nodeURL string,
	signer nostrnode.Signer,
	p Profile,
	createdAt nostrnode.Timestamp,
) (nostrnode.Ack, error) {
	tmpl, err := p.Template(createdAt)
	if err != nil {
		return nostrnode.Ack{}, err
	}

	resp, err := client.SignAndSubmit(ctx, nodeURL, signer, tmpl)
	if err != nil {
		return nostrnode.Ack{}, err
	}

	ack, err := resp.Ack()
	if err != nil {
		return ack, &node.MalformedResponseError{URL: nodeURL, Err: err}
	}
	if !ack.OK() {
		return ack, fmt.Errorf("node refused profile: %s %s", ack.Status, ack.Message)
	}
	return ack, nil
}

// Fetch asks the node for the latest profile of author. The returned event is
// checked to be correctly signed by author. ok is false when the node has none.
func Fetch(
	ctx context.Context,
	client *node.Client,
	nodeURL string,
	signer nostrnode.Signer,
	author nostrnode.PubKey,
) (p Profile, evt nostrnode.Event, ok bool, err error) {
	resp, err := client.Submit(ctx, nodeURL, signer, nostrnode.CommandGetEvent, map[string]any{
		"author": author.Hex(),
		"kind":   nostrnode.KindProfileMetadata,
	})
	if err != nil {
		return p, evt, false, err
	}

	ack, err := resp.Ack()
	if err != nil {
		return p, evt, false, &node.MalformedResponseError{URL: nodeURL, Err: err}
	}
	if ack.Status == nostrnode.StatusNotFound {
		return p, evt, false, nil
	}
	if ack.Event == nil {
		return p, evt, false, &node.MalformedResponseError{URL: nodeURL, Err: fmt.Errorf("status %s without event", ack.Status)}
	}

	evt = *ack.Event
	if !evt.Verify() || evt.PubKey != author {
		return p, evt, false, fmt.Errorf("node returned a profile event that isn't signed by %s", author.Hex())
	}

	p, err = ParseMetadata(evt)
	if err != nil {
		return p, evt, false, &node.MalformedResponseError{URL: nodeURL, Err: err}
	}
	return p, evt, true, nil
}
