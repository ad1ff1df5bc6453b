package node

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"fiatjaf.com/nostrnode"
)

// Response is an authenticated node response.
type Response struct {
	// Event is the signed response, already verified against the pinned identity.
	Event nostrnode.Event

	// Result is the decoded JSON content of Event.
	Result any
}

// Decode decodes the response content into v.
func (r Response) Decode(v any) error {
	return nostrnode.JSON().UnmarshalFromString(r.Event.Content, v)
}

// Ack decodes the response content as a nostrnode.Ack.
func (r Response) Ack() (nostrnode.Ack, error) {
	var ack nostrnode.Ack
	err := r.Decode(&ack)
	return ack, err
}

// SubmitEnvelope posts a signed control envelope to {nodeURL}/entrypoint and
// returns the authenticated response.
//
// If the URL has no pinned identity it is discovered first. The response must
// be a valid event signed by the pinned identity whose first "e" tag is the
// envelope id, otherwise an *UntrustedResponseError is returned and the
// response is dropped. Its content
// must be JSON, otherwise a *MalformedResponseError is returned.
//
// Nothing is retried. A node that received the envelope may still have acted
// on it when this returns an error. Envelopes built from the same fields
// within the same second are byte-identical, since created_at has second
// granularity and signing is deterministic, so a node can't tell a resubmission
// from the original.
func (c *Client) SubmitEnvelope(ctx context.Context, nodeURL string, envelope nostrnode.Event) (*Response, error) {
	u, err := NormalizeURL(nodeURL)
	if err != nil {
		return nil, err
	}
	if !envelope.Verify() {
		return nil, ErrInvalidEnvelope
	}

	identity, ok := c.identity(u)
	if !ok {
		identity, err = c.DiscoverIdentity(ctx, u)
		if err != nil {
			return nil, err
		}
	}

	body, err := envelope.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u+"/entrypoint", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create a request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NodeUnreachableError{URL: u, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		reason, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		nerr := &NodeUnreachableError{URL: u, StatusCode: res.StatusCode}
		if msg := string(bytes.TrimSpace(reason)); msg != "" {
			nerr.Err = fmt.Errorf("%s", msg)
		}
		return nil, nerr
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, &NodeUnreachableError{URL: u, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, c.untrusted(u, fmt.Sprintf("response is larger than %d bytes", c.maxResponseSize), nostrnode.ZeroPK)
	}

	return c.authenticate(u, identity, envelope.ID, data)
}

func (c *Client) authenticate(u string, identity nostrnode.PubKey, envelopeID nostrnode.ID, data []byte) (*Response, error) {
	var evt nostrnode.Event
	if err := evt.UnmarshalJSON(data); err != nil {
		return nil, c.untrusted(u, "response is not an event: "+err.Error(), nostrnode.ZeroPK)
	}
	if !evt.Verify() {
		return nil, c.untrusted(u, "response has a bad id or signature", evt.PubKey)
	}
	if evt.PubKey != identity {
		return nil, c.untrusted(u, "response is signed by "+evt.PubKey.Hex()+" instead of the pinned node identity", evt.PubKey)
	}
	if tag := evt.Tags.Find("e"); tag == nil || tag[1] != envelopeID.Hex() {
		return nil, c.untrusted(u, "response doesn't reference envelope "+envelopeID.Hex(), evt.PubKey)
	}

	var result any
	if err := nostrnode.JSON().UnmarshalFromString(evt.Content, &result); err != nil {
		return nil, &MalformedResponseError{URL: u, Err: fmt.Errorf("content is not json: %w", err)}
	}

	return &Response{Event: evt, Result: result}, nil
}

func (c *Client) untrusted(u string, reason string, pk nostrnode.PubKey) error {
	c.logger.Error().Str("url", u).Str("pubkey", pk.Hex()).Str("reason", reason).
		Msg("discarding node response that failed authentication, possible tampering")
	return &UntrustedResponseError{URL: u, Reason: reason, PubKey: pk}
}

// Submit builds a control envelope with the given command and payload, signs it
// and submits it.
func (c *Client) Submit(
	ctx context.Context,
	nodeURL string,
	signer nostrnode.Signer,
	command string,
	payload map[string]any,
) (*Response, error) {
	tmpl, err := nostrnode.BuildControlEnvelope(command, payload, nostrnode.Now())
	if err != nil {
		return nil, err
	}
	envelope, err := signer.SignEvent(ctx, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign envelope: %w", err)
	}
	return c.SubmitEnvelope(ctx, nodeURL, envelope)
}

// PublishEvent wraps an already signed event in a PUBLISH_EVENT envelope signed
// by signer and submits it. The event may have been signed by someone else:
// the node authenticates the envelope and the event separately.
func (c *Client) PublishEvent(ctx context.Context, nodeURL string, signer nostrnode.Signer, evt nostrnode.Event) (*Response, error) {
	if !evt.Verify() {
		return nil, fmt.Errorf("event %s has a bad id or signature", evt.ID.Hex())
	}
	return c.Submit(ctx, nodeURL, signer, nostrnode.CommandPublishEvent, map[string]any{"event": evt})
}

// SignAndSubmit signs tmpl and publishes the resulting event, signing the
// envelope with the same signer.
func (c *Client) SignAndSubmit(ctx context.Context, nodeURL string, signer nostrnode.Signer, tmpl nostrnode.EventTemplate) (*Response, error) {
	evt, err := signer.SignEvent(ctx, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign event: %w", err)
	}
	return c.PublishEvent(ctx, nodeURL, signer, evt)
}
