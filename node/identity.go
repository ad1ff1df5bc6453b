package node

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/kvstore"
	"fiatjaf.com/nostrnode/nip19"
)

const pinPrefix = "identity:"

// DiscoverIdentity fetches the public key served at {nodeURL}/identity and pins
// it for that URL, replacing any previous pin. This is the trust-on-first-use
// step described in the package documentation: the key is not verified.
//
// The key may be served as hex or as an npub. Concurrent discoveries of the
// same URL share a single request.
func (c *Client) DiscoverIdentity(ctx context.Context, nodeURL string) (nostrnode.PubKey, error) {
	u, err := NormalizeURL(nodeURL)
	if err != nil {
		return nostrnode.ZeroPK, err
	}

	if err := ctx.Err(); err != nil {
		return nostrnode.ZeroPK, &NodeUnreachableError{URL: u, Err: err}
	}

	ch := c.discovery.DoChan(u, func() (any, error) {
		// shared by every waiter, so one of them going away doesn't cancel it
		return c.discover(context.WithoutCancel(ctx), u)
	})

	select {
	case <-ctx.Done():
		return nostrnode.ZeroPK, &NodeUnreachableError{URL: u, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nostrnode.ZeroPK, res.Err
		}
		return res.Val.(nostrnode.PubKey), nil
	}
}

func (c *Client) discover(ctx context.Context, u string) (nostrnode.PubKey, error) {
	// the caller's cancellation doesn't reach here, so this bounds the request
	// even when the http client has no timeout of its own
	ctx, cancel := context.WithTimeout(ctx, c.discoveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"/identity", nil)
	if err != nil {
		return nostrnode.ZeroPK, fmt.Errorf("failed to create a request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nostrnode.ZeroPK, &NodeUnreachableError{URL: u, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nostrnode.ZeroPK, &NodeUnreachableError{URL: u, StatusCode: res.StatusCode}
	}

	// an npub is 63 characters, leave room for whitespace
	body, err := io.ReadAll(io.LimitReader(res.Body, 256))
	if err != nil {
		return nostrnode.ZeroPK, &NodeUnreachableError{URL: u, Err: fmt.Errorf("failed to read identity: %w", err)}
	}

	pk, err := nip19.ParsePubKey(string(body))
	if err != nil {
		return nostrnode.ZeroPK, &MalformedResponseError{URL: u, Err: fmt.Errorf("identity is not a public key: %w", err)}
	}

	if previous, ok := c.identity(u); !ok {
		c.logger.Warn().Str("url", u).Str("pubkey", pk.Hex()).Msg("trusting node identity on first use")
	} else if previous != pk {
		c.logger.Warn().Str("url", u).Str("previous", previous.Hex()).Str("pubkey", pk.Hex()).
			Msg("node identity changed, replacing pin")
	}

	if err := c.Pin(u, pk); err != nil {
		return pk, err
	}
	return pk, nil
}

// Pin sets the trusted identity for a node URL without asking the node.
// With a pin store the key is only trusted once it has been persisted.
func (c *Client) Pin(nodeURL string, pk nostrnode.PubKey) error {
	u, err := NormalizeURL(nodeURL)
	if err != nil {
		return err
	}

	if c.pins != nil {
		value := []byte(pk.Hex())
		err := c.pins.Update([]byte(pinPrefix+u), func(current []byte) ([]byte, error) {
			if bytes.Equal(current, value) {
				return nil, kvstore.NoOp
			}
			return value, nil
		})
		if err != nil {
			return fmt.Errorf("failed to persist pin for %s: %w", u, err)
		}
	}

	c.identities.Store(u, pk)
	return nil
}

// Forget drops the pinned identity for a node URL. The next submission to it
// will go through discovery again.
func (c *Client) Forget(nodeURL string) error {
	u, err := NormalizeURL(nodeURL)
	if err != nil {
		return err
	}

	c.identities.Delete(u)
	if c.pins != nil {
		return c.pins.Delete([]byte(pinPrefix + u))
	}
	return nil
}

// Identity returns the pinned identity for a node URL, if any.
func (c *Client) Identity(nodeURL string) (nostrnode.PubKey, bool) {
	u, err := NormalizeURL(nodeURL)
	if err != nil {
		return nostrnode.ZeroPK, false
	}
	return c.identity(u)
}

func (c *Client) identity(u string) (nostrnode.PubKey, bool) {
	if pk, ok := c.identities.Load(u); ok {
		return pk, true
	}
	if c.pins == nil {
		return nostrnode.ZeroPK, false
	}

	v, err := c.pins.Get([]byte(pinPrefix + u))
	if err != nil || v == nil {
		return nostrnode.ZeroPK, false
	}
	pk, err := nostrnode.PubKeyFromHex(string(v))
	if err != nil {
		c.logger.Error().Err(err).Str("url", u).Msg("ignoring corrupted pin")
		return nostrnode.ZeroPK, false
	}

	pk, _ = c.identities.LoadOrStore(u, pk)
	return pk, true
}
