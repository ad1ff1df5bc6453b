package keyer

import (
	"context"
	"fmt"

	"fiatjaf.com/nostrnode"
	"fiatjaf.com/nostrnode/nip19"
)

var _ nostrnode.Signer = (*SourceSigner)(nil)

// SecretSource returns the secret key in nsec or hex form. It is called once
// per signing operation, typically reading from an encrypted store.
type SecretSource func(context.Context) (string, error)

// SourceSigner is a signer that never holds the secret key: it asks its
// SecretSource for it on every call and wipes the decoded bytes afterwards.
type SourceSigner struct {
	source SecretSource
}

func NewSourceSigner(source SecretSource) SourceSigner {
	return SourceSigner{source}
}

// StaticSource wraps a key that the caller already has at hand.
func StaticSource(nsecOrHex string) SecretSource {
	return func(context.Context) (string, error) { return nsecOrHex, nil }
}

func (ss SourceSigner) withKey(ctx context.Context, f func(nostrnode.SecretKey) error) error {
	raw, err := ss.source(ctx)
	if err != nil {
		return fmt.Errorf("failed to get secret key: %w", err)
	}
	sk, err := nip19.ParseSecretKey(raw)
	defer clear(sk[:])
	if err != nil {
		return err
	}
	return f(sk)
}

// SignEvent signs the template with the key obtained from the source.
func (ss SourceSigner) SignEvent(ctx context.Context, tmpl nostrnode.EventTemplate) (evt nostrnode.Event, err error) {
	err = ss.withKey(ctx, func(sk nostrnode.SecretKey) error {
		evt, err = tmpl.Sign(sk)
		return err
	})
	return evt, err
}

// GetPublicKey derives the public key from the key obtained from the source.
func (ss SourceSigner) GetPublicKey(ctx context.Context) (pk nostrnode.PubKey, err error) {
	err = ss.withKey(ctx, func(sk nostrnode.SecretKey) error {
		pk = sk.Public()
		return nil
	})
	return pk, err
}
