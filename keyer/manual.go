package keyer

import (
	"context"

	"fiatjaf.com/nostrnode"
)

var _ nostrnode.Signer = (*ManualSigner)(nil)

// ManualSigner is a signer that delegates all operations to user-provided functions.
// It can be used when an app wants to ask the user or some remote signer to
// provide a signed event, or when it wants custom signing logic.
type ManualSigner struct {
	// ManualGetPublicKey is called when the public key is needed
	ManualGetPublicKey func(context.Context) (nostrnode.PubKey, error)

	// ManualSignEvent is called when an event needs to be signed
	ManualSignEvent func(context.Context, nostrnode.EventTemplate) (nostrnode.Event, error)
}

// SignEvent delegates event signing to the ManualSignEvent function.
func (ms ManualSigner) SignEvent(ctx context.Context, tmpl nostrnode.EventTemplate) (nostrnode.Event, error) {
	return ms.ManualSignEvent(ctx, tmpl)
}

// GetPublicKey delegates public key retrieval to the ManualGetPublicKey function.
func (ms ManualSigner) GetPublicKey(ctx context.Context) (nostrnode.PubKey, error) {
	return ms.ManualGetPublicKey(ctx)
}
