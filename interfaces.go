package nostrnode

import (
	"context"
)

// Signer turns templates into signed events. Implementations decide where the
// secret comes from; see the keyer package.
type Signer interface {
	SignEvent(context.Context, EventTemplate) (Event, error)
	GetPublicKey(context.Context) (PubKey, error)
}
