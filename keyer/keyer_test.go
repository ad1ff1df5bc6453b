package keyer

import (
	"context"
	"errors"
	"testing"

	"fiatjaf.com/nostrnode"
	"github.com/stretchr/testify/require"
)

func TestSourceSigner(t *testing.T) {
	ctx := context.Background()
	calls := 0
	signer := NewSourceSigner(func(context.Context) (string, error) {
		calls++
		return "nsec1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqps52s3re", nil
	})

	pk, err := signer.GetPublicKey(ctx)
	require.NoError(t, err)
	require.Equal(t, "f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9", pk.Hex())

	evt, err := signer.SignEvent(ctx, nostrnode.EventTemplate{CreatedAt: 1700000000, Kind: 1, Content: "hi"})
	require.NoError(t, err)
	require.True(t, evt.Verify())
	require.Equal(t, pk, evt.PubKey)

	require.Equal(t, 2, calls)
}

func TestSourceSignerErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewSourceSigner(func(context.Context) (string, error) {
		return "", errors.New("locked")
	}).SignEvent(ctx, nostrnode.EventTemplate{})
	require.ErrorContains(t, err, "locked")

	_, err = NewSourceSigner(StaticSource("garbage")).SignEvent(ctx, nostrnode.EventTemplate{})
	var ike *nostrnode.InvalidKeyError
	require.True(t, errors.As(err, &ike))
}

func TestManualSigner(t *testing.T) {
	inner := NewSourceSigner(StaticSource("0000000000000000000000000000000000000000000000000000000000000003"))
	signed := 0
	ms := ManualSigner{
		ManualGetPublicKey: inner.GetPublicKey,
		ManualSignEvent: func(ctx context.Context, tmpl nostrnode.EventTemplate) (nostrnode.Event, error) {
			signed++
			return inner.SignEvent(ctx, tmpl)
		},
	}

	evt, err := ms.SignEvent(context.Background(), nostrnode.EventTemplate{CreatedAt: 1, Kind: 1})
	require.NoError(t, err)
	require.True(t, evt.Verify())
	require.Equal(t, 1, signed)
}
