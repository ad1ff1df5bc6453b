package nostrnode

import (
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/require"
)

var testKey = mustSecretKey("0000000000000000000000000000000000000000000000000000000000000003")

func mustSecretKey(skh string) SecretKey {
	sk, err := SecretKeyFromHex(skh)
	if err != nil {
		panic(err)
	}
	return sk
}

func TestGetPublicKey(t *testing.T) {
	require.Equal(t, pk3, testKey.Public().Hex())
}

func TestSignVerify(t *testing.T) {
	for _, tmpl := range []EventTemplate{
		{CreatedAt: 1700000000, Kind: 0, Content: `{"display_name":"A"}`},
		{CreatedAt: 1, Kind: 1, Tags: Tags{{"e", "x"}, {}}, Content: "\x00\n "},
		{CreatedAt: 1700000000, Kind: KindNodeControl, Tags: Tags{{"t", "a", "b"}}, Content: strings.Repeat("z", 10000)},
	} {
		evt, err := tmpl.Sign(testKey)
		require.NoError(t, err)
		require.Equal(t, testKey.Public(), evt.PubKey)
		require.True(t, evt.CheckID())
		require.True(t, evt.Verify())
	}
}

func TestSignIsDeterministic(t *testing.T) {
	tmpl, err := BuildEvent(KindProfileMetadata, nil, map[string]any{
		"display_name": "A",
		"location":     map[string]any{"lat": "1.0", "lon": "2.0"},
	}, 1700000000)
	require.NoError(t, err)
	require.Equal(t, `{"display_name":"A","location":{"lat":"1.0","lon":"2.0"}}`, tmpl.Content)

	a, err := tmpl.Sign(testKey)
	require.NoError(t, err)
	b, err := tmpl.Sign(testKey)
	require.NoError(t, err)

	require.Equal(t, a.ID, b.ID)
	require.Equal(t, a.Sig, b.Sig)
}

func TestVerifyDetectsTampering(t *testing.T) {
	evt, err := EventTemplate{
		CreatedAt: 1700000000,
		Kind:      1,
		Tags:      Tags{{"a", "1"}, {"b", "2"}},
		Content:   "original",
	}.Sign(testKey)
	require.NoError(t, err)
	require.True(t, evt.Verify())

	tamper := []func(e *Event){
		func(e *Event) { e.Content = "changed" },
		func(e *Event) { e.Tags = Tags{{"b", "2"}, {"a", "1"}} },
		func(e *Event) { e.CreatedAt++ },
		func(e *Event) { e.Kind = 2 },
		func(e *Event) { e.PubKey = MustPubKeyFromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798") },
		func(e *Event) { e.Sig[10] ^= 0x01 },
		func(e *Event) { e.ID[0] ^= 0x01 },
		func(e *Event) { e.PubKey = ZeroPK },
	}
	for i, f := range tamper {
		cp := evt
		cp.Tags = evt.Tags.CloneDeep()
		f(&cp)
		require.False(t, cp.Verify(), "tampering %d went unnoticed", i)
	}

	// recomputing the id over tampered content doesn't help without a new signature
	cp := evt
	cp.Content = "changed"
	cp.ID = cp.GetID()
	require.False(t, cp.Verify())

	// untouched original still passes
	require.True(t, evt.Verify())
}

func TestVerifyZeroEvent(t *testing.T) {
	require.False(t, Event{}.Verify())
}

func TestSignInvalidKey(t *testing.T) {
	tmpl := EventTemplate{CreatedAt: 1, Kind: 1}

	_, err := tmpl.Sign(SecretKey{})
	var ike *InvalidKeyError
	require.True(t, errors.As(err, &ike))

	// the curve order itself
	n, _ := hexToKey("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	_, err = tmpl.Sign(n)
	require.True(t, errors.As(err, &ike))

	for _, bad := range []string{
		"",
		"03",
		"zz00000000000000000000000000000000000000000000000000000000000003",
		"0000000000000000000000000000000000000000000000000000000000000000",
	} {
		_, err := SecretKeyFromHex(bad)
		require.True(t, errors.As(err, &ike), "%q", bad)
	}
}

func hexToKey(s string) (SecretKey, error) {
	var sk SecretKey
	pk, err := PubKeyFromHexCheap(s)
	copy(sk[:], pk[:])
	return sk, err
}

func TestSignRejectsInvalidUTF8(t *testing.T) {
	for _, tmpl := range []EventTemplate{
		{CreatedAt: 1, Kind: 1, Content: "bad \xff byte"},
		{CreatedAt: 1, Kind: 1, Tags: Tags{{"t", "ok"}, {"t", "\xc3"}}},
		{CreatedAt: 1, Kind: 1, Tags: Tags{{"\xed\xa0\x80", "surrogate"}}},
	} {
		_, err := tmpl.Sign(testKey)
		require.ErrorIs(t, err, ErrInvalidUTF8)
	}

	// multi-byte text is fine and survives the wire
	evt, err := EventTemplate{CreatedAt: 1, Kind: 1, Tags: Tags{{"t", "café"}}, Content: "日本語 🌍"}.Sign(testKey)
	require.NoError(t, err)
	var decoded Event
	require.NoError(t, decoded.UnmarshalJSON([]byte(evt.String())))
	require.True(t, decoded.Verify())
}

func TestVerifyRejectsInvalidUTF8(t *testing.T) {
	// signed by hand, bypassing Sign
	evt := Event{CreatedAt: 1, Kind: 1, Tags: Tags{}, Content: "bad \xff byte"}
	sk, pk := btcec.PrivKeyFromBytes(testKey[:])
	evt.PubKey = [32]byte(pk.SerializeCompressed()[1:])
	evt.ID = evt.GetID()
	sig, err := schnorr.Sign(sk, evt.ID[:], schnorr.FastSign())
	require.NoError(t, err)
	evt.Sig = [64]byte(sig.Serialize())

	require.True(t, evt.CheckID())
	require.False(t, evt.Verify())

	// what it would turn into after any JSON encoder
	var decoded Event
	require.NoError(t, decoded.UnmarshalJSON([]byte(evt.String())))
	require.NotEqual(t, evt.Content, decoded.Content)
	require.False(t, decoded.Verify())
}
